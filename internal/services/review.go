package services

import (
	"context"
	"fmt"

	"love-journal-backend/internal/models"
)

// ReviewView selects whose moods a year review shows
type ReviewView string

const (
	ViewMe      ReviewView = "me"
	ViewPartner ReviewView = "partner"
	ViewCouple  ReviewView = "couple"
)

// Valid reports whether v is a known view
func (v ReviewView) Valid() bool {
	return v == ViewMe || v == ViewPartner || v == ViewCouple
}

const (
	minReviewYear = 1970
	maxReviewYear = 9999
)

// DayMood is a dominant mood reduced to what the heatmap needs
type DayMood struct {
	Mood      models.Mood
	Intensity int
}

// ReviewDay is one calendar day of a year review. Single-member views
// fill Mood; the couple view fills Me and Partner.
type ReviewDay struct {
	Date    string
	Mood    *DayMood
	Me      *DayMood
	Partner *DayMood
}

// ReviewService builds year-long mood heatmaps
type ReviewService struct {
	moods MoodStore
}

// NewReviewService creates a new review service
func NewReviewService(moods MoodStore) *ReviewService {
	return &ReviewService{moods: moods}
}

// FirstPerDate reduces events sorted by date asc, intensity desc, createdAt desc
// to the first event of each date
func FirstPerDate(events []*models.MoodEvent) map[string]*DayMood {
	byDate := make(map[string]*DayMood)
	for _, e := range events {
		if _, seen := byDate[e.Date]; seen {
			continue
		}
		byDate[e.Date] = &DayMood{Mood: e.Mood, Intensity: e.Intensity}
	}
	return byDate
}

// BuildYearSeries lays the dominant moods out over every day of year.
// For the couple view both maps are used; otherwise only mine.
func BuildYearSeries(year int, view ReviewView, mine, partner map[string]*DayMood) []ReviewDay {
	days := DaysInYear(year)
	series := make([]ReviewDay, len(days))
	for i, date := range days {
		series[i].Date = date
		if view == ViewCouple {
			series[i].Me = mine[date]
			series[i].Partner = partner[date]
		} else {
			series[i].Mood = mine[date]
		}
	}
	return series
}

// YearReview returns one entry per day of year for the requested view
func (s *ReviewService) YearReview(ctx context.Context, couple *models.Couple, callerID string, year int, view ReviewView) ([]ReviewDay, error) {
	if !view.Valid() {
		return nil, Validation("view must be one of me, partner, couple")
	}
	if year < minReviewYear || year > maxReviewYear {
		return nil, Validation(fmt.Sprintf("year must be between %d and %d", minReviewYear, maxReviewYear))
	}

	from := fmt.Sprintf("%04d-01-01", year)
	to := fmt.Sprintf("%04d-12-31", year)
	partnerID := couple.PartnerID(callerID)

	load := func(userID string) (map[string]*DayMood, error) {
		if userID == "" {
			return map[string]*DayMood{}, nil
		}
		events, err := s.moods.ListByUserRange(ctx, couple.ID, userID, from, to)
		if err != nil {
			return nil, storeError(err, nil)
		}
		return FirstPerDate(events), nil
	}

	switch view {
	case ViewPartner:
		theirs, err := load(partnerID)
		if err != nil {
			return nil, err
		}
		return BuildYearSeries(year, view, theirs, nil), nil
	case ViewCouple:
		mine, err := load(callerID)
		if err != nil {
			return nil, err
		}
		theirs, err := load(partnerID)
		if err != nil {
			return nil, err
		}
		return BuildYearSeries(year, view, mine, theirs), nil
	default:
		mine, err := load(callerID)
		if err != nil {
			return nil, err
		}
		return BuildYearSeries(year, view, mine, nil), nil
	}
}
