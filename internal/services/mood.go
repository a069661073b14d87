package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"love-journal-backend/internal/metrics"
	"love-journal-backend/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	minIntensity = 0
	maxIntensity = 3
)

// MatchStatus compares the two members' dominant moods for a day
type MatchStatus string

const (
	MatchWaiting   MatchStatus = "WAITING"
	MatchNone      MatchStatus = "NONE"
	MatchOneSided  MatchStatus = "ONE_SIDED"
	MatchSame      MatchStatus = "MATCH"
	MatchDifferent MatchStatus = "MISMATCH"
)

// MoodService records mood check-ins and derives dominant moods from them
type MoodService struct {
	moods MoodStore
	users UserStore
	now   Clock
	loc   *time.Location
}

// NewMoodService creates a new mood service
func NewMoodService(moods MoodStore, users UserStore, now Clock, loc *time.Location) *MoodService {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.UTC
	}
	return &MoodService{moods: moods, users: users, now: now, loc: loc}
}

// MoodInput is a check-in. A non-empty EventID edits that event instead of adding one.
type MoodInput struct {
	Mood      models.Mood
	Intensity int
	Note      string
	EventID   string
}

// DayMoods holds both members' events for one day, strongest first, and the dominant of each
type DayMoods struct {
	Me            *models.MoodEvent
	Partner       *models.MoodEvent
	MeEvents      []*models.MoodEvent
	PartnerEvents []*models.MoodEvent
}

// MoodMatch is the comparison of today's dominant moods
type MoodMatch struct {
	Status  MatchStatus
	Message string
	Me      *models.MoodEvent
	Partner *models.MoodEvent
}

// ClampIntensity forces intensity into the 0..3 range
func ClampIntensity(intensity int) int {
	if intensity < minIntensity {
		return minIntensity
	}
	if intensity > maxIntensity {
		return maxIntensity
	}
	return intensity
}

// DominantMood picks the event with the highest intensity, the most recent
// one on ties. It returns nil for no events.
func DominantMood(events []*models.MoodEvent) *models.MoodEvent {
	var best *models.MoodEvent
	for _, e := range events {
		if best == nil ||
			e.Intensity > best.Intensity ||
			(e.Intensity == best.Intensity && e.CreatedAt.After(best.CreatedAt)) {
			best = e
		}
	}
	return best
}

// ClassifyMatch compares two dominant moods. Intensity is ignored.
func ClassifyMatch(memberCount int, me, partner *models.MoodEvent) MatchStatus {
	switch {
	case memberCount < 2:
		return MatchWaiting
	case me == nil && partner == nil:
		return MatchNone
	case me == nil || partner == nil:
		return MatchOneSided
	case me.Mood == partner.Mood:
		return MatchSame
	default:
		return MatchDifferent
	}
}

// MatchMessage renders the sentence shown next to a match status
func MatchMessage(status MatchStatus, me, partner *models.MoodEvent, partnerName string) string {
	if partnerName == "" {
		partnerName = "your partner"
	}
	switch status {
	case MatchWaiting:
		return "Waiting for your partner to join"
	case MatchNone:
		return "Neither of you has checked in today"
	case MatchOneSided:
		if me != nil {
			return fmt.Sprintf("You checked in, %s hasn't yet", partnerName)
		}
		return fmt.Sprintf("%s checked in, you haven't yet", capitalize(partnerName))
	case MatchSame:
		return fmt.Sprintf("You share the same mood today: %s %s", me.Mood.Emoji(), me.Mood)
	case MatchDifferent:
		return fmt.Sprintf("Different moods today: you %s %s, %s %s %s",
			me.Mood.Emoji(), me.Mood, partnerName, partner.Mood.Emoji(), partner.Mood)
	}
	return ""
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// RecordMood stores a check-in for today, or edits the caller's event when in.EventID is set
func (s *MoodService) RecordMood(ctx context.Context, callerID, coupleID string, in MoodInput) (*models.MoodEvent, error) {
	if !in.Mood.Valid() {
		return nil, ErrInvalidMood
	}
	intensity := ClampIntensity(in.Intensity)

	if in.EventID != "" {
		if uuid.Validate(in.EventID) != nil {
			return nil, ErrMoodEventNotFound
		}
		event, err := s.moods.GetForUser(ctx, in.EventID, callerID)
		if err != nil {
			return nil, storeError(err, ErrMoodEventNotFound)
		}
		if event.CoupleID != coupleID {
			return nil, ErrMoodEventNotFound
		}
		event.Mood = in.Mood
		event.Intensity = intensity
		event.Note = in.Note
		if err := s.moods.Update(ctx, event); err != nil {
			return nil, storeError(err, ErrMoodEventNotFound)
		}
		metrics.MoodCheckIns.WithLabelValues(string(event.Mood), "edit").Inc()
		log.Info().
			Str("user_id", callerID).
			Str("event_id", event.ID).
			Str("mood", string(event.Mood)).
			Msg("Mood event edited")
		return event, nil
	}

	now := s.now()
	event := &models.MoodEvent{
		ID:        uuid.New().String(),
		CoupleID:  coupleID,
		UserID:    callerID,
		Date:      Today(now, s.loc),
		Mood:      in.Mood,
		Intensity: intensity,
		Note:      in.Note,
		CreatedAt: now.UTC(),
	}
	if err := s.moods.Create(ctx, event); err != nil {
		return nil, storeError(err, nil)
	}
	metrics.MoodCheckIns.WithLabelValues(string(event.Mood), "create").Inc()
	log.Info().
		Str("user_id", callerID).
		Str("mood", string(event.Mood)).
		Int("intensity", event.Intensity).
		Msg("Mood recorded")
	return event, nil
}

// MoodsOn returns both members' events and dominant moods for date
func (s *MoodService) MoodsOn(ctx context.Context, couple *models.Couple, callerID, date string) (*DayMoods, error) {
	mine, err := s.moods.ListByUserDate(ctx, callerID, date)
	if err != nil {
		return nil, storeError(err, nil)
	}

	theirs := []*models.MoodEvent{}
	if partnerID := couple.PartnerID(callerID); partnerID != "" {
		theirs, err = s.moods.ListByUserDate(ctx, partnerID, date)
		if err != nil {
			return nil, storeError(err, nil)
		}
	}

	return &DayMoods{
		Me:            DominantMood(mine),
		Partner:       DominantMood(theirs),
		MeEvents:      mine,
		PartnerEvents: theirs,
	}, nil
}

// TodayMoods is MoodsOn for the current date
func (s *MoodService) TodayMoods(ctx context.Context, couple *models.Couple, callerID string) (*DayMoods, error) {
	return s.MoodsOn(ctx, couple, callerID, Today(s.now(), s.loc))
}

// TodayMoodMatch compares today's dominant moods of the two members
func (s *MoodService) TodayMoodMatch(ctx context.Context, couple *models.Couple, callerID string) (*MoodMatch, error) {
	if len(couple.MemberIDs) < 2 {
		return &MoodMatch{Status: MatchWaiting, Message: MatchMessage(MatchWaiting, nil, nil, "")}, nil
	}

	day, err := s.TodayMoods(ctx, couple, callerID)
	if err != nil {
		return nil, err
	}
	status := ClassifyMatch(len(couple.MemberIDs), day.Me, day.Partner)

	var partnerName string
	if status == MatchOneSided || status == MatchDifferent {
		if partner, err := s.users.GetByID(ctx, couple.PartnerID(callerID)); err == nil {
			partnerName = partner.Name
		} else {
			log.Warn().Err(err).Str("couple_id", couple.ID).Msg("Failed to load partner name")
		}
	}

	return &MoodMatch{
		Status:  status,
		Message: MatchMessage(status, day.Me, day.Partner, partnerName),
		Me:      day.Me,
		Partner: day.Partner,
	}, nil
}
