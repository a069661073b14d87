package services

import (
	"context"

	"love-journal-backend/internal/models"
)

// DayView is everything the couple recorded on one date
type DayView struct {
	Date         string
	Quote        *models.DailyQuote
	Moods        *DayMoods
	MyPosts      []*models.Post
	PartnerPosts []*models.Post
	Starred      []*models.Post
}

// DayService assembles the single-day view
type DayService struct {
	moods  *MoodService
	posts  *PostService
	quotes *QuoteService
}

// NewDayService creates a new day service
func NewDayService(moods *MoodService, posts *PostService, quotes *QuoteService) *DayService {
	return &DayService{moods: moods, posts: posts, quotes: quotes}
}

// Day returns the quote, moods and posts of date. Posts are lists: a member
// may write any number of posts per day.
func (s *DayService) Day(ctx context.Context, couple *models.Couple, callerID, date string) (*DayView, error) {
	if err := ValidateDate(date); err != nil {
		return nil, err
	}

	moods, err := s.moods.MoodsOn(ctx, couple, callerID, date)
	if err != nil {
		return nil, err
	}
	posts, err := s.posts.PostsOn(ctx, couple, date)
	if err != nil {
		return nil, err
	}

	view := &DayView{
		Date:         date,
		Quote:        s.quotes.On(ctx, couple.ID, date),
		Moods:        moods,
		MyPosts:      []*models.Post{},
		PartnerPosts: []*models.Post{},
		Starred:      []*models.Post{},
	}
	for _, p := range posts {
		if p.AuthorID == callerID {
			view.MyPosts = append(view.MyPosts, p)
		} else {
			view.PartnerPosts = append(view.PartnerPosts, p)
		}
		if p.Starred {
			view.Starred = append(view.Starred, p)
		}
	}
	return view, nil
}
