package handlers

import (
	"time"

	"love-journal-backend/internal/models"
	"love-journal-backend/internal/services"
)

// Wire projections. Each entity has exactly one mapping from its model to
// the JSON shape clients see; handlers never encode models directly.

type CoupleView struct {
	ID         string   `json:"id"`
	InviteCode string   `json:"inviteCode"`
	StartDate  *string  `json:"startDate"`
	CreatorID  string   `json:"creatorId"`
	MemberIDs  []string `json:"memberIds"`
}

func coupleView(c *models.Couple) *CoupleView {
	if c == nil {
		return nil
	}
	members := c.MemberIDs
	if members == nil {
		members = []string{}
	}
	return &CoupleView{
		ID:         c.ID,
		InviteCode: c.InviteCode,
		StartDate:  c.StartDate,
		CreatorID:  c.CreatorID(),
		MemberIDs:  members,
	}
}

type MemberView struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Image *string `json:"image"`
}

type CoupleDetailsView struct {
	CoupleView
	DaysInLove int          `json:"daysInLove"`
	Members    []MemberView `json:"members"`
}

func coupleDetailsView(d *services.CoupleDetails) *CoupleDetailsView {
	if d == nil {
		return nil
	}
	members := make([]MemberView, len(d.Members))
	for i, m := range d.Members {
		members[i] = MemberView{ID: m.ID, Name: m.Name, Email: m.Email, Image: m.Image}
	}
	return &CoupleDetailsView{
		CoupleView: *coupleView(d.Couple),
		DaysInLove: d.DaysInLove,
		Members:    members,
	}
}

type ProfileView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Image     *string   `json:"image"`
	Gender    *string   `json:"gender"`
	CreatedAt time.Time `json:"createdAt"`
}

func profileView(u *models.User) ProfileView {
	view := ProfileView{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Image:     u.Image,
		CreatedAt: u.CreatedAt,
	}
	if u.Gender != nil {
		g := string(*u.Gender)
		view.Gender = &g
	}
	return view
}

type MoodEventView struct {
	ID        string    `json:"id"`
	CoupleID  string    `json:"coupleId"`
	UserID    string    `json:"userId"`
	Date      string    `json:"date"`
	Mood      string    `json:"mood"`
	Emoji     string    `json:"emoji"`
	Intensity int       `json:"intensity"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"createdAt"`
}

func moodEventView(e *models.MoodEvent) *MoodEventView {
	if e == nil {
		return nil
	}
	return &MoodEventView{
		ID:        e.ID,
		CoupleID:  e.CoupleID,
		UserID:    e.UserID,
		Date:      e.Date,
		Mood:      string(e.Mood),
		Emoji:     e.Mood.Emoji(),
		Intensity: e.Intensity,
		Note:      e.Note,
		CreatedAt: e.CreatedAt,
	}
}

func moodEventViews(events []*models.MoodEvent) []*MoodEventView {
	views := make([]*MoodEventView, len(events))
	for i, e := range events {
		views[i] = moodEventView(e)
	}
	return views
}

// MemberMoods holds one value per member of the couple
type MemberMoods[T any] struct {
	Me      T `json:"me"`
	Partner T `json:"partner"`
}

type DayMoodsView struct {
	Moods  MemberMoods[*MoodEventView]   `json:"moods"`
	Events MemberMoods[[]*MoodEventView] `json:"events"`
}

func dayMoodsView(d *services.DayMoods) DayMoodsView {
	return DayMoodsView{
		Moods: MemberMoods[*MoodEventView]{
			Me:      moodEventView(d.Me),
			Partner: moodEventView(d.Partner),
		},
		Events: MemberMoods[[]*MoodEventView]{
			Me:      moodEventViews(d.MeEvents),
			Partner: moodEventViews(d.PartnerEvents),
		},
	}
}

type MoodMatchView struct {
	Status  string                      `json:"status"`
	Message string                      `json:"message"`
	Moods   MemberMoods[*MoodEventView] `json:"moods"`
}

func moodMatchView(m *services.MoodMatch) MoodMatchView {
	return MoodMatchView{
		Status:  string(m.Status),
		Message: m.Message,
		Moods: MemberMoods[*MoodEventView]{
			Me:      moodEventView(m.Me),
			Partner: moodEventView(m.Partner),
		},
	}
}

type DayMoodView struct {
	Mood      string `json:"mood"`
	Intensity int    `json:"intensity"`
}

func dayMoodView(m *services.DayMood) *DayMoodView {
	if m == nil {
		return nil
	}
	return &DayMoodView{Mood: string(m.Mood), Intensity: m.Intensity}
}

// ReviewDayView is one heatmap cell of a single member. Empty days carry nulls.
type ReviewDayView struct {
	Date      string  `json:"date"`
	Mood      *string `json:"mood"`
	Intensity *int    `json:"intensity"`
}

// CoupleReviewDayView is one heatmap cell of the couple view
type CoupleReviewDayView struct {
	Date    string       `json:"date"`
	Me      *DayMoodView `json:"me"`
	Partner *DayMoodView `json:"partner"`
}

// reviewView projects a year series. The couple view and the single-member
// views have different cell shapes.
func reviewView(view services.ReviewView, days []services.ReviewDay) any {
	if view == services.ViewCouple {
		out := make([]CoupleReviewDayView, len(days))
		for i, d := range days {
			out[i] = CoupleReviewDayView{Date: d.Date, Me: dayMoodView(d.Me), Partner: dayMoodView(d.Partner)}
		}
		return out
	}

	out := make([]ReviewDayView, len(days))
	for i, d := range days {
		out[i] = ReviewDayView{Date: d.Date}
		if d.Mood != nil {
			mood := string(d.Mood.Mood)
			intensity := d.Mood.Intensity
			out[i].Mood = &mood
			out[i].Intensity = &intensity
		}
	}
	return out
}

type PostView struct {
	ID        string             `json:"id"`
	CoupleID  string             `json:"coupleId"`
	AuthorID  string             `json:"authorId"`
	Date      string             `json:"date"`
	Content   string             `json:"content"`
	Images    []models.PostImage `json:"images"`
	Starred   bool               `json:"starred"`
	CreatedAt time.Time          `json:"createdAt"`
}

func postView(p *models.Post) PostView {
	images := p.Images
	if images == nil {
		images = []models.PostImage{}
	}
	return PostView{
		ID:        p.ID,
		CoupleID:  p.CoupleID,
		AuthorID:  p.AuthorID,
		Date:      p.Date,
		Content:   p.Content,
		Images:    images,
		Starred:   p.Starred,
		CreatedAt: p.CreatedAt,
	}
}

func postViews(posts []*models.Post) []PostView {
	views := make([]PostView, len(posts))
	for i, p := range posts {
		views[i] = postView(p)
	}
	return views
}

type CommentView struct {
	ID              string    `json:"id"`
	PostID          string    `json:"postId"`
	UserID          string    `json:"userId"`
	Text            string    `json:"text"`
	ParentCommentID *string   `json:"parentCommentId"`
	CreatedAt       time.Time `json:"createdAt"`
}

func commentView(c *models.Comment) CommentView {
	return CommentView{
		ID:              c.ID,
		PostID:          c.PostID,
		UserID:          c.UserID,
		Text:            c.Text,
		ParentCommentID: c.ParentCommentID,
		CreatedAt:       c.CreatedAt,
	}
}

type ReactionView struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId"`
	UserID    string    `json:"userId"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
}

func reactionView(r *models.Reaction) ReactionView {
	return ReactionView{
		ID:        r.ID,
		PostID:    r.PostID,
		UserID:    r.UserID,
		Type:      string(r.Type),
		CreatedAt: r.CreatedAt,
	}
}

type ReactionSummaryView struct {
	Reactions  map[string][]ReactionView `json:"reactions"`
	Counts     map[string]int            `json:"counts"`
	MyReaction *string                   `json:"myReaction"`
}

func reactionSummaryView(s *services.ReactionSummary) ReactionSummaryView {
	view := ReactionSummaryView{
		Reactions: make(map[string][]ReactionView, len(models.ReactionTypes)),
		Counts:    make(map[string]int, len(models.ReactionTypes)),
	}
	for _, typ := range models.ReactionTypes {
		list := s.ByType[typ]
		views := make([]ReactionView, len(list))
		for i, r := range list {
			views[i] = reactionView(r)
		}
		view.Reactions[string(typ)] = views
		view.Counts[string(typ)] = len(list)
	}
	if s.MyReaction != nil {
		typ := string(s.MyReaction.Type)
		view.MyReaction = &typ
	}
	return view
}

type MessageView struct {
	ID        string    `json:"id"`
	CoupleID  string    `json:"coupleId"`
	SenderID  string    `json:"senderId"`
	Text      *string   `json:"text"`
	ImageURL  *string   `json:"imageUrl"`
	AudioURL  *string   `json:"audioUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

func messageView(m *models.Message) MessageView {
	return MessageView{
		ID:        m.ID,
		CoupleID:  m.CoupleID,
		SenderID:  m.SenderID,
		Text:      m.Text,
		ImageURL:  m.ImageURL,
		AudioURL:  m.AudioURL,
		CreatedAt: m.CreatedAt,
	}
}

type MessagePageView struct {
	Messages   []MessageView `json:"messages"`
	NextCursor *string       `json:"nextCursor"`
}

func messagePageView(p *services.MessagePage) MessagePageView {
	view := MessagePageView{Messages: make([]MessageView, len(p.Messages))}
	for i, m := range p.Messages {
		view.Messages[i] = messageView(m)
	}
	if p.NextCursor != nil {
		cursor := p.NextCursor.UTC().Format(time.RFC3339Nano)
		view.NextCursor = &cursor
	}
	return view
}

type QuoteView struct {
	Date   string `json:"date"`
	Text   string `json:"text"`
	Source string `json:"source"`
}

func quoteView(q *models.DailyQuote) QuoteView {
	return QuoteView{Date: q.Date, Text: q.Text, Source: string(q.Source)}
}

type DayView struct {
	DayMoodsView
	Date    string                  `json:"date"`
	Quote   QuoteView               `json:"quote"`
	Posts   MemberMoods[[]PostView] `json:"posts"`
	Starred []PostView              `json:"starred"`
}

func dayView(d *services.DayView) DayView {
	return DayView{
		Date:         d.Date,
		Quote:        quoteView(d.Quote),
		DayMoodsView: dayMoodsView(d.Moods),
		Posts: MemberMoods[[]PostView]{
			Me:      postViews(d.MyPosts),
			Partner: postViews(d.PartnerPosts),
		},
		Starred: postViews(d.Starred),
	}
}
