package services

import (
	"context"
	"time"

	"love-journal-backend/internal/models"
)

// The interfaces below are the slices of the repositories each service uses.
// *repository.XRepository satisfies them; tests substitute in-memory fakes.

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)
	Update(ctx context.Context, user *models.User) error
}

type CoupleStore interface {
	GetByID(ctx context.Context, id string) (*models.Couple, error)
	GetByUserID(ctx context.Context, userID string) (*models.Couple, error)
	GetByInviteCode(ctx context.Context, code string) (*models.Couple, error)
	Create(ctx context.Context, couple *models.Couple) error
	AddMember(ctx context.Context, coupleID, userID string) (*models.Couple, error)
	RemoveMember(ctx context.Context, coupleID, userID string) (deleted bool, err error)
	UpdateStartDate(ctx context.Context, coupleID, startDate, inviteCode string) error
}

type MoodStore interface {
	Create(ctx context.Context, event *models.MoodEvent) error
	GetForUser(ctx context.Context, id, userID string) (*models.MoodEvent, error)
	Update(ctx context.Context, event *models.MoodEvent) error
	ListByUserDate(ctx context.Context, userID, date string) ([]*models.MoodEvent, error)
	ListByUserRange(ctx context.Context, coupleID, userID, from, to string) ([]*models.MoodEvent, error)
}

type PostStore interface {
	Create(ctx context.Context, post *models.Post) error
	UpdateContent(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, coupleID, id string) (*models.Post, error)
	ListSince(ctx context.Context, coupleID, since, authorID string) ([]*models.Post, error)
	ListByDate(ctx context.Context, coupleID, date string) ([]*models.Post, error)
	ListStarred(ctx context.Context, coupleID string) ([]*models.Post, error)
	SetStarred(ctx context.Context, coupleID, id string, starred *bool) (bool, error)
	Delete(ctx context.Context, coupleID, authorID, id string) error
}

type CommentStore interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, postID, id string) (*models.Comment, error)
	ListByPost(ctx context.Context, postID string) ([]*models.Comment, error)
}

type ReactionStore interface {
	Upsert(ctx context.Context, reaction *models.Reaction) error
	ListByPost(ctx context.Context, postID string) ([]*models.Reaction, error)
	Delete(ctx context.Context, postID, userID string) error
}

type MessageStore interface {
	Create(ctx context.Context, message *models.Message) error
	ListBefore(ctx context.Context, coupleID string, before *time.Time, limit int) ([]*models.Message, error)
}

type QuoteStore interface {
	GetByCoupleDate(ctx context.Context, coupleID, date string) (*models.DailyQuote, error)
	Create(ctx context.Context, quote *models.DailyQuote) error
}
