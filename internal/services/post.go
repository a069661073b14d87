package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"love-journal-backend/internal/models"
	"love-journal-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// PostRange is the look-back window of the post feed
type PostRange string

const (
	RangeWeek  PostRange = "week"
	RangeMonth PostRange = "month"
)

// PostFilter selects whose posts the feed shows
type PostFilter string

const (
	FilterMe      PostFilter = "me"
	FilterPartner PostFilter = "partner"
	FilterBoth    PostFilter = "both"
)

// PostService handles posts, their comments and reactions
type PostService struct {
	posts     PostStore
	comments  CommentStore
	reactions ReactionStore
	now       Clock
	loc       *time.Location
}

// NewPostService creates a new post service
func NewPostService(posts PostStore, comments CommentStore, reactions ReactionStore, now Clock, loc *time.Location) *PostService {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.UTC
	}
	return &PostService{posts: posts, comments: comments, reactions: reactions, now: now, loc: loc}
}

// PostInput is a new post, or an edit of the caller's post when PostID is set
type PostInput struct {
	Content string
	Images  []models.PostImage
	PostID  string
}

// ReactionSummary groups a post's reactions by type
type ReactionSummary struct {
	ByType     map[models.ReactionType][]*models.Reaction
	MyReaction *models.Reaction
}

// ListPosts returns the couple's feed for a range and author filter, newest first
func (s *PostService) ListPosts(ctx context.Context, couple *models.Couple, callerID string, rng PostRange, filter PostFilter) ([]*models.Post, error) {
	if rng == "" {
		rng = RangeWeek
	}
	if filter == "" {
		filter = FilterBoth
	}

	today := Today(s.now(), s.loc)
	var since string
	switch rng {
	case RangeWeek:
		since, _ = DaysBefore(today, 7)
	case RangeMonth:
		since = s.now().In(s.loc).AddDate(0, -1, 0).Format(dateLayout)
	default:
		return nil, Validation("range must be week or month")
	}

	var authorID string
	switch filter {
	case FilterMe:
		authorID = callerID
	case FilterPartner:
		authorID = couple.PartnerID(callerID)
		if authorID == "" {
			return []*models.Post{}, nil
		}
	case FilterBoth:
	default:
		return nil, Validation("filter must be me, partner or both")
	}

	posts, err := s.posts.ListSince(ctx, couple.ID, since, authorID)
	if err != nil {
		return nil, storeError(err, nil)
	}
	return posts, nil
}

// SavePost creates a post for today or edits the caller's existing post
func (s *PostService) SavePost(ctx context.Context, couple *models.Couple, callerID string, in PostInput) (*models.Post, error) {
	if strings.TrimSpace(in.Content) == "" {
		return nil, Validation("Content required")
	}
	images := in.Images
	if images == nil {
		images = []models.PostImage{}
	}
	for _, img := range images {
		if strings.TrimSpace(img.URL) == "" {
			return nil, Validation("Image url required")
		}
	}

	if in.PostID != "" {
		post, err := s.GetPost(ctx, couple, in.PostID)
		if err != nil {
			return nil, err
		}
		if post.AuthorID != callerID {
			return nil, ErrPostNotFound
		}
		post.Content = in.Content
		post.Images = images
		if err := s.posts.UpdateContent(ctx, post); err != nil {
			return nil, storeError(err, ErrPostNotFound)
		}
		return post, nil
	}

	now := s.now()
	post := &models.Post{
		ID:        uuid.New().String(),
		CoupleID:  couple.ID,
		AuthorID:  callerID,
		Date:      Today(now, s.loc),
		Content:   in.Content,
		Images:    images,
		CreatedAt: now.UTC(),
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, storeError(err, nil)
	}
	log.Info().
		Str("user_id", callerID).
		Str("post_id", post.ID).
		Int("images", len(images)).
		Msg("Post created")
	return post, nil
}

// GetPost returns one of the couple's posts
func (s *PostService) GetPost(ctx context.Context, couple *models.Couple, postID string) (*models.Post, error) {
	if uuid.Validate(postID) != nil {
		return nil, ErrPostNotFound
	}
	post, err := s.posts.GetByID(ctx, couple.ID, postID)
	if err != nil {
		return nil, storeError(err, ErrPostNotFound)
	}
	return post, nil
}

// DeletePost removes the caller's post along with its comments and reactions
func (s *PostService) DeletePost(ctx context.Context, couple *models.Couple, callerID, postID string) error {
	if uuid.Validate(postID) != nil {
		return ErrPostNotFound
	}
	if err := s.posts.Delete(ctx, couple.ID, callerID, postID); err != nil {
		return storeError(err, ErrPostNotFound)
	}
	log.Info().Str("user_id", callerID).Str("post_id", postID).Msg("Post deleted")
	return nil
}

// StarPost sets the starred flag, or toggles it when starred is nil
func (s *PostService) StarPost(ctx context.Context, couple *models.Couple, postID string, starred *bool) (bool, error) {
	if uuid.Validate(postID) != nil {
		return false, ErrPostNotFound
	}
	result, err := s.posts.SetStarred(ctx, couple.ID, postID, starred)
	if err != nil {
		return false, storeError(err, ErrPostNotFound)
	}
	return result, nil
}

// StarredPosts returns the couple's starred posts
func (s *PostService) StarredPosts(ctx context.Context, couple *models.Couple) ([]*models.Post, error) {
	posts, err := s.posts.ListStarred(ctx, couple.ID)
	if err != nil {
		return nil, storeError(err, nil)
	}
	return posts, nil
}

// PostsOn returns every post of the couple on date
func (s *PostService) PostsOn(ctx context.Context, couple *models.Couple, date string) ([]*models.Post, error) {
	posts, err := s.posts.ListByDate(ctx, couple.ID, date)
	if err != nil {
		return nil, storeError(err, nil)
	}
	return posts, nil
}

// ListComments returns a post's comments, oldest first
func (s *PostService) ListComments(ctx context.Context, couple *models.Couple, postID string) ([]*models.Comment, error) {
	post, err := s.GetPost(ctx, couple, postID)
	if err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByPost(ctx, post.ID)
	if err != nil {
		return nil, storeError(err, nil)
	}
	return comments, nil
}

// AddComment adds a comment, optionally replying to a top-level comment on the same post
func (s *PostService) AddComment(ctx context.Context, couple *models.Couple, callerID, postID, text, parentID string) (*models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyComment
	}
	post, err := s.GetPost(ctx, couple, postID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ID:        uuid.New().String(),
		PostID:    post.ID,
		UserID:    callerID,
		Text:      text,
		CreatedAt: s.now().UTC(),
	}

	if parentID != "" {
		if uuid.Validate(parentID) != nil {
			return nil, ErrCommentNotFound
		}
		parent, err := s.comments.GetByID(ctx, post.ID, parentID)
		if err != nil {
			return nil, storeError(err, ErrCommentNotFound)
		}
		if parent.ParentCommentID != nil {
			return nil, ErrNestedReply
		}
		comment.ParentCommentID = &parent.ID
	}

	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, storeError(err, nil)
	}
	return comment, nil
}

// Reactions returns a post's reactions grouped by every reaction type
func (s *PostService) Reactions(ctx context.Context, couple *models.Couple, callerID, postID string) (*ReactionSummary, error) {
	post, err := s.GetPost(ctx, couple, postID)
	if err != nil {
		return nil, err
	}
	reactions, err := s.reactions.ListByPost(ctx, post.ID)
	if err != nil {
		return nil, storeError(err, nil)
	}

	summary := &ReactionSummary{ByType: make(map[models.ReactionType][]*models.Reaction, len(models.ReactionTypes))}
	for _, t := range models.ReactionTypes {
		summary.ByType[t] = []*models.Reaction{}
	}
	for _, r := range reactions {
		if _, ok := summary.ByType[r.Type]; !ok {
			continue
		}
		summary.ByType[r.Type] = append(summary.ByType[r.Type], r)
		if r.UserID == callerID {
			summary.MyReaction = r
		}
	}
	return summary, nil
}

// React sets the caller's reaction on a post, replacing any earlier one
func (s *PostService) React(ctx context.Context, couple *models.Couple, callerID, postID string, typ models.ReactionType) (*models.Reaction, error) {
	if !typ.Valid() {
		return nil, ErrInvalidReaction
	}
	post, err := s.GetPost(ctx, couple, postID)
	if err != nil {
		return nil, err
	}

	reaction := &models.Reaction{
		ID:        uuid.New().String(),
		PostID:    post.ID,
		UserID:    callerID,
		Type:      typ,
		CreatedAt: s.now().UTC(),
	}
	if err := s.reactions.Upsert(ctx, reaction); err != nil {
		return nil, storeError(err, nil)
	}
	return reaction, nil
}

// Unreact removes the caller's reaction on a post
func (s *PostService) Unreact(ctx context.Context, couple *models.Couple, callerID, postID string) error {
	post, err := s.GetPost(ctx, couple, postID)
	if err != nil {
		return err
	}
	if err := s.reactions.Delete(ctx, post.ID, callerID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return storeError(err, nil)
	}
	return nil
}
