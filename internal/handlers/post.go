package handlers

import (
	"net/http"

	"love-journal-backend/internal/middleware"
	"love-journal-backend/internal/models"
	"love-journal-backend/internal/services"

	"github.com/go-chi/chi/v5"
)

// PostHandler handles posts and the comments and reactions on them
type PostHandler struct {
	postService *services.PostService
}

// NewPostHandler creates a new post handler
func NewPostHandler(postService *services.PostService) *PostHandler {
	return &PostHandler{
		postService: postService,
	}
}

// SavePostRequest creates a post, or edits the caller's post when postId is set
type SavePostRequest struct {
	Content string             `json:"content" validate:"max=10000"`
	Images  []models.PostImage `json:"images" validate:"max=10"`
	PostID  string             `json:"postId"`
}

// StarRequest sets the starred flag; an omitted value toggles it
type StarRequest struct {
	Starred *bool `json:"starred"`
}

// AddCommentRequest represents a comment or a one-level reply
type AddCommentRequest struct {
	Text            string `json:"text" validate:"max=2000"`
	ParentCommentID string `json:"parentCommentId"`
}

// ReactRequest represents a reaction
type ReactRequest struct {
	Type string `json:"type" validate:"required,reaction"`
}

type postsResponse struct {
	Posts []PostView `json:"posts"`
}

type postResponse struct {
	Post PostView `json:"post"`
}

// List handles GET /posts?range=week|month&filter=me|partner|both
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	posts, err := h.postService.ListPosts(ctx, middleware.GetCouple(ctx), middleware.GetUserID(ctx),
		services.PostRange(q.Get("range")), services.PostFilter(q.Get("filter")))
	if err != nil {
		respondServiceError(w, r, err, "Failed to list posts")
		return
	}

	respondJSON(w, http.StatusOK, postsResponse{Posts: postViews(posts)})
}

// Save handles POST /posts
func (h *PostHandler) Save(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req SavePostRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	post, err := h.postService.SavePost(ctx, middleware.GetCouple(ctx), middleware.GetUserID(ctx), services.PostInput{
		Content: req.Content,
		Images:  req.Images,
		PostID:  req.PostID,
	})
	if err != nil {
		respondServiceError(w, r, err, "Failed to save post")
		return
	}

	status := http.StatusCreated
	if req.PostID != "" {
		status = http.StatusOK
	}
	respondJSON(w, status, postResponse{Post: postView(post)})
}

// Get handles GET /posts/{id}
func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	post, err := h.postService.GetPost(ctx, middleware.GetCouple(ctx), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err, "Failed to get post")
		return
	}

	respondJSON(w, http.StatusOK, postResponse{Post: postView(post)})
}

// Delete handles DELETE /posts/{id}
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	err := h.postService.DeletePost(ctx, middleware.GetCouple(ctx), middleware.GetUserID(ctx), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err, "Failed to delete post")
		return
	}

	respondJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

// Star handles PATCH /posts/{id}/star
func (h *PostHandler) Star(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req StarRequest
	if !decodeOptionalJSON(w, r, &req) {
		return
	}

	starred, err := h.postService.StarPost(ctx, middleware.GetCouple(ctx), chi.URLParam(r, "id"), req.Starred)
	if err != nil {
		respondServiceError(w, r, err, "Failed to star post")
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"starred": starred})
}

// Starred handles GET /posts/starred
func (h *PostHandler) Starred(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	posts, err := h.postService.StarredPosts(ctx, middleware.GetCouple(ctx))
	if err != nil {
		respondServiceError(w, r, err, "Failed to list starred posts")
		return
	}

	respondJSON(w, http.StatusOK, postsResponse{Posts: postViews(posts)})
}

// ListComments handles GET /posts/{id}/comments
func (h *PostHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	comments, err := h.postService.ListComments(ctx, middleware.GetCouple(ctx), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err, "Failed to list comments")
		return
	}

	views := make([]CommentView, len(comments))
	for i, c := range comments {
		views[i] = commentView(c)
	}
	respondJSON(w, http.StatusOK, map[string][]CommentView{"comments": views})
}

// AddComment handles POST /posts/{id}/comments
func (h *PostHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req AddCommentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	comment, err := h.postService.AddComment(ctx, middleware.GetCouple(ctx), middleware.GetUserID(ctx),
		chi.URLParam(r, "id"), req.Text, req.ParentCommentID)
	if err != nil {
		respondServiceError(w, r, err, "Failed to add comment")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]CommentView{"comment": commentView(comment)})
}

// Reactions handles GET /posts/{id}/reactions
func (h *PostHandler) Reactions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	summary, err := h.postService.Reactions(ctx, middleware.GetCouple(ctx), middleware.GetUserID(ctx), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err, "Failed to list reactions")
		return
	}

	respondJSON(w, http.StatusOK, reactionSummaryView(summary))
}

// React handles POST /posts/{id}/reactions
func (h *PostHandler) React(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ReactRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	reaction, err := h.postService.React(ctx, middleware.GetCouple(ctx), middleware.GetUserID(ctx),
		chi.URLParam(r, "id"), models.ReactionType(req.Type))
	if err != nil {
		respondServiceError(w, r, err, "Failed to react")
		return
	}

	respondJSON(w, http.StatusOK, map[string]ReactionView{"reaction": reactionView(reaction)})
}

// Unreact handles DELETE /posts/{id}/reactions
func (h *PostHandler) Unreact(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	err := h.postService.Unreact(ctx, middleware.GetCouple(ctx), middleware.GetUserID(ctx), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err, "Failed to remove reaction")
		return
	}

	respondJSON(w, http.StatusOK, SuccessResponse{Success: true})
}
