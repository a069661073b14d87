package handlers

import (
	"net/http"
	"testing"

	"love-journal-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *testServer) createPost(token, content string) PostView {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/posts", token, SavePostRequest{Content: content})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[postResponse](s.t, rec).Post
}

func TestPosts_CreateEditList(t *testing.T) {
	s := newTestServer(t)
	an := s.user("u1", "an")
	bo := s.user("u2", "bo")
	s.pair("u1", "u2")

	first := s.createPost(an, "first")
	second := s.createPost(an, "second")
	s.createPost(bo, "from bo")
	assert.Equal(t, "2024-06-15", first.Date)
	assert.Equal(t, []models.PostImage{}, first.Images)

	// Several posts on the same day are fine.
	assert.NotEqual(t, first.ID, second.ID)

	rec := s.do(http.MethodPost, "/posts", an, SavePostRequest{
		Content: "first, edited",
		Images:  []models.PostImage{{URL: "https://media.test/a.jpg"}},
		PostID:  first.ID,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "first, edited", decode[postResponse](t, rec).Post.Content)

	// Only the author may edit.
	rec = s.do(http.MethodPost, "/posts", bo, SavePostRequest{Content: "hijack", PostID: first.ID})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodGet, "/posts?range=week&filter=me", an, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[postsResponse](t, rec).Posts, 2)

	rec = s.do(http.MethodGet, "/posts?filter=partner", an, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	partner := decode[postsResponse](t, rec).Posts
	require.Len(t, partner, 1)
	assert.Equal(t, "u2", partner[0].AuthorID)

	rec = s.do(http.MethodGet, "/posts?range=year", an, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/posts", an, SavePostRequest{Content: "  "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Content required", errorOf(t, rec))
}

func TestPosts_StarAndDelete(t *testing.T) {
	s := newTestServer(t)
	an := s.user("u1", "an")
	bo := s.user("u2", "bo")
	s.pair("u1", "u2")
	post := s.createPost(an, "hello")

	// No body toggles.
	rec := s.do(http.MethodPatch, "/posts/"+post.ID+"/star", bo, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"starred":true}`, rec.Body.String())

	rec = s.do(http.MethodPatch, "/posts/"+post.ID+"/star", an, map[string]bool{"starred": true})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"starred":true}`, rec.Body.String())

	rec = s.do(http.MethodGet, "/posts/starred", an, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[postsResponse](t, rec).Posts, 1)

	s.do(http.MethodPost, "/posts/"+post.ID+"/comments", bo, AddCommentRequest{Text: "nice"})

	rec = s.do(http.MethodDelete, "/posts/"+post.ID, bo, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code, "only the author deletes")

	rec = s.do(http.MethodDelete, "/posts/"+post.ID, an, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, s.stores.Comments.Items)

	rec = s.do(http.MethodGet, "/posts/"+post.ID, an, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Post not found", errorOf(t, rec))

	rec = s.do(http.MethodGet, "/posts/not-a-uuid", an, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPosts_OtherCoupleCannotSee(t *testing.T) {
	s := newTestServer(t)
	an := s.user("u1", "an")
	cy := s.user("u3", "cy")
	s.pair("u1", "")
	_, err := s.couples.CreateCouple(t.Context(), "u3", "2019-01-01")
	require.NoError(t, err)
	post := s.createPost(an, "private")

	rec := s.do(http.MethodGet, "/posts/"+post.ID, cy, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodPost, "/posts/"+post.ID+"/reactions", cy, ReactRequest{Type: "love"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestComments(t *testing.T) {
	s := newTestServer(t)
	an := s.user("u1", "an")
	bo := s.user("u2", "bo")
	s.pair("u1", "u2")
	post := s.createPost(an, "hello")
	path := "/posts/" + post.ID + "/comments"

	rec := s.do(http.MethodPost, path, bo, AddCommentRequest{Text: "top"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	top := decode[map[string]CommentView](t, rec)["comment"]
	assert.Nil(t, top.ParentCommentID)

	rec = s.do(http.MethodPost, path, an, AddCommentRequest{Text: "reply", ParentCommentID: top.ID})
	require.Equal(t, http.StatusCreated, rec.Code)
	reply := decode[map[string]CommentView](t, rec)["comment"]
	require.NotNil(t, reply.ParentCommentID)
	assert.Equal(t, top.ID, *reply.ParentCommentID)

	rec = s.do(http.MethodPost, path, bo, AddCommentRequest{Text: "deeper", ParentCommentID: reply.ID})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Replies can only be one level deep", errorOf(t, rec))

	rec = s.do(http.MethodPost, path, bo, AddCommentRequest{Text: " "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Comment text is required", errorOf(t, rec))

	rec = s.do(http.MethodGet, path, an, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[map[string][]CommentView](t, rec)["comments"], 2)
}

func TestReactions(t *testing.T) {
	s := newTestServer(t)
	an := s.user("u1", "an")
	bo := s.user("u2", "bo")
	s.pair("u1", "u2")
	post := s.createPost(an, "hello")
	path := "/posts/" + post.ID + "/reactions"

	rec := s.do(http.MethodPost, path, bo, ReactRequest{Type: "like"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = s.do(http.MethodPost, path, bo, ReactRequest{Type: "haha"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodPost, path, bo, ReactRequest{Type: "meh"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid reaction type", errorOf(t, rec))

	rec = s.do(http.MethodGet, path, bo, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	summary := decode[ReactionSummaryView](t, rec)
	assert.Len(t, summary.Reactions, 6, "every type is present")
	assert.Equal(t, 1, summary.Counts["haha"])
	assert.Equal(t, 0, summary.Counts["like"])
	require.NotNil(t, summary.MyReaction)
	assert.Equal(t, "haha", *summary.MyReaction)
	assert.Len(t, s.stores.Reactions.Items, 1)

	rec = s.do(http.MethodDelete, path, bo, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, path, an, nil)
	summary = decode[ReactionSummaryView](t, rec)
	assert.Nil(t, summary.MyReaction)
	assert.Equal(t, 0, summary.Counts["haha"])
}
