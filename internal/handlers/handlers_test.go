package handlers

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"love-journal-backend/internal/models"
	"love-journal-backend/internal/quotes"
	"love-journal-backend/internal/repository/memstore"
	"love-journal-backend/internal/services"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testNow = "2024-06-15T10:00:00Z"

type fakeStore struct {
	down  atomic.Bool
	stale atomic.Int32
}

func (f *fakeStore) Check(context.Context) error {
	if f.down.Load() {
		return errors.New("connection refused")
	}
	return nil
}

func (f *fakeStore) MarkStale() { f.stale.Add(1) }

type fakeUploader struct {
	last services.Upload
	body []byte
	err  error
}

func (f *fakeUploader) Upload(_ context.Context, up services.Upload) (*services.UploadResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	if up.Size > services.MaxUploadSize {
		return nil, services.ErrFileTooLarge
	}
	f.last = up
	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(up.Body); err != nil {
		return nil, err
	}
	f.body = buf.Bytes()
	return &services.UploadResult{URL: "https://media.test/" + up.OwnerID + "/x", PublicID: up.OwnerID + "/x"}, nil
}

type testServer struct {
	t        *testing.T
	handler  http.Handler
	stores   *memstore.Set
	users    *services.UserService
	couples  *services.CoupleService
	store    *fakeStore
	uploader *fakeUploader
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, testNow)
	require.NoError(t, err)
	now := func() time.Time { return ts }

	stores := memstore.New()
	users := services.NewUserService(stores.Users, "test-secret", time.Hour, now)
	couples := services.NewCoupleService(stores.Couples, stores.Users, now, time.UTC)
	moods := services.NewMoodService(stores.Moods, stores.Users, now, time.UTC)
	posts := services.NewPostService(stores.Posts, stores.Comments, stores.Reactions, now, time.UTC)
	quoteService := services.NewQuoteService(stores.Quotes, quotes.Embedded(), now, time.UTC)

	s := &testServer{
		t:        t,
		stores:   stores,
		users:    users,
		couples:  couples,
		store:    &fakeStore{},
		uploader: &fakeUploader{},
	}
	s.handler = NewRouter(RouterConfig{
		AllowedOrigins: []string{"*"},
		Cookie:         CookieConfig{Name: "love_session"},
		Now:            now,
		Location:       time.UTC,
	}, Services{
		Users:    users,
		Couples:  couples,
		Moods:    moods,
		Reviews:  services.NewReviewService(stores.Moods),
		Posts:    posts,
		Messages: services.NewMessageService(stores.Messages, now),
		Days:     services.NewDayService(moods, posts, quoteService),
		Quotes:   quoteService,
		Media:    s.uploader,
		Store:    s.store,
	})
	return s
}

// user seeds a user and returns a session token for it
func (s *testServer) user(id, name string) string {
	s.t.Helper()
	u := &models.User{ID: id, Name: name, Email: id + "@example.com", CreatedAt: time.Now()}
	s.stores.Users.Items[id] = u
	token, err := s.users.GenerateJWT(u)
	require.NoError(s.t, err)
	return token
}

// pair makes a couple of creator and partner, returning it
func (s *testServer) pair(creator, partner string) *models.Couple {
	s.t.Helper()
	ctx := context.Background()
	couple, err := s.couples.CreateCouple(ctx, creator, "2020-12-03")
	require.NoError(s.t, err)
	if partner != "" {
		couple, err = s.couples.JoinCouple(ctx, partner, couple.InviteCode)
		require.NoError(s.t, err)
	}
	return couple
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(s.t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[ErrorResponse](t, rec).Error
}

func TestRoutes_RequireSession(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/couple/me", "/moods/today", "/review", "/posts", "/messages", "/user/profile"} {
		rec := s.do(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
		assert.Equal(t, "Unauthorized", errorOf(t, rec), path)
	}

	rec := s.do(http.MethodGet, "/couple/me", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCoupleScopedRoutes_UnpairedIs404(t *testing.T) {
	s := newTestServer(t)
	token := s.user("u1", "an")

	for _, path := range []string{"/moods/today", "/mood-match/today", "/review?year=2024", "/quote/today", "/posts", "/messages"} {
		rec := s.do(http.MethodGet, path, token, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.Equal(t, "No couple found", errorOf(t, rec), path)
	}
}

func TestStoreHealth(t *testing.T) {
	s := newTestServer(t)
	token := s.user("u1", "an")

	rec := s.do(http.MethodGet, "/health/db", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, HealthResponse{OK: true, DB: "connected"}, decode[HealthResponse](t, rec))

	s.store.down.Store(true)

	rec = s.do(http.MethodGet, "/health/db", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, HealthResponse{OK: false, DB: "unavailable"}, decode[HealthResponse](t, rec))

	rec = s.do(http.MethodGet, "/couple/me", token, nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "Database unavailable", errorOf(t, rec))
}

func TestServiceUnavailable_MarksStoreStale(t *testing.T) {
	s := newTestServer(t)
	token := s.user("u1", "an")
	s.stores.Couples.Fail = errors.New("connection reset")

	rec := s.do(http.MethodGet, "/couple/me", token, nil)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "Database unavailable", errorOf(t, rec))
	assert.Equal(t, int32(1), s.store.stale.Load())
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.do(http.MethodGet, "/health/db", "", nil)

	rec := s.do(http.MethodGet, "/metrics", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "love_http_requests_total")
}

func TestInvalidBody(t *testing.T) {
	s := newTestServer(t)
	token := s.user("u1", "an")

	rec := s.do(http.MethodPost, "/couple/create", token, "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request body", errorOf(t, rec))

	rec = s.do(http.MethodPost, "/couple/create", token, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "startDate is required", errorOf(t, rec))
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{services.ErrInvalidDate, http.StatusBadRequest},
		{services.ErrAlreadyPaired, http.StatusBadRequest},
		{services.ErrUnauthorized, http.StatusUnauthorized},
		{services.ErrNotCreator, http.StatusForbidden},
		{services.ErrInviteNotFound, http.StatusNotFound},
		{services.ErrMediaUnavailable, http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.status, statusFor(services.KindOf(tt.err)), tt.err.Error())
	}
}
