package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type coupleBody struct {
	Couple *CoupleView `json:"couple"`
}

func TestCoupleLifecycle(t *testing.T) {
	s := newTestServer(t)
	an := s.user("u1", "an")
	bo := s.user("u2", "bo")
	cy := s.user("u3", "cy")

	rec := s.do(http.MethodPost, "/couple/create", an, StartDateRequest{StartDate: "2020-12-03"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	created := decode[coupleBody](t, rec).Couple
	require.NotNil(t, created)
	assert.Equal(t, "000C0ZCJ", created.InviteCode)
	assert.Equal(t, []string{"u1"}, created.MemberIDs)
	assert.Equal(t, "u1", created.CreatorID)

	// Codes are matched case-insensitively.
	rec = s.do(http.MethodPost, "/couple/join", bo, JoinCoupleRequest{InviteCode: " 000c0zcj "})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []string{"u1", "u2"}, decode[coupleBody](t, rec).Couple.MemberIDs)

	rec = s.do(http.MethodPost, "/couple/join", cy, JoinCoupleRequest{InviteCode: "000C0ZCJ"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "This couple is already full", errorOf(t, rec))

	rec = s.do(http.MethodPost, "/couple/join", bo, JoinCoupleRequest{InviteCode: "000C0ZCJ"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "You are already in a couple", errorOf(t, rec))

	rec = s.do(http.MethodGet, "/couple/me", bo, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	details := decode[map[string]*CoupleDetailsView](t, rec)["couple"]
	require.NotNil(t, details)
	assert.Equal(t, 1290, details.DaysInLove)
	require.Len(t, details.Members, 2)
	assert.Equal(t, "an", details.Members[0].Name)
	assert.Equal(t, "bo", details.Members[1].Name)

	rec = s.do(http.MethodPost, "/couple/leave", an, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	// The remaining member now owns the couple.
	rec = s.do(http.MethodPatch, "/couple/update-start-date", bo, StartDateRequest{StartDate: "2021-02-14"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[coupleBody](t, rec).Couple
	assert.Equal(t, "2021-02-14", *updated.StartDate)
	assert.NotEqual(t, "000C0ZCJ", updated.InviteCode)

	rec = s.do(http.MethodPost, "/couple/join", cy, JoinCoupleRequest{InviteCode: "000C0ZCJ"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Invalid invite code", errorOf(t, rec))
}

func TestCoupleMe_Unpaired(t *testing.T) {
	s := newTestServer(t)
	token := s.user("u1", "an")

	rec := s.do(http.MethodGet, "/couple/me", token, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"couple":null}`, rec.Body.String())
}

func TestCreateCouple_Errors(t *testing.T) {
	s := newTestServer(t)
	token := s.user("u1", "an")

	tests := []struct {
		date    string
		message string
	}{
		{"2020-13-01", "Invalid date format, expected YYYY-MM-DD"},
		{"03/12/2020", "Invalid date format, expected YYYY-MM-DD"},
		{"2024-06-16", "Start date cannot be in the future"},
	}
	for _, tt := range tests {
		rec := s.do(http.MethodPost, "/couple/create", token, StartDateRequest{StartDate: tt.date})
		assert.Equal(t, http.StatusBadRequest, rec.Code, tt.date)
		assert.Equal(t, tt.message, errorOf(t, rec), tt.date)
	}

	// Today itself is allowed.
	rec := s.do(http.MethodPost, "/couple/create", token, StartDateRequest{StartDate: "2024-06-15"})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestLeaveCouple_NotPaired(t *testing.T) {
	s := newTestServer(t)
	token := s.user("u1", "an")

	rec := s.do(http.MethodPost, "/couple/leave", token, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "You are not in a couple", errorOf(t, rec))
}

func TestUpdateStartDate_OnlyCreator(t *testing.T) {
	s := newTestServer(t)
	s.user("u1", "an")
	bo := s.user("u2", "bo")
	s.pair("u1", "u2")

	rec := s.do(http.MethodPatch, "/couple/update-start-date", bo, StartDateRequest{StartDate: "2021-01-01"})

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Only the couple creator can change the start date", errorOf(t, rec))
}
