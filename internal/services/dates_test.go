package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveInviteCode(t *testing.T) {
	tests := []struct {
		date string
		code string
	}{
		{"2020-12-03", "000C0ZCJ"},
		{"2024-02-29", "000C1TGL"},
		{"1999-01-01", "000BWGGL"},
		{"2025-01-01", "000C212T"},
		{"9999-12-31", "001NJ5Q7"},
	}
	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			code, err := DeriveInviteCode(tt.date)
			require.NoError(t, err)
			assert.Equal(t, tt.code, code)

			again, err := DeriveInviteCode(tt.date)
			require.NoError(t, err)
			assert.Equal(t, code, again)
		})
	}
}

func TestDeriveInviteCode_RejectsBadDates(t *testing.T) {
	for _, date := range []string{"", "2020-1-03", "2020-02-30", "20201203", "abcd-ef-gh"} {
		_, err := DeriveInviteCode(date)
		assert.ErrorIs(t, err, ErrInvalidDate, date)
	}
}

func TestDecodeInviteCode_RoundTrips(t *testing.T) {
	start := time.Date(1000, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
	// Sample a day every ~97 days across the whole range plus both edges.
	for d := start; !d.After(end); d = d.AddDate(0, 0, 97) {
		date := d.Format(dateLayout)
		code, err := DeriveInviteCode(date)
		require.NoError(t, err)
		decoded, err := DecodeInviteCode(code)
		require.NoError(t, err)
		require.Equal(t, date, decoded)
	}

	decoded, err := DecodeInviteCode("001nj5q7")
	require.NoError(t, err)
	assert.Equal(t, "9999-12-31", decoded)
}

func TestDecodeInviteCode_RejectsGarbage(t *testing.T) {
	for _, code := range []string{"", "ABC", "000C0ZC!", "ZZZZZZZZ", "00000001"} {
		_, err := DecodeInviteCode(code)
		assert.ErrorIs(t, err, ErrInviteNotFound, code)
	}
}

func TestValidatePastDate(t *testing.T) {
	assert.NoError(t, validatePastDate("2024-05-01", "2024-05-01"))
	assert.NoError(t, validatePastDate("2023-12-31", "2024-05-01"))
	assert.ErrorIs(t, validatePastDate("2024-05-02", "2024-05-01"), ErrFutureDate)
	assert.ErrorIs(t, validatePastDate("05/01/2024", "2024-05-01"), ErrInvalidDate)
}

func TestToday_UsesLocation(t *testing.T) {
	now := time.Date(2024, 3, 10, 23, 30, 0, 0, time.UTC)
	tokyo := time.FixedZone("JST", 9*60*60)

	assert.Equal(t, "2024-03-10", Today(now, nil))
	assert.Equal(t, "2024-03-11", Today(now, tokyo))
}

func TestDaysInLove(t *testing.T) {
	assert.Equal(t, 0, DaysInLove("2024-03-01", "2024-03-01"))
	assert.Equal(t, 29, DaysInLove("2024-02-01", "2024-03-01"))
	assert.Equal(t, 366, DaysInLove("2024-01-01", "2025-01-01"))
	assert.Equal(t, 36524, DaysInLove("1700-01-01", "1800-01-01"))
	assert.Equal(t, 118338, DaysInLove("1700-01-01", "2024-01-01"))
	assert.Equal(t, 0, DaysInLove("2025-01-01", "2024-01-01"))
	assert.Equal(t, 0, DaysInLove("bad", "2024-01-01"))
}

func TestDaysInYear(t *testing.T) {
	leap := DaysInYear(2024)
	require.Len(t, leap, 366)
	assert.Equal(t, "2024-01-01", leap[0])
	assert.Equal(t, "2024-02-29", leap[59])
	assert.Equal(t, "2024-12-31", leap[365])

	assert.Len(t, DaysInYear(2023), 365)
	assert.Len(t, DaysInYear(1900), 365)
	assert.Len(t, DaysInYear(2000), 366)
}
