package services

import (
	"context"
	"testing"
	"time"

	"love-journal-backend/internal/models"
	"love-journal-backend/internal/repository/memstore"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 6, 15, 8, 0, 0, 0, time.UTC)

func moodEvent(user string, mood models.Mood, intensity int, at time.Time) *models.MoodEvent {
	return &models.MoodEvent{
		ID:        uuid.New().String(),
		CoupleID:  "c1",
		UserID:    user,
		Date:      at.Format(dateLayout),
		Mood:      mood,
		Intensity: intensity,
		CreatedAt: at,
	}
}

func pairedCouple() *models.Couple {
	return &models.Couple{ID: "c1", MemberIDs: []string{"u1", "u2"}}
}

func newMoodFixture() (*MoodService, *memstore.Moods) {
	moods := &memstore.Moods{}
	users := memstore.NewUsers(
		&models.User{ID: "u1", Name: "an"},
		&models.User{ID: "u2", Name: "binh"},
	)
	return NewMoodService(moods, users, fixedClock("2024-06-15T12:00:00Z"), nil), moods
}

func TestDominantMood(t *testing.T) {
	events := []*models.MoodEvent{
		moodEvent("u1", models.MoodHappy, 1, t0),
		moodEvent("u1", models.MoodSad, 3, t0.Add(time.Hour)),
		moodEvent("u1", models.MoodCalm, 3, t0.Add(2*time.Hour)),
	}
	assert.Equal(t, models.MoodCalm, DominantMood(events).Mood)

	// Order of the input does not matter.
	reversed := []*models.MoodEvent{events[2], events[1], events[0]}
	assert.Equal(t, models.MoodCalm, DominantMood(reversed).Mood)

	assert.Nil(t, DominantMood(nil))
}

func TestClassifyMatch(t *testing.T) {
	happyA := moodEvent("u1", models.MoodHappy, 1, t0)
	happyB := moodEvent("u2", models.MoodHappy, 3, t0)
	sadB := moodEvent("u2", models.MoodSad, 1, t0)

	assert.Equal(t, MatchSame, ClassifyMatch(2, happyA, happyB), "intensity is ignored")
	assert.Equal(t, MatchDifferent, ClassifyMatch(2, happyA, sadB))
	assert.Equal(t, MatchOneSided, ClassifyMatch(2, happyA, nil))
	assert.Equal(t, MatchOneSided, ClassifyMatch(2, nil, sadB))
	assert.Equal(t, MatchNone, ClassifyMatch(2, nil, nil))
	assert.Equal(t, MatchWaiting, ClassifyMatch(1, happyA, nil))
}

func TestRecordMood_ClampsIntensity(t *testing.T) {
	svc, _ := newMoodFixture()
	ctx := context.Background()

	high, err := svc.RecordMood(ctx, "u1", "c1", MoodInput{Mood: models.MoodHappy, Intensity: 7})
	require.NoError(t, err)
	assert.Equal(t, 3, high.Intensity)
	assert.Equal(t, "2024-06-15", high.Date)

	low, err := svc.RecordMood(ctx, "u1", "c1", MoodInput{Mood: models.MoodSad, Intensity: -5})
	require.NoError(t, err)
	assert.Equal(t, 0, low.Intensity)
}

func TestRecordMood_MultiplePerDay(t *testing.T) {
	svc, moods := newMoodFixture()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.RecordMood(ctx, "u1", "c1", MoodInput{Mood: models.MoodTired, Intensity: i})
		require.NoError(t, err)
	}
	assert.Len(t, moods.Events, 3)
}

func TestRecordMood_RejectsUnknownMood(t *testing.T) {
	svc, _ := newMoodFixture()
	_, err := svc.RecordMood(context.Background(), "u1", "c1", MoodInput{Mood: "grumpy", Intensity: 1})
	assert.ErrorIs(t, err, ErrInvalidMood)
}

func TestRecordMood_EditPath(t *testing.T) {
	svc, moods := newMoodFixture()
	ctx := context.Background()

	event, err := svc.RecordMood(ctx, "u1", "c1", MoodInput{Mood: models.MoodSad, Intensity: 1})
	require.NoError(t, err)

	edited, err := svc.RecordMood(ctx, "u1", "c1", MoodInput{
		Mood: models.MoodGrateful, Intensity: 9, Note: "better now", EventID: event.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, event.ID, edited.ID)
	assert.Equal(t, 3, edited.Intensity)
	require.Len(t, moods.Events, 1)
	assert.Equal(t, models.MoodGrateful, moods.Events[0].Mood)
	assert.Equal(t, "better now", moods.Events[0].Note)

	// Someone else's event, an unknown id and a malformed id are all not found.
	_, err = svc.RecordMood(ctx, "u2", "c1", MoodInput{Mood: models.MoodHappy, EventID: event.ID})
	assert.ErrorIs(t, err, ErrMoodEventNotFound)
	_, err = svc.RecordMood(ctx, "u1", "c1", MoodInput{Mood: models.MoodHappy, EventID: uuid.New().String()})
	assert.ErrorIs(t, err, ErrMoodEventNotFound)
	_, err = svc.RecordMood(ctx, "u1", "c1", MoodInput{Mood: models.MoodHappy, EventID: "not-an-id"})
	assert.ErrorIs(t, err, ErrMoodEventNotFound)
}

func TestTodayMoods(t *testing.T) {
	svc, moods := newMoodFixture()
	moods.Events = []*models.MoodEvent{
		moodEvent("u1", models.MoodHappy, 1, t0),
		moodEvent("u1", models.MoodCalm, 2, t0.Add(time.Hour)),
		moodEvent("u2", models.MoodTired, 0, t0),
		moodEvent("u2", models.MoodExcited, 3, t0.AddDate(0, 0, -1)),
	}

	day, err := svc.TodayMoods(context.Background(), pairedCouple(), "u1")
	require.NoError(t, err)
	assert.Equal(t, models.MoodCalm, day.Me.Mood)
	assert.Equal(t, models.MoodTired, day.Partner.Mood)
	assert.Len(t, day.MeEvents, 2)
	assert.Len(t, day.PartnerEvents, 1)
}

func TestTodayMoodMatch(t *testing.T) {
	ctx := context.Background()

	t.Run("waiting", func(t *testing.T) {
		svc, _ := newMoodFixture()
		match, err := svc.TodayMoodMatch(ctx, &models.Couple{ID: "c1", MemberIDs: []string{"u1"}}, "u1")
		require.NoError(t, err)
		assert.Equal(t, MatchWaiting, match.Status)
	})

	t.Run("none", func(t *testing.T) {
		svc, _ := newMoodFixture()
		match, err := svc.TodayMoodMatch(ctx, pairedCouple(), "u1")
		require.NoError(t, err)
		assert.Equal(t, MatchNone, match.Status)
		assert.Nil(t, match.Me)
	})

	t.Run("one sided", func(t *testing.T) {
		svc, moods := newMoodFixture()
		moods.Events = []*models.MoodEvent{moodEvent("u2", models.MoodSad, 2, t0)}
		match, err := svc.TodayMoodMatch(ctx, pairedCouple(), "u1")
		require.NoError(t, err)
		assert.Equal(t, MatchOneSided, match.Status)
		assert.Equal(t, "Binh checked in, you haven't yet", match.Message)
	})

	t.Run("match", func(t *testing.T) {
		svc, moods := newMoodFixture()
		moods.Events = []*models.MoodEvent{
			moodEvent("u1", models.MoodHappy, 1, t0),
			moodEvent("u2", models.MoodHappy, 3, t0),
		}
		match, err := svc.TodayMoodMatch(ctx, pairedCouple(), "u1")
		require.NoError(t, err)
		assert.Equal(t, MatchSame, match.Status)
		assert.Contains(t, match.Message, "😊 happy")
	})

	t.Run("mismatch", func(t *testing.T) {
		svc, moods := newMoodFixture()
		moods.Events = []*models.MoodEvent{
			moodEvent("u1", models.MoodHappy, 1, t0),
			moodEvent("u2", models.MoodSad, 1, t0),
		}
		match, err := svc.TodayMoodMatch(ctx, pairedCouple(), "u1")
		require.NoError(t, err)
		assert.Equal(t, MatchDifferent, match.Status)
		assert.Equal(t, "Different moods today: you 😊 happy, binh 😢 sad", match.Message)
	})
}

func TestMoodService_StoreFailureIsUnavailable(t *testing.T) {
	svc, moods := newMoodFixture()
	moods.Fail = errStoreDown

	_, err := svc.RecordMood(context.Background(), "u1", "c1", MoodInput{Mood: models.MoodHappy})
	assert.Equal(t, KindUnavailable, KindOf(err))

	_, err = svc.TodayMoodMatch(context.Background(), pairedCouple(), "u1")
	assert.Equal(t, KindUnavailable, KindOf(err))
}
