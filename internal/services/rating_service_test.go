package services

import (
	"pcd/internal/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatingService_SubmitPeerRating(t *testing.T) {
	f := newFixture()
	f.presentForFinalRating(t, "t2")

	record, status, err := f.ratings.SubmitRating("t1", "t2", 8, models.RatingPeer)

	require.NoError(t, err)
	assert.Equal(t, models.StatusCreated, status)
	assert.Equal(t, 8.0, record.Score)
	assert.Equal(t, models.RatingPeer, record.Kind)
	assert.Equal(t, 1, f.metrics.Ratings[string(models.RatingPeer)+":"+string(models.StatusCreated)])
}

func TestRatingService_SubmitJudgeLiveRating(t *testing.T) {
	f := newFixture()
	f.presentForVoting(t, "t2")

	_, status, err := f.ratings.SubmitRating("judge-1", "t2", 75, models.RatingJudgeLive)

	require.NoError(t, err)
	assert.Equal(t, models.StatusCreated, status)
}

func TestRatingService_DuplicateReturnsExistingRecord(t *testing.T) {
	f := newFixture()
	f.presentForFinalRating(t, "t2")

	first, _, err := f.ratings.SubmitRating("t1", "t2", 8, models.RatingPeer)
	require.NoError(t, err)

	record, status, err := f.ratings.SubmitRating("t1", "t2", 3, models.RatingPeer)

	require.NoError(t, err)
	assert.Equal(t, models.StatusDuplicate, status)
	assert.Equal(t, first.Score, record.Score)
}

func TestRatingService_SameRaterDifferentKinds(t *testing.T) {
	f := newFixture()
	f.presentForFinalRating(t, "t2")

	_, status, err := f.ratings.SubmitRating("judge-1", "t2", 80, models.RatingJudgeFinal)
	require.NoError(t, err)
	require.Equal(t, models.StatusCreated, status)

	// A peer rating from the same id is a separate ledger, not a duplicate.
	_, status, err = f.ratings.SubmitRating("judge-1", "t2", 8, models.RatingPeer)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCreated, status)
}

func TestRatingService_RejectsPeerSelfRating(t *testing.T) {
	f := newFixture()
	f.presentForFinalRating(t, "t1")

	_, _, err := f.ratings.SubmitRating("t1", "t1", 8, models.RatingPeer)

	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestRatingService_RejectsUnknownKind(t *testing.T) {
	f := newFixture()

	_, _, err := f.ratings.SubmitRating("t1", "t2", 8, models.RatingKind("vibes"))

	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestRatingService_RejectsScoreOutOfRange(t *testing.T) {
	f := newFixture()
	f.presentForFinalRating(t, "t2")

	_, _, err := f.ratings.SubmitRating("t1", "t2", 2.9, models.RatingPeer)
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, _, err = f.ratings.SubmitRating("t1", "t2", 10.1, models.RatingPeer)
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, _, err = f.ratings.SubmitRating("judge-1", "t2", 29, models.RatingJudgeFinal)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestRatingService_BoundaryScoresAccepted(t *testing.T) {
	f := newFixture()
	f.presentForFinalRating(t, "t2")

	_, _, err := f.ratings.SubmitRating("t1", "t2", 3, models.RatingPeer)
	assert.NoError(t, err)

	_, _, err = f.ratings.SubmitRating("t3", "t2", 10, models.RatingPeer)
	assert.NoError(t, err)

	_, _, err = f.ratings.SubmitRating("judge-1", "t2", 30, models.RatingJudgeFinal)
	assert.NoError(t, err)

	_, _, err = f.ratings.SubmitRating("judge-2", "t2", 100, models.RatingJudgeFinal)
	assert.NoError(t, err)
}

func TestRatingService_RejectsOutsideWindow(t *testing.T) {
	f := newFixture()

	_, _, err := f.ratings.SubmitRating("t1", "t2", 8, models.RatingPeer)
	assert.ErrorIs(t, err, models.ErrNotAcceptingSubmissions)
}

func TestRatingService_JudgeLiveRejectedDuringFinal(t *testing.T) {
	f := newFixture()
	f.presentForFinalRating(t, "t2")

	_, _, err := f.ratings.SubmitRating("judge-1", "t2", 50, models.RatingJudgeLive)

	assert.ErrorIs(t, err, models.ErrNotAcceptingSubmissions)
}

func TestRatingService_RejectsMissingIDs(t *testing.T) {
	f := newFixture()

	_, _, err := f.ratings.SubmitRating("", "t2", 8, models.RatingPeer)
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, _, err = f.ratings.SubmitRating("t1", "", 8, models.RatingPeer)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}
