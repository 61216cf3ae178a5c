package services

import (
	"pcd/internal/models"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerTeam(t *testing.T, f *fixture, id, name string) {
	t.Helper()
	_, _, err := f.teams.RegisterTeam(id, name)
	require.NoError(t, err)
}

func TestTokenService_ConvertTokens(t *testing.T) {
	f := newFixture()
	registerTeam(t, f, "t1", "Rockets")

	record, balance, err := f.tokens.ConvertTokens("t1", 1)

	require.NoError(t, err)
	assert.Equal(t, 1, record.Seq)
	assert.Equal(t, 1, record.TokensPerCategory)
	assert.Equal(t, 1, record.VotesGained)
	assert.NotEmpty(t, record.ID)
	assert.Equal(t, models.TokenBalance{Marketing: 2, Capital: 2, Team: 2, Strategy: 2}, balance)
	assert.Equal(t, 1, f.metrics.Conversions)
}

func TestTokenService_ConvertMultipleAtOnce(t *testing.T) {
	f := newFixture()
	registerTeam(t, f, "t1", "Rockets")

	record, balance, err := f.tokens.ConvertTokens("t1", 3)

	require.NoError(t, err)
	assert.Equal(t, 3, record.VotesGained)
	assert.Equal(t, 0, balance.Sum())
}

func TestTokenService_ConvertRejectsInsufficientBalance(t *testing.T) {
	f := newFixture()
	registerTeam(t, f, "t1", "Rockets")

	_, _, err := f.tokens.ConvertTokens("t1", 4)
	assert.ErrorIs(t, err, models.ErrInsufficientTokens)

	// The account is untouched.
	account, err := f.tokens.Account("t1")
	require.NoError(t, err)
	assert.Equal(t, 3, account.Balance.Min())
	assert.Empty(t, account.Conversions)
}

func TestTokenService_ConvertRequiresMinBalanceAcrossCategories(t *testing.T) {
	f := newFixture()
	registerTeam(t, f, "t1", "Rockets")

	// Drain one category; the conversion bound follows the lowest counter.
	_, err := f.tokens.ApplyDelta("t1", models.TokenBalance{Capital: -3})
	require.NoError(t, err)

	_, _, err = f.tokens.ConvertTokens("t1", 1)
	assert.ErrorIs(t, err, models.ErrInsufficientTokens)
}

func TestTokenService_ConvertRejectsNonPositiveQuantity(t *testing.T) {
	f := newFixture()
	registerTeam(t, f, "t1", "Rockets")

	_, _, err := f.tokens.ConvertTokens("t1", 0)
	assert.ErrorIs(t, err, models.ErrInsufficientTokens)

	_, _, err = f.tokens.ConvertTokens("t1", -2)
	assert.ErrorIs(t, err, models.ErrInsufficientTokens)
}

func TestTokenService_ConvertUnknownTeam(t *testing.T) {
	f := newFixture()

	_, _, err := f.tokens.ConvertTokens("ghost", 1)

	assert.ErrorIs(t, err, models.ErrUnknownTeam)
}

func TestTokenService_SequenceNumbersIncrement(t *testing.T) {
	f := newFixture()
	registerTeam(t, f, "t1", "Rockets")

	first, _, err := f.tokens.ConvertTokens("t1", 1)
	require.NoError(t, err)
	second, _, err := f.tokens.ConvertTokens("t1", 1)
	require.NoError(t, err)

	assert.Equal(t, 1, first.Seq)
	assert.Equal(t, 2, second.Seq)
	assert.NotEqual(t, first.ID, second.ID)
}

// Concurrent conversions against one account must never overspend: with a
// starting balance of 3 per category, exactly 3 single conversions can win.
func TestTokenService_ConcurrentConversionsNeverOverspend(t *testing.T) {
	f := newFixture()
	registerTeam(t, f, "t1", "Rockets")
	// Generous retry budget so losers retry instead of reporting contention.
	f.config.Voting.MaxRetries = 100

	var wg sync.WaitGroup
	results := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := f.tokens.ConvertTokens("t1", 1)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, models.ErrInsufficientTokens)
		}
	}
	assert.Equal(t, 3, succeeded)

	account, err := f.tokens.Account("t1")
	require.NoError(t, err)
	assert.Equal(t, 0, account.Balance.Sum())
	assert.Len(t, account.Conversions, 3)
}

func TestTokenService_ApplyDeltaAccumulatesEarned(t *testing.T) {
	f := newFixture()
	registerTeam(t, f, "t1", "Rockets")

	balance, err := f.tokens.ApplyDelta("t1", models.TokenBalance{Marketing: 2, Capital: -1})

	require.NoError(t, err)
	assert.Equal(t, 5, balance.Marketing)
	assert.Equal(t, 2, balance.Capital)

	account, err := f.tokens.Account("t1")
	require.NoError(t, err)
	// 12 starting plus the positive component only.
	assert.Equal(t, 14, account.Earned)
}

func TestTokenService_ApplyDeltaClampsAtZero(t *testing.T) {
	f := newFixture()
	registerTeam(t, f, "t1", "Rockets")

	balance, err := f.tokens.ApplyDelta("t1", models.TokenBalance{Team: -10})

	require.NoError(t, err)
	assert.Equal(t, 0, balance.Team)
}

func TestTokenService_AccountUnknownTeam(t *testing.T) {
	f := newFixture()

	_, err := f.tokens.Account("ghost")

	assert.ErrorIs(t, err, models.ErrUnknownTeam)
}
