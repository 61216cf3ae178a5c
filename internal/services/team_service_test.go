package services

import (
	"pcd/internal/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTeamService_RegisterTeam(t *testing.T) {
	f := newFixture()

	team, status, err := f.teams.RegisterTeam("t1", "Rockets")

	require.NoError(t, err)
	assert.Equal(t, models.StatusCreated, status)
	assert.Equal(t, "Rockets", team.Name)
	assert.Equal(t, testEpoch, team.CreatedAt)

	// Registration seeds the token account at the starting balances.
	account, err := f.tokens.Account("t1")
	require.NoError(t, err)
	assert.Equal(t, 3, account.Balance.Min())
	assert.Equal(t, 12, account.Earned)
}

func TestTeamService_RegisterDuplicateKeepsOriginal(t *testing.T) {
	f := newFixture()
	_, _, err := f.teams.RegisterTeam("t1", "Rockets")
	require.NoError(t, err)

	team, status, err := f.teams.RegisterTeam("t1", "Renamed")

	require.NoError(t, err)
	assert.Equal(t, models.StatusDuplicate, status)
	assert.Equal(t, "Rockets", team.Name)
}

func TestTeamService_DuplicateDoesNotResetTokens(t *testing.T) {
	f := newFixture()
	_, _, err := f.teams.RegisterTeam("t1", "Rockets")
	require.NoError(t, err)
	_, _, err = f.tokens.ConvertTokens("t1", 2)
	require.NoError(t, err)

	_, _, err = f.teams.RegisterTeam("t1", "Rockets")
	require.NoError(t, err)

	account, err := f.tokens.Account("t1")
	require.NoError(t, err)
	assert.Equal(t, 1, account.Balance.Min())
	assert.Len(t, account.Conversions, 1)
}

func TestTeamService_RegisterRejectsMissingFields(t *testing.T) {
	f := newFixture()

	_, _, err := f.teams.RegisterTeam("", "Rockets")
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, _, err = f.teams.RegisterTeam("t1", "")
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestTeamService_ListTeamsSortedByName(t *testing.T) {
	f := newFixture()
	for id, name := range map[string]string{"t1": "zeta", "t2": "Alpha", "t3": "beta"} {
		_, _, err := f.teams.RegisterTeam(id, name)
		require.NoError(t, err)
	}

	teams, err := f.teams.ListTeams()

	require.NoError(t, err)
	require.Len(t, teams, 3)
	assert.Equal(t, "Alpha", teams[0].Name)
	assert.Equal(t, "beta", teams[1].Name)
	assert.Equal(t, "zeta", teams[2].Name)
}

func TestTeamService_ListTeamsEmpty(t *testing.T) {
	f := newFixture()

	teams, err := f.teams.ListTeams()

	require.NoError(t, err)
	assert.Empty(t, teams)
}
