package services

import (
	"pcd/internal/models"
	"pcd/internal/structures"
	"pcd/internal/testutil"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var testEpoch = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func testConfig() *structures.Config {
	return &structures.Config{
		Rounds: structures.RoundsConfig{
			Voting: structures.VotingRoundConfig{
				Pitching:  90 * time.Second,
				Preparing: 5 * time.Second,
				Voting:    30 * time.Second,
			},
			Final: structures.FinalRoundConfig{
				Pitching:      300 * time.Second,
				RatingWarning: 5 * time.Second,
				RatingActive:  120 * time.Second,
			},
			SyncInterval: time.Second,
		},
		Scoring: structures.ScoringConfig{
			PeerMin:          3,
			PeerMax:          10,
			PeerDefaultScore: 6.5,
			JudgeFinalMin:    30,
			JudgeFinalMax:    100,
			JudgeLiveMin:     0,
			JudgeLiveMax:     100,
		},
		Voting: structures.VotingConfig{
			MaxNoVotes:     3,
			StartingTokens: 3,
			MaxRetries:     5,
		},
	}
}

type fixture struct {
	config  *structures.Config
	store   *models.Store
	clock   *testutil.MockClock
	caster  *testutil.MockBroadcaster
	metrics *testutil.MockMetrics
	logger  *testutil.MockLogger
	cycles  CycleServiceInterface
	votes   VoteServiceInterface
	tokens  TokenServiceInterface
	ratings RatingServiceInterface
	teams   TeamServiceInterface
	scoring ScoringServiceInterface
}

func newFixture() *fixture {
	f := &fixture{
		config:  testConfig(),
		store:   models.NewStore(),
		clock:   testutil.NewMockClock(testEpoch),
		caster:  testutil.NewMockBroadcaster(),
		metrics: testutil.NewMockMetrics(),
		logger:  &testutil.MockLogger{},
	}
	f.cycles = NewCycleService(f.config, f.logger, f.store, f.clock, f.caster, f.metrics)
	f.votes = NewVoteService(f.config, f.logger, f.store, f.cycles, f.clock, f.metrics)
	f.tokens = NewTokenService(f.config, f.logger, f.store, f.clock, f.metrics)
	f.ratings = NewRatingService(f.config, f.logger, f.store, f.cycles, f.clock, f.metrics)
	f.teams = NewTeamService(f.config, f.logger, f.store, f.clock)
	f.scoring = NewScoringService(f.config, f.logger, f.store, f.cycles, f.teams, f.clock)
	return f
}

// presentForVoting starts a voting-round cycle for the team and advances the
// clock into its voting window.
func (f *fixture) presentForVoting(t *testing.T, teamID string) {
	t.Helper()
	_, err := f.cycles.StartCycle(models.RoundVoting, teamID, "Team "+teamID)
	require.NoError(t, err)
	f.clock.Advance(96 * time.Second)
}

// finishVotingCycle advances the clock past the end of the voting round so a
// new cycle can start.
func (f *fixture) finishVotingCycle() {
	f.clock.Advance(60 * time.Second)
}

// presentForFinalRating starts a final-round cycle for the team, ends Q&A and
// advances the clock into the rating-active window.
func (f *fixture) presentForFinalRating(t *testing.T, teamID string) {
	t.Helper()
	_, err := f.cycles.StartCycle(models.RoundFinal, teamID, "Team "+teamID)
	require.NoError(t, err)
	f.clock.Advance(301 * time.Second)
	_, err = f.cycles.EndQna()
	require.NoError(t, err)
	f.clock.Advance(6 * time.Second)
}

func (f *fixture) finishFinalCycle() {
	f.clock.Advance(200 * time.Second)
}
