package services

import (
	"fmt"
	"pcd/internal/models"
	"pcd/internal/providers"
	"pcd/internal/structures"

	json "github.com/goccy/go-json"
)

type ScoringServiceInterface interface {
	Leaderboard() (*models.Leaderboard, error)
}

// ScoringService aggregates every ledger into the leaderboard. Nothing is
// cached between requests: each call reads the current rows and recomputes,
// so the result always reflects the ledgers at the moment of the request.
type ScoringService struct {
	config *structures.Config
	logger providers.Logger
	store  *models.Store
	cycle  CycleServiceInterface
	teams  TeamServiceInterface
	clock  providers.Clock
}

func NewScoringService(config *structures.Config, logger providers.Logger, store *models.Store, cycle CycleServiceInterface, teams TeamServiceInterface, clock providers.Clock) ScoringServiceInterface {
	return &ScoringService{
		config: config,
		logger: logger,
		store:  store,
		cycle:  cycle,
		teams:  teams,
		clock:  clock,
	}
}

func (ss *ScoringService) voteTallies() (map[string]*models.VoteTally, error) {
	tallies := make(map[string]*models.VoteTally)
	for key, row := range ss.store.Scan(models.VotesPrefix()) {
		var ledger models.VoterLedger
		if err := json.Unmarshal(row.Value, &ledger); err != nil {
			return nil, fmt.Errorf("corrupt vote row %s: %w", key, err)
		}
		for _, rec := range ledger.Votes {
			tally := tallies[rec.ToTeamID]
			if tally == nil {
				tally = &models.VoteTally{}
				tallies[rec.ToTeamID] = tally
			}
			if rec.Value == models.VoteYes {
				tally.OriginalYes++
			} else {
				tally.OriginalNo++
			}
		}
	}
	return tallies, nil
}

func (ss *ScoringService) raterLedgers(kind models.RatingKind) (map[string]*models.RaterLedger, error) {
	ledgers := make(map[string]*models.RaterLedger)
	for key, row := range ss.store.Scan(models.RatingPrefix(kind)) {
		var ledger models.RaterLedger
		if err := json.Unmarshal(row.Value, &ledger); err != nil {
			return nil, fmt.Errorf("corrupt rating row %s: %w", key, err)
		}
		ledgers[ledger.RaterID] = &ledger
	}
	return ledgers, nil
}

func (ss *ScoringService) tokenAccount(teamID string) (*models.TokenAccount, error) {
	row, ok := ss.store.Get(models.TokenKey(teamID))
	if !ok {
		return nil, nil
	}
	var account models.TokenAccount
	if err := json.Unmarshal(row.Value, &account); err != nil {
		return nil, fmt.Errorf("corrupt token row for %s: %w", teamID, err)
	}
	return &account, nil
}

func (ss *ScoringService) Leaderboard() (*models.Leaderboard, error) {
	teams, err := ss.teams.ListTeams()
	if err != nil {
		return nil, err
	}
	tallies, err := ss.voteTallies()
	if err != nil {
		return nil, err
	}
	peerLedgers, err := ss.raterLedgers(models.RatingPeer)
	if err != nil {
		return nil, err
	}
	judgeFinal, err := ss.raterLedgers(models.RatingJudgeFinal)
	if err != nil {
		return nil, err
	}
	judgeLive, err := ss.raterLedgers(models.RatingJudgeLive)
	if err != nil {
		return nil, err
	}

	entries := make([]*models.LeaderboardEntry, 0, len(teams))
	for _, team := range teams {
		entry := &models.LeaderboardEntry{TeamID: team.ID, TeamName: team.Name}

		account, err := ss.tokenAccount(team.ID)
		if err != nil {
			return nil, err
		}
		if account != nil {
			entry.Tokens = models.TokenActivity{
				Earned:    account.Earned,
				Remaining: account.Balance.Sum(),
			}
			entry.Voting.FromConversion = account.VotesFromConversions()
		}

		if tally, ok := tallies[team.ID]; ok {
			entry.Voting.OriginalYes = tally.OriginalYes
			entry.Voting.OriginalNo = tally.OriginalNo
		}
		entry.Voting.Total = entry.Voting.OriginalYes - entry.Voting.OriginalNo + entry.Voting.FromConversion

		// Every other registered team is a peer rater; those that never
		// rated this team contribute the configured neutral default to the
		// total without raising the submission count.
		for _, rater := range teams {
			if rater.ID == team.ID {
				continue
			}
			if ledger, ok := peerLedgers[rater.ID]; ok {
				if rec, ok := ledger.Ratings[team.ID]; ok {
					entry.Peer.Total += rec.Score
					entry.Peer.Count++
					continue
				}
			}
			entry.Peer.Total += ss.config.Scoring.PeerDefaultScore
		}

		// Judges who never scored a team contribute nothing; the judge
		// population is not known to the core.
		for _, ledgers := range []map[string]*models.RaterLedger{judgeFinal, judgeLive} {
			for _, ledger := range ledgers {
				if rec, ok := ledger.Ratings[team.ID]; ok {
					entry.Judge.Total += rec.Score
					entry.Judge.Count++
				}
			}
		}
		if entry.Judge.Count > 0 {
			entry.Judge.Average = entry.Judge.Total / float64(entry.Judge.Count)
		}

		// Votes stay out of the score on purpose; they only break ties.
		entry.FinalScore = entry.Judge.Total + entry.Peer.Total + float64(entry.Tokens.Remaining)

		entries = append(entries, entry)
	}

	notes := models.RankEntries(entries)

	completed := false
	for _, kind := range []models.RoundKind{models.RoundVoting, models.RoundFinal} {
		if snapshot, err := ss.cycle.Snapshot(kind); err == nil && snapshot.AllPresentationsCompleted {
			completed = true
		}
	}

	return &models.Leaderboard{
		Entries:                   entries,
		WinnerNotes:               notes,
		AllPresentationsCompleted: completed,
		GeneratedAt:               ss.clock.Now(),
	}, nil
}
