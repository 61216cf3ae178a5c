package services

import (
	"fmt"
	"pcd/internal/models"
	"pcd/internal/providers"
	"pcd/internal/structures"

	json "github.com/goccy/go-json"
)

type VoteServiceInterface interface {
	CastVote(fromTeamID, toTeamID string, value int) (*models.VoteRecord, models.SubmissionStatus, error)
}

// VoteService is the vote ledger. A voter's outgoing votes live in one store
// row, so the duplicate check, the No-budget check and the insert commit or
// retry together under a single compare-and-set.
type VoteService struct {
	config  *structures.Config
	logger  providers.Logger
	store   *models.Store
	cycle   CycleServiceInterface
	clock   providers.Clock
	metrics providers.MetricsProviderInterface
}

func NewVoteService(config *structures.Config, logger providers.Logger, store *models.Store, cycle CycleServiceInterface, clock providers.Clock, metrics providers.MetricsProviderInterface) VoteServiceInterface {
	return &VoteService{
		config:  config,
		logger:  logger,
		store:   store,
		cycle:   cycle,
		clock:   clock,
		metrics: metrics,
	}
}

func (vs *VoteService) CastVote(fromTeamID, toTeamID string, value int) (*models.VoteRecord, models.SubmissionStatus, error) {
	if fromTeamID == "" || toTeamID == "" {
		return nil, "", fmt.Errorf("%w: team ids are required", models.ErrInvalidInput)
	}
	if fromTeamID == toTeamID {
		return nil, "", fmt.Errorf("%w: a team cannot vote for itself", models.ErrInvalidInput)
	}
	if value != models.VoteYes && value != models.VoteNo {
		return nil, "", fmt.Errorf("%w: vote value must be +1 or -1", models.ErrInvalidInput)
	}
	if err := vs.cycle.AcceptingVotesFor(toTeamID); err != nil {
		return nil, "", err
	}

	key := models.VotesKey(fromTeamID)
	for attempt := 0; attempt < vs.config.Voting.MaxRetries; attempt++ {
		ledger := models.NewVoterLedger(fromTeamID)
		version := uint64(0)
		if row, ok := vs.store.Get(key); ok {
			if err := json.Unmarshal(row.Value, ledger); err != nil {
				return nil, "", fmt.Errorf("corrupt vote row for %s: %w", fromTeamID, err)
			}
			version = row.Version
		}

		if existing, ok := ledger.Votes[toTeamID]; ok {
			vs.metrics.IncVotes(string(models.StatusDuplicate))
			return existing, models.StatusDuplicate, nil
		}

		status := models.StatusCreated
		stored := value
		autoConverted := false
		if value == models.VoteNo && ledger.NoCount() >= vs.config.Voting.MaxNoVotes {
			// The No budget is spent: the submission is accepted but lands
			// as a Yes, and the caller is told so.
			stored = models.VoteYes
			autoConverted = true
			status = models.StatusAutoConverted
		}

		record := &models.VoteRecord{
			FromTeamID:    fromTeamID,
			ToTeamID:      toTeamID,
			Value:         stored,
			AutoConverted: autoConverted,
			CreatedAt:     vs.clock.Now(),
		}
		ledger.Votes[toTeamID] = record

		data, err := json.Marshal(ledger)
		if err != nil {
			return nil, "", err
		}
		if _, ok := vs.store.CompareAndSet(key, version, data); !ok {
			continue
		}

		vs.metrics.IncVotes(string(status))
		if autoConverted {
			vs.logger.Infof(providers.TypePost, "No budget of team %s exhausted, vote for %s stored as Yes", fromTeamID, toTeamID)
		}
		return record, status, nil
	}
	return nil, "", models.ErrContention
}
