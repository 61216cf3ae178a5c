package services

import (
	"fmt"
	"pcd/internal/models"
	"pcd/internal/providers"
	"pcd/internal/structures"

	json "github.com/goccy/go-json"
)

type RatingServiceInterface interface {
	SubmitRating(raterID, toTeamID string, score float64, kind models.RatingKind) (*models.RatingRecord, models.SubmissionStatus, error)
}

// RatingService is the rating ledger for judge and peer scores. Same row
// layout as votes (one row per rater and kind) but without any
// auto-conversion; missing ratings are handled at aggregation time by the
// scoring engine, not here.
type RatingService struct {
	config  *structures.Config
	logger  providers.Logger
	store   *models.Store
	cycle   CycleServiceInterface
	clock   providers.Clock
	metrics providers.MetricsProviderInterface
}

func NewRatingService(config *structures.Config, logger providers.Logger, store *models.Store, cycle CycleServiceInterface, clock providers.Clock, metrics providers.MetricsProviderInterface) RatingServiceInterface {
	return &RatingService{
		config:  config,
		logger:  logger,
		store:   store,
		cycle:   cycle,
		clock:   clock,
		metrics: metrics,
	}
}

func (rs *RatingService) scoreRange(kind models.RatingKind) (float64, float64) {
	switch kind {
	case models.RatingPeer:
		return rs.config.Scoring.PeerMin, rs.config.Scoring.PeerMax
	case models.RatingJudgeFinal:
		return rs.config.Scoring.JudgeFinalMin, rs.config.Scoring.JudgeFinalMax
	default:
		return rs.config.Scoring.JudgeLiveMin, rs.config.Scoring.JudgeLiveMax
	}
}

func (rs *RatingService) SubmitRating(raterID, toTeamID string, score float64, kind models.RatingKind) (*models.RatingRecord, models.SubmissionStatus, error) {
	if raterID == "" || toTeamID == "" {
		return nil, "", fmt.Errorf("%w: rater and team ids are required", models.ErrInvalidInput)
	}
	if _, err := models.ParseRatingKind(string(kind)); err != nil {
		return nil, "", fmt.Errorf("%w: unknown rating kind %q", models.ErrInvalidInput, kind)
	}
	if kind == models.RatingPeer && raterID == toTeamID {
		return nil, "", fmt.Errorf("%w: a team cannot rate itself", models.ErrInvalidInput)
	}
	if lo, hi := rs.scoreRange(kind); score < lo || score > hi {
		return nil, "", fmt.Errorf("%w: %s score must be within [%v, %v]", models.ErrInvalidInput, kind, lo, hi)
	}
	if err := rs.cycle.AcceptingRatingsFor(kind, toTeamID); err != nil {
		return nil, "", err
	}

	key := models.RatingKey(kind, raterID)
	for attempt := 0; attempt < rs.config.Voting.MaxRetries; attempt++ {
		ledger := models.NewRaterLedger(raterID, kind)
		version := uint64(0)
		if row, ok := rs.store.Get(key); ok {
			if err := json.Unmarshal(row.Value, ledger); err != nil {
				return nil, "", fmt.Errorf("corrupt rating row for %s/%s: %w", kind, raterID, err)
			}
			version = row.Version
		}

		if existing, ok := ledger.Ratings[toTeamID]; ok {
			rs.metrics.IncRatings(string(kind), string(models.StatusDuplicate))
			return existing, models.StatusDuplicate, nil
		}

		record := &models.RatingRecord{
			RaterID:   raterID,
			ToTeamID:  toTeamID,
			Kind:      kind,
			Score:     score,
			CreatedAt: rs.clock.Now(),
		}
		ledger.Ratings[toTeamID] = record

		data, err := json.Marshal(ledger)
		if err != nil {
			return nil, "", err
		}
		if _, ok := rs.store.CompareAndSet(key, version, data); !ok {
			continue
		}

		rs.metrics.IncRatings(string(kind), string(models.StatusCreated))
		return record, models.StatusCreated, nil
	}
	return nil, "", models.ErrContention
}
