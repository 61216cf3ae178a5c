package services

import (
	"fmt"
	"pcd/internal/models"
	"pcd/internal/providers"
	"pcd/internal/structures"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
)

type TokenServiceInterface interface {
	ConvertTokens(teamID string, quantity int) (*models.TokenConversionRecord, models.TokenBalance, error)
	ApplyDelta(teamID string, delta models.TokenBalance) (models.TokenBalance, error)
	Account(teamID string) (*models.TokenAccount, error)
}

// TokenService is the token-conversion ledger. Balances and the conversion
// log share one row per team, so the min-balance check, the four decrements
// and the record append are one atomic compare-and-set. Two concurrent
// conversions cannot both spend the same tokens.
type TokenService struct {
	config  *structures.Config
	logger  providers.Logger
	store   *models.Store
	clock   providers.Clock
	metrics providers.MetricsProviderInterface
}

func NewTokenService(config *structures.Config, logger providers.Logger, store *models.Store, clock providers.Clock, metrics providers.MetricsProviderInterface) TokenServiceInterface {
	return &TokenService{
		config:  config,
		logger:  logger,
		store:   store,
		clock:   clock,
		metrics: metrics,
	}
}

func (ts *TokenService) loadAccount(teamID string) (*models.TokenAccount, uint64, error) {
	row, ok := ts.store.Get(models.TokenKey(teamID))
	if !ok {
		return nil, 0, fmt.Errorf("%w: %s", models.ErrUnknownTeam, teamID)
	}
	var account models.TokenAccount
	if err := json.Unmarshal(row.Value, &account); err != nil {
		return nil, 0, fmt.Errorf("corrupt token row for %s: %w", teamID, err)
	}
	return &account, row.Version, nil
}

func (ts *TokenService) ConvertTokens(teamID string, quantity int) (*models.TokenConversionRecord, models.TokenBalance, error) {
	if quantity < 1 {
		return nil, models.TokenBalance{}, fmt.Errorf("%w: quantity must be at least 1", models.ErrInsufficientTokens)
	}

	for attempt := 0; attempt < ts.config.Voting.MaxRetries; attempt++ {
		account, version, err := ts.loadAccount(teamID)
		if err != nil {
			return nil, models.TokenBalance{}, err
		}
		if quantity > account.Balance.Min() {
			return nil, account.Balance, fmt.Errorf("%w: at most %d conversions possible", models.ErrInsufficientTokens, account.Balance.Min())
		}

		account.Balance = account.Balance.Sub(quantity)
		record := models.TokenConversionRecord{
			ID:                uuid.NewString(),
			TeamID:            teamID,
			Seq:               len(account.Conversions) + 1,
			TokensPerCategory: quantity,
			VotesGained:       quantity,
			CreatedAt:         ts.clock.Now(),
		}
		account.Conversions = append(account.Conversions, record)

		data, err := json.Marshal(account)
		if err != nil {
			return nil, models.TokenBalance{}, err
		}
		if _, ok := ts.store.CompareAndSet(models.TokenKey(teamID), version, data); !ok {
			continue
		}

		ts.metrics.IncConversions()
		ts.logger.Infof(providers.TypePost, "Team %s converted %d tokens per category into %d votes", teamID, quantity, record.VotesGained)
		return &record, account.Balance, nil
	}
	return nil, models.TokenBalance{}, models.ErrContention
}

// ApplyDelta applies a signed per-category delta, as produced by quiz
// answers. Counters clamp at zero; positive components accumulate into the
// lifetime earned total.
func (ts *TokenService) ApplyDelta(teamID string, delta models.TokenBalance) (models.TokenBalance, error) {
	for attempt := 0; attempt < ts.config.Voting.MaxRetries; attempt++ {
		account, version, err := ts.loadAccount(teamID)
		if err != nil {
			return models.TokenBalance{}, err
		}

		account.Balance = account.Balance.Add(delta)
		account.Earned += delta.PositiveSum()

		data, err := json.Marshal(account)
		if err != nil {
			return models.TokenBalance{}, err
		}
		if _, ok := ts.store.CompareAndSet(models.TokenKey(teamID), version, data); !ok {
			continue
		}
		return account.Balance, nil
	}
	return models.TokenBalance{}, models.ErrContention
}

func (ts *TokenService) Account(teamID string) (*models.TokenAccount, error) {
	account, _, err := ts.loadAccount(teamID)
	return account, err
}
