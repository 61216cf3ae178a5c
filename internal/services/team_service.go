package services

import (
	"fmt"
	"pcd/internal/models"
	"pcd/internal/providers"
	"pcd/internal/structures"
	"sort"
	"strings"

	json "github.com/goccy/go-json"
)

type TeamServiceInterface interface {
	RegisterTeam(id, name string) (*models.Team, models.SubmissionStatus, error)
	ListTeams() ([]*models.Team, error)
}

// TeamService keeps the authoritative team set and seeds each new team's
// token account at the configured starting balances.
type TeamService struct {
	config *structures.Config
	logger providers.Logger
	store  *models.Store
	clock  providers.Clock
}

func NewTeamService(config *structures.Config, logger providers.Logger, store *models.Store, clock providers.Clock) TeamServiceInterface {
	return &TeamService{
		config: config,
		logger: logger,
		store:  store,
		clock:  clock,
	}
}

func (ts *TeamService) RegisterTeam(id, name string) (*models.Team, models.SubmissionStatus, error) {
	if id == "" || name == "" {
		return nil, "", fmt.Errorf("%w: team id and name are required", models.ErrInvalidInput)
	}

	team := &models.Team{ID: id, Name: name, CreatedAt: ts.clock.Now()}
	data, err := json.Marshal(team)
	if err != nil {
		return nil, "", err
	}

	if _, ok := ts.store.CompareAndSet(models.TeamKey(id), 0, data); !ok {
		row, _ := ts.store.Get(models.TeamKey(id))
		var existing models.Team
		if err := json.Unmarshal(row.Value, &existing); err != nil {
			return nil, "", fmt.Errorf("corrupt team row for %s: %w", id, err)
		}
		return &existing, models.StatusDuplicate, nil
	}

	account := models.NewTokenAccount(id, ts.config.Voting.StartingTokens)
	accountData, err := json.Marshal(account)
	if err != nil {
		return nil, "", err
	}
	// Insert-only: a concurrent registration may have seeded it already.
	ts.store.CompareAndSet(models.TokenKey(id), 0, accountData)

	ts.logger.Infof(providers.TypePost, "Team %s (%s) registered", name, id)
	return team, models.StatusCreated, nil
}

func (ts *TeamService) ListTeams() ([]*models.Team, error) {
	rows := ts.store.Scan(models.TeamPrefix())
	teams := make([]*models.Team, 0, len(rows))
	for key, row := range rows {
		var team models.Team
		if err := json.Unmarshal(row.Value, &team); err != nil {
			return nil, fmt.Errorf("corrupt team row %s: %w", key, err)
		}
		teams = append(teams, &team)
	}
	sort.Slice(teams, func(i, j int) bool {
		ni, nj := strings.ToLower(teams[i].Name), strings.ToLower(teams[j].Name)
		if ni != nj {
			return ni < nj
		}
		return teams[i].ID < teams[j].ID
	})
	return teams, nil
}
