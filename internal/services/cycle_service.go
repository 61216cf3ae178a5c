package services

import (
	"fmt"
	"pcd/internal/competition/interfaces"
	"pcd/internal/models"
	"pcd/internal/providers"
	"pcd/internal/structures"
	"time"

	json "github.com/goccy/go-json"
)

type CycleServiceInterface interface {
	StartCycle(kind models.RoundKind, teamID, teamName string) (models.CycleSnapshot, error)
	StopCycle(kind models.RoundKind) (models.CycleSnapshot, error)
	EndQna() (models.CycleSnapshot, error)
	MarkAllPresentationsCompleted(kind models.RoundKind, completed bool) error
	Snapshot(kind models.RoundKind) (models.CycleSnapshot, error)
	SyncAll()
	AcceptingVotesFor(teamID string) error
	AcceptingRatingsFor(kind models.RatingKind, teamID string) error
	Plans() map[models.RoundKind]models.PhasePlan
	ActiveCycles() int
}

// CycleService owns the cycle row of each round kind. The effective phase is
// never stored as such: every read derives it from the persisted
// (phase, phaseStartedAt) pair and the clock, and every mutation goes through
// a compare-and-set on the row, so concurrent admin commands and a restarted
// process agree on the state without a live timer.
type CycleService struct {
	config  *structures.Config
	logger  providers.Logger
	store   *models.Store
	clock   providers.Clock
	caster  interfaces.BroadcasterInterface
	metrics providers.MetricsProviderInterface
	plans   map[models.RoundKind]models.PhasePlan
}

func NewCycleService(config *structures.Config, logger providers.Logger, store *models.Store, clock providers.Clock, caster interfaces.BroadcasterInterface, metrics providers.MetricsProviderInterface) CycleServiceInterface {
	plans := map[models.RoundKind]models.PhasePlan{
		models.RoundVoting: {
			{Phase: models.PhasePitching, Duration: config.Rounds.Voting.Pitching},
			{Phase: models.PhasePreparing, Duration: config.Rounds.Voting.Preparing},
			{Phase: models.PhaseVoting, Duration: config.Rounds.Voting.Voting},
		},
		models.RoundFinal: {
			{Phase: models.PhasePitching, Duration: config.Rounds.Final.Pitching},
			{Phase: models.PhaseQnaPause, Duration: 0},
			{Phase: models.PhaseRatingWarning, Duration: config.Rounds.Final.RatingWarning},
			{Phase: models.PhaseRatingActive, Duration: config.Rounds.Final.RatingActive},
		},
	}

	return &CycleService{
		config:  config,
		logger:  logger,
		store:   store,
		clock:   clock,
		caster:  caster,
		metrics: metrics,
		plans:   plans,
	}
}

func (cs *CycleService) Plans() map[models.RoundKind]models.PhasePlan {
	out := make(map[models.RoundKind]models.PhasePlan, len(cs.plans))
	for k, v := range cs.plans {
		out[k] = v
	}
	return out
}

func (cs *CycleService) loadState(kind models.RoundKind) (models.CycleState, uint64, error) {
	row, ok := cs.store.Get(models.CycleKey(kind))
	if !ok {
		return models.CycleState{RoundKind: kind, Phase: models.PhaseIdle}, 0, nil
	}
	var state models.CycleState
	if err := json.Unmarshal(row.Value, &state); err != nil {
		return models.CycleState{}, 0, fmt.Errorf("corrupt cycle row for %s: %w", kind, err)
	}
	return state, row.Version, nil
}

// mutate runs fn against the freshly derived state and writes its result via
// compare-and-set, retrying a bounded number of times on contention. The
// resulting snapshot is published to subscribers.
func (cs *CycleService) mutate(kind models.RoundKind, fn func(derived models.CycleState, now time.Time) (models.CycleState, error)) (models.CycleSnapshot, error) {
	plan, ok := cs.plans[kind]
	if !ok {
		return models.CycleSnapshot{}, models.ErrUnknownRound
	}

	for attempt := 0; attempt < cs.config.Voting.MaxRetries; attempt++ {
		stored, version, err := cs.loadState(kind)
		if err != nil {
			return models.CycleSnapshot{}, err
		}
		now := cs.clock.Now()
		derived, _ := plan.Advance(stored, now)
		derived.RoundKind = kind

		next, err := fn(derived, now)
		if err != nil {
			return models.CycleSnapshot{}, err
		}

		value, err := json.Marshal(next)
		if err != nil {
			return models.CycleSnapshot{}, err
		}
		if _, ok := cs.store.CompareAndSet(models.CycleKey(kind), version, value); !ok {
			continue
		}

		snapshot := plan.Snapshot(next, now)
		cs.caster.Publish(snapshot)
		return snapshot, nil
	}
	return models.CycleSnapshot{}, models.ErrContention
}

func (cs *CycleService) StartCycle(kind models.RoundKind, teamID, teamName string) (models.CycleSnapshot, error) {
	if teamID == "" || teamName == "" {
		return models.CycleSnapshot{}, fmt.Errorf("%w: team id and name are required", models.ErrInvalidInput)
	}
	plan := cs.plans[kind]

	snapshot, err := cs.mutate(kind, func(derived models.CycleState, now time.Time) (models.CycleState, error) {
		if derived.Active {
			return models.CycleState{}, fmt.Errorf("%w: a cycle is already active for round %s", models.ErrInvalidState, kind)
		}
		return models.CycleState{
			RoundKind:                 kind,
			TeamID:                    teamID,
			TeamName:                  teamName,
			Active:                    true,
			Phase:                     plan.First(),
			PhaseStartedAt:            now,
			AllPresentationsCompleted: derived.AllPresentationsCompleted,
		}, nil
	})
	if err != nil {
		return snapshot, err
	}

	cs.metrics.IncPhaseTransitions(string(kind))
	cs.logger.Infof(providers.TypeApp, "Cycle started for round %s, team %s (%s)", kind, teamName, teamID)
	return snapshot, nil
}

func (cs *CycleService) StopCycle(kind models.RoundKind) (models.CycleSnapshot, error) {
	snapshot, err := cs.mutate(kind, func(derived models.CycleState, now time.Time) (models.CycleState, error) {
		if !derived.Active {
			return models.CycleState{}, fmt.Errorf("%w: no active cycle for round %s", models.ErrInvalidState, kind)
		}
		derived.Active = false
		derived.Phase = models.PhaseIdle
		derived.PhaseStartedAt = now
		return derived, nil
	})
	if err != nil {
		return snapshot, err
	}

	cs.metrics.IncPhaseTransitions(string(kind))
	cs.logger.Infof(providers.TypeApp, "Cycle stopped for round %s", kind)
	return snapshot, nil
}

// EndQna advances the final round out of its unbounded Q&A pause. It is the
// only command that moves a phase forward; every timed transition happens by
// derivation.
func (cs *CycleService) EndQna() (models.CycleSnapshot, error) {
	snapshot, err := cs.mutate(models.RoundFinal, func(derived models.CycleState, now time.Time) (models.CycleState, error) {
		if !derived.Active || derived.Phase != models.PhaseQnaPause {
			return models.CycleState{}, fmt.Errorf("%w: endQna requires an active %s phase", models.ErrInvalidState, models.PhaseQnaPause)
		}
		derived.Phase = cs.plans[models.RoundFinal].Next(models.PhaseQnaPause)
		derived.PhaseStartedAt = now
		return derived, nil
	})
	if err != nil {
		return snapshot, err
	}

	cs.metrics.IncPhaseTransitions(string(models.RoundFinal))
	cs.logger.Infof(providers.TypeApp, "Q&A ended, rating warning running")
	return snapshot, nil
}

func (cs *CycleService) MarkAllPresentationsCompleted(kind models.RoundKind, completed bool) error {
	_, err := cs.mutate(kind, func(derived models.CycleState, _ time.Time) (models.CycleState, error) {
		derived.AllPresentationsCompleted = completed
		return derived, nil
	})
	return err
}

func (cs *CycleService) Snapshot(kind models.RoundKind) (models.CycleSnapshot, error) {
	plan, ok := cs.plans[kind]
	if !ok {
		return models.CycleSnapshot{}, models.ErrUnknownRound
	}
	state, _, err := cs.loadState(kind)
	if err != nil {
		return models.CycleSnapshot{}, err
	}
	snapshot := plan.Snapshot(state, cs.clock.Now())
	snapshot.RoundKind = kind
	return snapshot, nil
}

// SyncAll persists any phase transition that elapsed time has produced since
// the last stored write and publishes it. Reads stay correct without this
// (they derive lazily); the sync only exists so push subscribers learn about
// timed transitions promptly. Losing the compare-and-set here is harmless:
// whoever won has written an equal or newer state.
func (cs *CycleService) SyncAll() {
	for kind, plan := range cs.plans {
		stored, version, err := cs.loadState(kind)
		if err != nil {
			cs.logger.Errorf(providers.TypeApp, "Cycle sync failed for %s: %s", kind, err)
			continue
		}
		now := cs.clock.Now()
		derived, _ := plan.Advance(stored, now)
		derived.RoundKind = kind

		if derived.Phase == stored.Phase && derived.Active == stored.Active {
			continue
		}
		value, err := json.Marshal(derived)
		if err != nil {
			cs.logger.Errorf(providers.TypeApp, "Cycle sync marshal failed for %s: %s", kind, err)
			continue
		}
		if _, ok := cs.store.CompareAndSet(models.CycleKey(kind), version, value); !ok {
			continue
		}

		cs.metrics.IncPhaseTransitions(string(kind))
		cs.logger.Debugf(providers.TypeApp, "Round %s advanced to %s", kind, derived.Phase)
		cs.caster.Publish(plan.Snapshot(derived, now))
	}
}

func (cs *CycleService) windowOpen(kind models.RoundKind, phase models.Phase, teamID string) bool {
	snapshot, err := cs.Snapshot(kind)
	if err != nil {
		return false
	}
	return snapshot.CycleActive &&
		snapshot.Phase == phase &&
		snapshot.PresentingTeamID == teamID &&
		snapshot.SecondsRemaining > 0
}

// AcceptingVotesFor reports whether votes for the given team are currently
// allowed: the team must be presenting with a voting window open in either
// round. The phase is re-derived on every call, never trusted from a cache.
func (cs *CycleService) AcceptingVotesFor(teamID string) error {
	if cs.windowOpen(models.RoundVoting, models.PhaseVoting, teamID) ||
		cs.windowOpen(models.RoundFinal, models.PhaseRatingActive, teamID) {
		return nil
	}
	return models.ErrNotAcceptingSubmissions
}

// AcceptingRatingsFor gates rating submission per kind: live judging rides
// the voting round's voting window, peer and final judge scores the final
// round's rating window.
func (cs *CycleService) AcceptingRatingsFor(kind models.RatingKind, teamID string) error {
	switch kind {
	case models.RatingJudgeLive:
		if cs.windowOpen(models.RoundVoting, models.PhaseVoting, teamID) {
			return nil
		}
	case models.RatingPeer, models.RatingJudgeFinal:
		if cs.windowOpen(models.RoundFinal, models.PhaseRatingActive, teamID) {
			return nil
		}
	default:
		return models.ErrInvalidInput
	}
	return models.ErrNotAcceptingSubmissions
}

func (cs *CycleService) ActiveCycles() int {
	n := 0
	for kind := range cs.plans {
		if snapshot, err := cs.Snapshot(kind); err == nil && snapshot.CycleActive {
			n++
		}
	}
	return n
}
