package models

import "time"

type RoundKind string

const (
	RoundVoting RoundKind = "voting"
	RoundFinal  RoundKind = "final"
)

func ParseRoundKind(s string) (RoundKind, error) {
	switch RoundKind(s) {
	case RoundVoting:
		return RoundVoting, nil
	case RoundFinal:
		return RoundFinal, nil
	}
	return "", ErrUnknownRound
}

type Phase string

const (
	PhaseIdle          Phase = "idle"
	PhasePitching      Phase = "pitching"
	PhasePreparing     Phase = "preparing"
	PhaseVoting        Phase = "voting"
	PhaseQnaPause      Phase = "qna-pause"
	PhaseRatingWarning Phase = "rating-warning"
	PhaseRatingActive  Phase = "rating-active"
)

// PhaseStep is one entry in a round's phase sequence. Duration <= 0 marks an
// unbounded phase that only advances on an explicit command (Q&A pause).
type PhaseStep struct {
	Phase    Phase
	Duration time.Duration
}

// PhasePlan is the ordered phase sequence for one round kind.
type PhasePlan []PhaseStep

func (p PhasePlan) First() Phase {
	if len(p) == 0 {
		return PhaseIdle
	}
	return p[0].Phase
}

func (p PhasePlan) indexOf(phase Phase) int {
	for i, step := range p {
		if step.Phase == phase {
			return i
		}
	}
	return -1
}

// Next returns the phase following the given one, or PhaseIdle when the
// given phase is the last of the plan or unknown.
func (p PhasePlan) Next(phase Phase) Phase {
	idx := p.indexOf(phase)
	if idx < 0 || idx+1 >= len(p) {
		return PhaseIdle
	}
	return p[idx+1].Phase
}

// CycleState is the persisted cycle row for one round kind. It records which
// phase was last explicitly entered and when; the currently effective phase is
// always derived from it together with the wall clock (see Advance), never
// from an in-memory countdown.
type CycleState struct {
	RoundKind                 RoundKind `json:"round_kind"`
	TeamID                    string    `json:"team_id"`
	TeamName                  string    `json:"team_name"`
	Active                    bool      `json:"active"`
	Phase                     Phase     `json:"phase"`
	PhaseStartedAt            time.Time `json:"phase_started_at"`
	AllPresentationsCompleted bool      `json:"all_presentations_completed"`
}

// CycleSnapshot is the derived, client-facing view of a cycle.
type CycleSnapshot struct {
	RoundKind                 RoundKind `json:"round_kind"`
	PresentingTeamID          string    `json:"presenting_team_id"`
	PresentingTeamName        string    `json:"presenting_team_name"`
	CycleActive               bool      `json:"cycle_active"`
	Phase                     Phase     `json:"phase"`
	PhaseStartedAt            time.Time `json:"phase_started_at"`
	SecondsRemaining          float64   `json:"seconds_remaining"`
	PhaseUnbounded            bool      `json:"phase_unbounded"`
	AllPresentationsCompleted bool      `json:"all_presentations_completed"`
}

// Advance computes the cycle state effective at now by walking elapsed time
// through the plan's timed phases. It returns the advanced state plus the
// time remaining in its phase (zero for idle and unbounded phases). The input
// state is not modified; Advance is a pure function of (state, now) so a cold
// process observing only the persisted row reconstructs the same answer a
// long-running one would.
func (p PhasePlan) Advance(state CycleState, now time.Time) (CycleState, time.Duration) {
	if !state.Active || state.Phase == PhaseIdle {
		state.Active = false
		state.Phase = PhaseIdle
		return state, 0
	}

	idx := p.indexOf(state.Phase)
	if idx < 0 {
		state.Active = false
		state.Phase = PhaseIdle
		return state, 0
	}

	elapsed := now.Sub(state.PhaseStartedAt)
	if elapsed < 0 {
		elapsed = 0
	}

	for {
		step := p[idx]
		if step.Duration <= 0 {
			// Unbounded phase, holds until an explicit command.
			state.Phase = step.Phase
			state.PhaseStartedAt = now.Add(-elapsed)
			return state, 0
		}
		if elapsed < step.Duration {
			state.Phase = step.Phase
			state.PhaseStartedAt = now.Add(-elapsed)
			return state, step.Duration - elapsed
		}
		elapsed -= step.Duration
		idx++
		if idx >= len(p) {
			// Cycle ran out; the presenting team stays on display.
			state.Active = false
			state.Phase = PhaseIdle
			state.PhaseStartedAt = now.Add(-elapsed)
			return state, 0
		}
	}
}

// Snapshot derives the client-facing view of the state at now.
func (p PhasePlan) Snapshot(state CycleState, now time.Time) CycleSnapshot {
	advanced, remaining := p.Advance(state, now)
	unbounded := false
	if idx := p.indexOf(advanced.Phase); idx >= 0 && p[idx].Duration <= 0 {
		unbounded = true
	}
	return CycleSnapshot{
		RoundKind:                 advanced.RoundKind,
		PresentingTeamID:          advanced.TeamID,
		PresentingTeamName:        advanced.TeamName,
		CycleActive:               advanced.Active,
		Phase:                     advanced.Phase,
		PhaseStartedAt:            advanced.PhaseStartedAt,
		SecondsRemaining:          remaining.Seconds(),
		PhaseUnbounded:            unbounded,
		AllPresentationsCompleted: advanced.AllPresentationsCompleted,
	}
}
