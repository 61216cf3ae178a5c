package models

import "time"

const (
	VoteYes = 1
	VoteNo  = -1
)

// SubmissionStatus tags the outcome of a ledger submission. Duplicates and
// auto-conversions are success variants, not errors, so client retries stay
// safe.
type SubmissionStatus string

const (
	StatusCreated       SubmissionStatus = "created"
	StatusDuplicate     SubmissionStatus = "duplicate"
	StatusAutoConverted SubmissionStatus = "autoConverted"
)

type VoteRecord struct {
	FromTeamID    string    `json:"from_team_id"`
	ToTeamID      string    `json:"to_team_id"`
	Value         int       `json:"value"`
	AutoConverted bool      `json:"auto_converted"`
	CreatedAt     time.Time `json:"created_at"`
}

// VoterLedger is the per-voter vote row: every outgoing vote of one team,
// keyed by target team. Keeping all of a voter's votes in one row puts the
// pair-uniqueness check and the No-budget check in the same compare-and-set
// scope.
type VoterLedger struct {
	FromTeamID string                 `json:"from_team_id"`
	Votes      map[string]*VoteRecord `json:"votes"`
}

func NewVoterLedger(fromTeamID string) *VoterLedger {
	return &VoterLedger{
		FromTeamID: fromTeamID,
		Votes:      make(map[string]*VoteRecord),
	}
}

// NoCount reports how many stored votes kept their "No" value. Auto-converted
// records hold +1 and therefore do not count.
func (l *VoterLedger) NoCount() int {
	n := 0
	for _, rec := range l.Votes {
		if rec.Value == VoteNo {
			n++
		}
	}
	return n
}
