package models

import "time"

// TokenBalance holds the four per-team resource counters.
type TokenBalance struct {
	Marketing int `json:"marketing"`
	Capital   int `json:"capital"`
	Team      int `json:"team"`
	Strategy  int `json:"strategy"`
}

func NewTokenBalance(start int) TokenBalance {
	return TokenBalance{Marketing: start, Capital: start, Team: start, Strategy: start}
}

// Min returns the smallest of the four counters, which bounds how many
// conversions are possible.
func (b TokenBalance) Min() int {
	m := b.Marketing
	if b.Capital < m {
		m = b.Capital
	}
	if b.Team < m {
		m = b.Team
	}
	if b.Strategy < m {
		m = b.Strategy
	}
	return m
}

func (b TokenBalance) Sum() int {
	return b.Marketing + b.Capital + b.Team + b.Strategy
}

// Sub decrements all four counters equally.
func (b TokenBalance) Sub(q int) TokenBalance {
	b.Marketing -= q
	b.Capital -= q
	b.Team -= q
	b.Strategy -= q
	return b
}

// Add applies a signed per-category delta, clamping each counter at zero.
func (b TokenBalance) Add(d TokenBalance) TokenBalance {
	b.Marketing = clampZero(b.Marketing + d.Marketing)
	b.Capital = clampZero(b.Capital + d.Capital)
	b.Team = clampZero(b.Team + d.Team)
	b.Strategy = clampZero(b.Strategy + d.Strategy)
	return b
}

// PositiveSum sums only the positive components of a delta.
func (b TokenBalance) PositiveSum() int {
	s := 0
	for _, v := range []int{b.Marketing, b.Capital, b.Team, b.Strategy} {
		if v > 0 {
			s += v
		}
	}
	return s
}

func clampZero(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

type TokenConversionRecord struct {
	ID                string    `json:"id"`
	TeamID            string    `json:"team_id"`
	Seq               int       `json:"seq"`
	TokensPerCategory int       `json:"tokens_per_category"`
	VotesGained       int       `json:"votes_gained"`
	CreatedAt         time.Time `json:"created_at"`
}

// TokenAccount is the per-team token row: current balances, the running sum
// of every positive delta ever applied, and the conversion log. Balance
// mutation and conversion append share one row so the check-then-decrement
// is a single compare-and-set.
type TokenAccount struct {
	TeamID      string                  `json:"team_id"`
	Balance     TokenBalance            `json:"balance"`
	Earned      int                     `json:"earned"`
	Conversions []TokenConversionRecord `json:"conversions"`
}

func NewTokenAccount(teamID string, start int) *TokenAccount {
	b := NewTokenBalance(start)
	return &TokenAccount{
		TeamID:  teamID,
		Balance: b,
		Earned:  b.Sum(),
	}
}

// VotesFromConversions totals the extra votes this team bought.
func (a *TokenAccount) VotesFromConversions() int {
	n := 0
	for _, c := range a.Conversions {
		n += c.VotesGained
	}
	return n
}
