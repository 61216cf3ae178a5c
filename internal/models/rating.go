package models

import "time"

type RatingKind string

const (
	RatingPeer       RatingKind = "peer"
	RatingJudgeFinal RatingKind = "judge-final"
	RatingJudgeLive  RatingKind = "judge-live"
)

func ParseRatingKind(s string) (RatingKind, error) {
	switch RatingKind(s) {
	case RatingPeer, RatingJudgeFinal, RatingJudgeLive:
		return RatingKind(s), nil
	}
	return "", ErrInvalidInput
}

type RatingRecord struct {
	RaterID   string     `json:"rater_id"`
	ToTeamID  string     `json:"to_team_id"`
	Kind      RatingKind `json:"kind"`
	Score     float64    `json:"score"`
	CreatedAt time.Time  `json:"created_at"`
}

// RaterLedger is the per-rater rating row for one kind, keyed by target team.
type RaterLedger struct {
	RaterID string                   `json:"rater_id"`
	Kind    RatingKind               `json:"kind"`
	Ratings map[string]*RatingRecord `json:"ratings"`
}

func NewRaterLedger(raterID string, kind RatingKind) *RaterLedger {
	return &RaterLedger{
		RaterID: raterID,
		Kind:    kind,
		Ratings: make(map[string]*RatingRecord),
	}
}
