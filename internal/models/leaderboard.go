package models

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

type TokenActivity struct {
	Earned    int `json:"earned"`
	Remaining int `json:"remaining"`
}

// VoteTally separates organic votes from conversion-bought votes; the
// distinction feeds the tiebreaker chain.
type VoteTally struct {
	OriginalYes    int `json:"original_yes"`
	OriginalNo     int `json:"original_no"`
	FromConversion int `json:"from_conversion"`
	Total          int `json:"total"`
}

type PeerRatingSummary struct {
	Total float64 `json:"total"`
	Count int     `json:"count"`
}

type JudgeScoreSummary struct {
	Total   float64 `json:"total"`
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

type LeaderboardEntry struct {
	Rank       int               `json:"rank"`
	TeamID     string            `json:"team_id"`
	TeamName   string            `json:"team_name"`
	Tokens     TokenActivity     `json:"tokens"`
	Voting     VoteTally         `json:"voting"`
	Peer       PeerRatingSummary `json:"peer_rating"`
	Judge      JudgeScoreSummary `json:"judge_scores"`
	FinalScore float64           `json:"final_cumulative_score"`
}

// WinnerNote documents that a ranking decision came down to the alphabetical
// tiebreak rather than any score difference.
type WinnerNote struct {
	TeamIDs []string `json:"team_ids"`
	Note    string   `json:"note"`
}

type Leaderboard struct {
	Entries                   []*LeaderboardEntry `json:"entries"`
	WinnerNotes               []WinnerNote        `json:"winner_notes"`
	AllPresentationsCompleted bool                `json:"all_presentations_completed"`
	GeneratedAt               time.Time           `json:"generated_at"`
}

// scoreTied reports whether a and b are equal on every key before the name
// tiebreak.
func scoreTied(a, b *LeaderboardEntry) bool {
	return a.FinalScore == b.FinalScore &&
		a.Voting.OriginalYes-a.Voting.OriginalNo == b.Voting.OriginalYes-b.Voting.OriginalNo &&
		a.Voting.Total == b.Voting.Total
}

func entryLess(a, b *LeaderboardEntry) bool {
	if a.FinalScore != b.FinalScore {
		return a.FinalScore > b.FinalScore
	}
	aNet := a.Voting.OriginalYes - a.Voting.OriginalNo
	bNet := b.Voting.OriginalYes - b.Voting.OriginalNo
	if aNet != bNet {
		return aNet > bNet
	}
	if a.Voting.Total != b.Voting.Total {
		return a.Voting.Total > b.Voting.Total
	}
	an := strings.ToLower(a.TeamName)
	bn := strings.ToLower(b.TeamName)
	if an != bn {
		return an < bn
	}
	// Identical lowercased names cannot tie the order; fall back to the id.
	return a.TeamID < b.TeamID
}

// RankEntries sorts entries into the strict total order, assigns ranks and
// returns a note for every group of teams whose order was settled only by
// name.
func RankEntries(entries []*LeaderboardEntry) []WinnerNote {
	sort.SliceStable(entries, func(i, j int) bool {
		return entryLess(entries[i], entries[j])
	})

	var notes []WinnerNote
	for i := 0; i < len(entries); {
		j := i + 1
		for j < len(entries) && scoreTied(entries[i], entries[j]) {
			j++
		}
		if j-i > 1 {
			group := entries[i:j]
			ids := make([]string, 0, len(group))
			names := make([]string, 0, len(group))
			for _, e := range group {
				ids = append(ids, e.TeamID)
				names = append(names, e.TeamName)
			}
			notes = append(notes, WinnerNote{
				TeamIDs: ids,
				Note: fmt.Sprintf("teams %s tied on score and votes; order resolved alphabetically, %q ranks first",
					strings.Join(names, ", "), group[0].TeamName),
			})
		}
		i = j
	}

	for i, e := range entries {
		e.Rank = i + 1
	}
	return notes
}
