package controllers

import (
	"errors"
	"net/http"
	"pcd/internal/competition/interfaces"
	"pcd/internal/models"
	"pcd/internal/providers"
	"pcd/internal/services"
	"time"

	json "github.com/goccy/go-json"
)

const maxRequestBodySize = 1 << 20 // 1 MB

const sseHeartbeatInterval = 15 * time.Second

type ApiController struct {
	logger  providers.Logger
	cache   providers.CacheProviderInterface
	cycles  services.CycleServiceInterface
	votes   services.VoteServiceInterface
	tokens  services.TokenServiceInterface
	ratings services.RatingServiceInterface
	scoring services.ScoringServiceInterface
	teams   services.TeamServiceInterface
	caster  interfaces.BroadcasterInterface
}

func NewApiController(
	logger providers.Logger,
	cache providers.CacheProviderInterface,
	cycles services.CycleServiceInterface,
	votes services.VoteServiceInterface,
	tokens services.TokenServiceInterface,
	ratings services.RatingServiceInterface,
	scoring services.ScoringServiceInterface,
	teams services.TeamServiceInterface,
	caster interfaces.BroadcasterInterface,
) *ApiController {
	return &ApiController{
		logger:  logger,
		cache:   cache,
		cycles:  cycles,
		votes:   votes,
		tokens:  tokens,
		ratings: ratings,
		scoring: scoring,
		teams:   teams,
		caster:  caster,
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	gson, err := json.Marshal(body)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

func (ac *ApiController) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrUnknownTeam), errors.Is(err, models.ErrUnknownRound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrInvalidState), errors.Is(err, models.ErrNotAcceptingSubmissions):
		status = http.StatusConflict
	case errors.Is(err, models.ErrInsufficientTokens):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrContention):
		status = http.StatusServiceUnavailable
	default:
		ac.logger.Errorf(providers.TypeApp, "Unexpected error: %s", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return false
	}
	return true
}

func roundFromQuery(r *http.Request) (models.RoundKind, error) {
	raw := r.URL.Query().Get("round")
	if raw == "" {
		return models.RoundVoting, nil
	}
	return models.ParseRoundKind(raw)
}

func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() (any, error)) {
	if data, ok := ac.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	result, err := compute()
	if err != nil {
		ac.writeError(w, err)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ac.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

// --- cycle commands ---

type startCycleRequest struct {
	Round    string `json:"round"`
	TeamID   string `json:"team_id"`
	TeamName string `json:"team_name"`
}

func (ac *ApiController) StartCycle(w http.ResponseWriter, r *http.Request) {
	var req startCycleRequest
	if !decodeBody(w, r, &req) {
		return
	}
	kind, err := models.ParseRoundKind(req.Round)
	if err != nil {
		ac.writeError(w, err)
		return
	}
	snapshot, err := ac.cycles.StartCycle(kind, req.TeamID, req.TeamName)
	if err != nil {
		ac.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, snapshot)
}

type stopCycleRequest struct {
	Round string `json:"round"`
}

func (ac *ApiController) StopCycle(w http.ResponseWriter, r *http.Request) {
	var req stopCycleRequest
	if !decodeBody(w, r, &req) {
		return
	}
	kind, err := models.ParseRoundKind(req.Round)
	if err != nil {
		ac.writeError(w, err)
		return
	}
	snapshot, err := ac.cycles.StopCycle(kind)
	if err != nil {
		ac.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (ac *ApiController) EndQna(w http.ResponseWriter, r *http.Request) {
	snapshot, err := ac.cycles.EndQna()
	if err != nil {
		ac.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

type markCompletedRequest struct {
	Round     string `json:"round"`
	Completed bool   `json:"completed"`
}

func (ac *ApiController) MarkCompleted(w http.ResponseWriter, r *http.Request) {
	var req markCompletedRequest
	if !decodeBody(w, r, &req) {
		return
	}
	kind, err := models.ParseRoundKind(req.Round)
	if err != nil {
		ac.writeError(w, err)
		return
	}
	if err := ac.cycles.MarkAllPresentationsCompleted(kind, req.Completed); err != nil {
		ac.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetSnapshot is the polling twin of the SSE stream: both shapes come from
// the same lazy derivation, so a client that cannot hold a connection loses
// nothing but latency.
func (ac *ApiController) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	kind, err := roundFromQuery(r)
	if err != nil {
		ac.writeError(w, err)
		return
	}
	snapshot, err := ac.cycles.Snapshot(kind)
	if err != nil {
		ac.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

// StreamEvents pushes cycle snapshots over server-sent events. The current
// snapshot is sent immediately so a reconnecting client never has to wait
// for the next transition.
func (ac *ApiController) StreamEvents(w http.ResponseWriter, r *http.Request) {
	kind, err := roundFromQuery(r)
	if err != nil {
		ac.writeError(w, err)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	id, ch := ac.caster.Subscribe(kind)
	defer ac.caster.Unsubscribe(kind, id)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	writeEvent := func(snapshot models.CycleSnapshot) bool {
		gson, err := json.Marshal(snapshot)
		if err != nil {
			return false
		}
		if _, err := w.Write([]byte("event: snapshot\ndata: ")); err != nil {
			return false
		}
		if _, err := w.Write(gson); err != nil {
			return false
		}
		if _, err := w.Write([]byte("\n\n")); err != nil {
			return false
		}
		flusher.Flush()
		return true
	}

	if snapshot, err := ac.cycles.Snapshot(kind); err == nil {
		if !writeEvent(snapshot) {
			return
		}
	}

	heartbeat := time.NewTicker(sseHeartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case snapshot, ok := <-ch:
			if !ok {
				return
			}
			if !writeEvent(snapshot) {
				return
			}
		case <-heartbeat.C:
			if _, err := w.Write([]byte(": ping\n\n")); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

// --- submissions ---

type castVoteRequest struct {
	FromTeamID string `json:"from_team_id"`
	ToTeamID   string `json:"to_team_id"`
	Value      int    `json:"value"`
}

type castVoteResponse struct {
	Status models.SubmissionStatus `json:"status"`
	Record *models.VoteRecord      `json:"record"`
}

func (ac *ApiController) CastVote(w http.ResponseWriter, r *http.Request) {
	var req castVoteRequest
	if !decodeBody(w, r, &req) {
		return
	}
	record, status, err := ac.votes.CastVote(req.FromTeamID, req.ToTeamID, req.Value)
	if err != nil {
		ac.writeError(w, err)
		return
	}
	httpStatus := http.StatusCreated
	if status == models.StatusDuplicate {
		httpStatus = http.StatusOK
	}
	writeJSON(w, httpStatus, castVoteResponse{Status: status, Record: record})
}

type convertTokensRequest struct {
	TeamID   string `json:"team_id"`
	Quantity int    `json:"quantity"`
}

type convertTokensResponse struct {
	VotesGained       int                           `json:"votes_gained"`
	RemainingBalances models.TokenBalance           `json:"remaining_balances"`
	Record            *models.TokenConversionRecord `json:"record"`
}

func (ac *ApiController) ConvertTokens(w http.ResponseWriter, r *http.Request) {
	var req convertTokensRequest
	if !decodeBody(w, r, &req) {
		return
	}
	record, remaining, err := ac.tokens.ConvertTokens(req.TeamID, req.Quantity)
	if err != nil {
		ac.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, convertTokensResponse{
		VotesGained:       record.VotesGained,
		RemainingBalances: remaining,
		Record:            record,
	})
}

type tokenDeltaRequest struct {
	TeamID string              `json:"team_id"`
	Delta  models.TokenBalance `json:"delta"`
}

func (ac *ApiController) ApplyTokenDelta(w http.ResponseWriter, r *http.Request) {
	var req tokenDeltaRequest
	if !decodeBody(w, r, &req) {
		return
	}
	balance, err := ac.tokens.ApplyDelta(req.TeamID, req.Delta)
	if err != nil {
		ac.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]models.TokenBalance{"balances": balance})
}

type submitRatingRequest struct {
	RaterID  string  `json:"rater_id"`
	ToTeamID string  `json:"to_team_id"`
	Score    float64 `json:"score"`
	Kind     string  `json:"kind"`
}

type submitRatingResponse struct {
	Status models.SubmissionStatus `json:"status"`
	Record *models.RatingRecord    `json:"record"`
}

func (ac *ApiController) SubmitRating(w http.ResponseWriter, r *http.Request) {
	var req submitRatingRequest
	if !decodeBody(w, r, &req) {
		return
	}
	record, status, err := ac.ratings.SubmitRating(req.RaterID, req.ToTeamID, req.Score, models.RatingKind(req.Kind))
	if err != nil {
		ac.writeError(w, err)
		return
	}
	httpStatus := http.StatusCreated
	if status == models.StatusDuplicate {
		httpStatus = http.StatusOK
	}
	writeJSON(w, httpStatus, submitRatingResponse{Status: status, Record: record})
}

// --- reads ---

// GetLeaderboard recomputes from the ledgers on every call; the response is
// deliberately never cached.
func (ac *ApiController) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	board, err := ac.scoring.Leaderboard()
	if err != nil {
		ac.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

type registerTeamRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (ac *ApiController) RegisterTeam(w http.ResponseWriter, r *http.Request) {
	var req registerTeamRequest
	if !decodeBody(w, r, &req) {
		return
	}
	team, status, err := ac.teams.RegisterTeam(req.ID, req.Name)
	if err != nil {
		ac.writeError(w, err)
		return
	}
	httpStatus := http.StatusCreated
	if status == models.StatusDuplicate {
		httpStatus = http.StatusOK
	}
	writeJSON(w, httpStatus, map[string]any{"status": status, "team": team})
}

func (ac *ApiController) GetTeams(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, "teams", func() (any, error) {
		return ac.teams.ListTeams()
	})
}

type roundInfo struct {
	Phase   models.Phase `json:"phase"`
	Seconds float64      `json:"seconds"`
	Timed   bool         `json:"timed"`
}

// GetRounds serves the phase timetable. It is immutable after boot, which
// makes it the one response worth caching.
func (ac *ApiController) GetRounds(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, "rounds", func() (any, error) {
		out := make(map[models.RoundKind][]roundInfo)
		for kind, plan := range ac.cycles.Plans() {
			infos := make([]roundInfo, 0, len(plan))
			for _, step := range plan {
				infos = append(infos, roundInfo{
					Phase:   step.Phase,
					Seconds: step.Duration.Seconds(),
					Timed:   step.Duration > 0,
				})
			}
			out[kind] = infos
		}
		return out, nil
	})
}
