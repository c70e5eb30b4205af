package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/verdantlabs/ecocycle/internal/analytics"
	"github.com/verdantlabs/ecocycle/internal/common"
	"github.com/verdantlabs/ecocycle/internal/leaderboard"
	"github.com/verdantlabs/ecocycle/internal/model"
	"github.com/verdantlabs/ecocycle/internal/progression"
)

// principal extracts the caller identity, writing a 401 when absent.
func (s *Server) principal(w http.ResponseWriter, r *http.Request) (string, bool) {
	p := r.Header.Get(PrincipalHeader)
	if p == "" {
		http.Error(w, "missing "+PrincipalHeader+" header", http.StatusUnauthorized)
		return "", false
	}
	return p, true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, common.ErrValidationFailed),
		errors.Is(err, common.ErrInvalidConfig):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, common.ErrInsufficientBalance):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		s.logger.Error("request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func (s *Server) handleGetLogs(w http.ResponseWriter, r *http.Request) {
	owner, ok := s.principal(w, r)
	if !ok {
		return
	}

	logs, err := s.store.GetLogs(r.Context(), owner)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if logs == nil {
		logs = []model.WasteLog{}
	}
	s.writeJSON(w, http.StatusOK, logs)
}

type createLogRequest struct {
	Category string  `json:"category"`
	Method   string  `json:"method"`
	Quantity float64 `json:"quantity"`
}

type createLogResponse struct {
	Log    *model.WasteLog `json:"log"`
	Points int64           `json:"points"`
}

func (s *Server) handleCreateLog(w http.ResponseWriter, r *http.Request) {
	owner, ok := s.principal(w, r)
	if !ok {
		return
	}

	var req createLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	category, err := model.ParseCategory(req.Category)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	method, err := model.ParseMethod(req.Method)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Quantity <= 0 {
		http.Error(w, "quantity must be positive", http.StatusBadRequest)
		return
	}

	log, points, err := s.store.LogWaste(r.Context(), owner, category, method, req.Quantity)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.broadcastLeaderboard(r)

	s.writeJSON(w, http.StatusCreated, createLogResponse{Log: log, Points: points})
}

func (s *Server) handleGetBalance(w http.ResponseWriter, r *http.Request) {
	owner, ok := s.principal(w, r)
	if !ok {
		return
	}

	balance, err := s.store.GetBalance(r.Context(), owner)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]int64{"balance": balance})
}

type leaderboardResponse struct {
	Entries []leaderboard.RankedEntry `json:"entries"`
	// YourRank is the caller's own rank; absent when the caller is
	// anonymous or has no logs yet.
	YourRank int `json:"yourRank,omitempty"`
}

func (s *Server) handleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	rows, err := s.store.GetLeaderboardRows(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := leaderboardResponse{Entries: leaderboard.Rank(rows)}
	if resp.Entries == nil {
		resp.Entries = []leaderboard.RankedEntry{}
	}
	if caller := r.Header.Get(PrincipalHeader); caller != "" {
		if rank, ok := leaderboard.RankOf(rows, caller); ok {
			resp.YourRank = rank
		}
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetAnalytics(w http.ResponseWriter, r *http.Request) {
	owner, ok := s.principal(w, r)
	if !ok {
		return
	}

	logs, err := s.store.GetLogs(r.Context(), owner)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, analytics.Reduce(logs))
}

type achievementsResponse struct {
	Achievements []model.Achievement           `json:"achievements"`
	Milestones   []progression.MilestoneStatus `json:"milestones"`
	StreakDays   int                           `json:"streakDays"`
}

func (s *Server) handleGetAchievements(w http.ResponseWriter, r *http.Request) {
	owner, ok := s.principal(w, r)
	if !ok {
		return
	}

	logs, err := s.store.GetLogs(r.Context(), owner)
	if err != nil {
		s.writeError(w, err)
		return
	}
	balance, err := s.store.GetBalance(r.Context(), owner)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, achievementsResponse{
		Achievements: progression.EvaluateAchievements(logs, balance),
		Milestones:   progression.Milestones(len(logs)),
		StreakDays:   progression.Streak(logs),
	})
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	owner, ok := s.principal(w, r)
	if !ok {
		return
	}

	profile, err := s.store.GetProfile(r.Context(), owner)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleSaveProfile(w http.ResponseWriter, r *http.Request) {
	owner, ok := s.principal(w, r)
	if !ok {
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	profile := &model.UserProfile{Principal: owner, Name: req.Name}
	if err := s.store.SaveProfile(r.Context(), profile); err != nil {
		s.writeError(w, err)
		return
	}

	saved, err := s.store.GetProfile(r.Context(), owner)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, saved)
}

func (s *Server) handleGetRedemptions(w http.ResponseWriter, r *http.Request) {
	owner, ok := s.principal(w, r)
	if !ok {
		return
	}

	requests, err := s.store.GetRedemptions(r.Context(), owner)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if requests == nil {
		requests = []model.RedemptionRequest{}
	}
	s.writeJSON(w, http.StatusOK, requests)
}

func (s *Server) handleCreateRedemption(w http.ResponseWriter, r *http.Request) {
	owner, ok := s.principal(w, r)
	if !ok {
		return
	}

	var req struct {
		Amount       int64   `json:"amount"`
		CryptoType   string  `json:"cryptoType"`
		ExchangeRate float64 `json:"exchangeRate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	redemption := &model.RedemptionRequest{
		Owner:        owner,
		Amount:       req.Amount,
		CryptoType:   req.CryptoType,
		ExchangeRate: req.ExchangeRate,
	}
	if err := s.store.CreateRedemption(r.Context(), redemption); err != nil {
		s.writeError(w, err)
		return
	}

	s.broadcastLeaderboard(r)

	s.writeJSON(w, http.StatusCreated, redemption)
}

// broadcastLeaderboard pushes the re-ranked board to websocket subscribers.
func (s *Server) broadcastLeaderboard(r *http.Request) {
	rows, err := s.store.GetLeaderboardRows(r.Context())
	if err != nil {
		s.logger.Warn("failed to load leaderboard for broadcast", "error", err)
		return
	}
	s.hub.Broadcast("leaderboard-update", leaderboard.Rank(rows))
}
