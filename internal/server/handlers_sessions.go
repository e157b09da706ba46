package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/ats-optimizer/internal/server/middleware"
	"github.com/jonathan/ats-optimizer/internal/store"
)

const (
	maxSettingBytes = 64 << 10
	// HistoryTTL is how long history entries are kept.
	HistoryTTL          = 90 * 24 * time.Hour
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

// HistoryRequest is the body of POST /history.
type HistoryRequest struct {
	Kind    string          `json:"kind" validate:"required,oneof=keywords scrape resume ai"`
	Payload json.RawMessage `json:"payload" validate:"required"`
}

// HistoryEntry is one saved analysis.
type HistoryEntry struct {
	ID        uuid.UUID       `json:"id"`
	Kind      string          `json:"kind"`
	CreatedAt time.Time       `json:"createdAt"`
	Payload   json.RawMessage `json:"payload"`
}

// Setting is one stored settings value.
type Setting struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

func settingsNamespace(sessionID uuid.UUID) string {
	return store.NamespaceSettings + ":" + sessionID.String()
}

func historyNamespace(sessionID uuid.UUID) string {
	return store.NamespaceHistory + ":" + sessionID.String()
}

// historyKey sorts lexically in creation order.
func historyKey(e HistoryEntry) string {
	return e.CreatedAt.UTC().Format("20060102T150405.000000000") + "-" + e.ID.String()
}

// handleCreateSession issues an anonymous session token.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	if s.jwtService == nil {
		s.writeError(w, r, ErrSessionsDisabled)
		return
	}
	session, err := s.jwtService.IssueSession()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.successResponse(w, http.StatusCreated, session)
}

func (s *Server) handleListSettings(w http.ResponseWriter, r *http.Request) {
	sessionID, err := middleware.GetSessionID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	entries, err := s.store.List(r.Context(), settingsNamespace(sessionID))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	settings := make([]Setting, 0, len(entries))
	for _, e := range entries {
		settings = append(settings, Setting{Key: e.Key, Value: e.Value})
	}
	s.successResponse(w, http.StatusOK, settings)
}

func (s *Server) handleGetSetting(w http.ResponseWriter, r *http.Request) {
	sessionID, key, ok := s.settingTarget(w, r)
	if !ok {
		return
	}

	value, err := s.store.Get(r.Context(), settingsNamespace(sessionID), key)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("setting %q: %w", key, err))
		return
	}
	s.successResponse(w, http.StatusOK, Setting{Key: key, Value: value})
}

// handlePutSetting stores any JSON value under the key.
func (s *Server) handlePutSetting(w http.ResponseWriter, r *http.Request) {
	sessionID, key, ok := s.settingTarget(w, r)
	if !ok {
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSettingBytes))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !json.Valid(body) {
		s.writeError(w, r, &ErrValidation{Field: "value", Message: "setting value must be valid JSON"})
		return
	}

	if err := s.store.Set(r.Context(), settingsNamespace(sessionID), key, body, 0); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.successResponse(w, http.StatusOK, Setting{Key: key, Value: body})
}

func (s *Server) handleDeleteSetting(w http.ResponseWriter, r *http.Request) {
	sessionID, key, ok := s.settingTarget(w, r)
	if !ok {
		return
	}

	if err := s.store.Delete(r.Context(), settingsNamespace(sessionID), key); err != nil {
		s.writeError(w, r, fmt.Errorf("setting %q: %w", key, err))
		return
	}
	s.successResponse(w, http.StatusOK, map[string]string{"key": key})
}

// settingTarget returns the session and validated key of a settings request.
func (s *Server) settingTarget(w http.ResponseWriter, r *http.Request) (uuid.UUID, string, bool) {
	sessionID, err := middleware.GetSessionID(r)
	if err != nil {
		s.writeError(w, r, err)
		return uuid.Nil, "", false
	}
	key := r.PathValue("key")
	if err := s.validate.Var(key, "required,max=128,printascii"); err != nil {
		s.writeError(w, r, &ErrValidation{Field: "key", Message: "invalid setting key"})
		return uuid.Nil, "", false
	}
	return sessionID, key, true
}

func (s *Server) handleAppendHistory(w http.ResponseWriter, r *http.Request) {
	sessionID, err := middleware.GetSessionID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req HistoryRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.writeError(w, r, &ErrValidation{Field: "kind", Message: "kind (keywords, scrape, resume or ai) and payload are required"})
		return
	}

	entry := HistoryEntry{
		ID:        uuid.New(),
		Kind:      req.Kind,
		CreatedAt: time.Now().UTC(),
		Payload:   req.Payload,
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.Set(r.Context(), historyNamespace(sessionID), historyKey(entry), raw, HistoryTTL); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.successResponse(w, http.StatusCreated, entry)
}

// handleListHistory returns entries newest first, limited by ?limit=.
func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	sessionID, err := middleware.GetSessionID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	limit := defaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxHistoryLimit {
			s.writeError(w, r, &ErrValidation{Field: "limit", Message: fmt.Sprintf("limit must be between 1 and %d", maxHistoryLimit)})
			return
		}
		limit = n
	}

	stored, err := s.store.List(r.Context(), historyNamespace(sessionID))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	entries := make([]HistoryEntry, 0, len(stored))
	for _, e := range stored {
		var entry HistoryEntry
		if err := json.Unmarshal(e.Value, &entry); err != nil {
			s.log.WithError(err).WithField("key", e.Key).Warn("skipping unreadable history entry")
			continue
		}
		entries = append(entries, entry)
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].CreatedAt.After(entries[j].CreatedAt) })
	if len(entries) > limit {
		entries = entries[:limit]
	}
	s.successResponse(w, http.StatusOK, entries)
}
