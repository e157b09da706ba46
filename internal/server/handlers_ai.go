package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/jonathan/ats-optimizer/internal/assistant"
	"github.com/jonathan/ats-optimizer/internal/llm"
	"github.com/jonathan/ats-optimizer/internal/server/middleware"
	"github.com/jonathan/ats-optimizer/internal/store"
)

// AIRequest is the body of POST /ai.
type AIRequest struct {
	Action   string          `json:"action" validate:"required"`
	Data     assistant.Input `json:"data"`
	Provider string          `json:"provider,omitempty"`
	APIKey   string          `json:"apiKey,omitempty"`
	Model    string          `json:"model,omitempty"`
}

// apiKeySetting is the settings key holding a session's key for a provider.
func apiKeySetting(provider string) string {
	return "apiKey:" + strings.ToLower(provider)
}

// handleAI runs an assistant action with the requested provider, or with the
// server default key when no provider is given.
func (s *Server) handleAI(w http.ResponseWriter, r *http.Request) {
	var req AIRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.writeError(w, r, &ErrValidation{Field: "action", Message: "action is required"})
		return
	}

	client, err := s.clientFor(r, req.Provider, req.APIKey, req.Model)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defer client.Close()

	log := s.log.WithFields(logrus.Fields{
		"action":     req.Action,
		"provider":   req.Provider,
		"model":      client.GetModel(llm.TierStandard),
		"request_id": middleware.GetRequestID(r.Context()),
	})
	log.Info("running assistant action")

	result, err := assistant.New(client).Run(r.Context(), assistant.Action(req.Action), req.Data)
	if err != nil {
		log.WithError(err).Warn("assistant action failed")
		s.writeError(w, r, err)
		return
	}
	s.successResponse(w, http.StatusOK, result)
}

// clientFor resolves credentials and builds a client. A named provider needs
// a key from the request or the session settings; no provider falls back to
// the server's Gemini key.
func (s *Server) clientFor(r *http.Request, provider, apiKey, model string) (llm.Client, error) {
	provider = strings.TrimSpace(provider)

	if provider == "" {
		key := s.config.ProviderAPIKey(string(llm.ProviderGemini))
		if key == "" {
			return nil, &ErrProviderNotConfigured{}
		}
		return s.newClient(r.Context(), llm.ProviderGemini, key, s.config.LLM.Model)
	}

	if apiKey == "" {
		apiKey = s.sessionAPIKey(r.Context(), r, provider)
	}
	if apiKey == "" {
		return nil, &ErrProviderNotConfigured{Provider: provider}
	}

	p, err := llm.ParseProvider(provider)
	if err != nil {
		return nil, err
	}
	return s.newClient(r.Context(), p, apiKey, model)
}

// sessionAPIKey reads the provider key stored in the caller's settings. Any
// failure yields "".
func (s *Server) sessionAPIKey(ctx context.Context, r *http.Request, provider string) string {
	if s.jwtService == nil {
		return ""
	}
	token, ok := middleware.BearerToken(r)
	if !ok {
		return ""
	}
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		return ""
	}

	raw, err := s.store.Get(ctx, settingsNamespace(claims.SessionID), apiKeySetting(provider))
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.log.WithError(err).Warn("failed to read stored API key")
		}
		return ""
	}

	var key string
	if err := json.Unmarshal(raw, &key); err != nil {
		return ""
	}
	return strings.TrimSpace(key)
}
