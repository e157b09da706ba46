package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/ats-optimizer/internal/assistant"
	"github.com/jonathan/ats-optimizer/internal/documents"
	"github.com/jonathan/ats-optimizer/internal/llm"
	"github.com/jonathan/ats-optimizer/internal/store"
)

// ErrValidation reports a bad request. Message is shown to the client as is.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return e.Message
}

// ErrProviderNotConfigured means no API key is available for a model call.
// An empty Provider means the server default was requested.
type ErrProviderNotConfigured struct {
	Provider string
}

func (e *ErrProviderNotConfigured) Error() string {
	if e.Provider == "" {
		return "No API key configured. Please add your API key in Settings or configure GEMINI_API_KEY on the server."
	}
	return fmt.Sprintf("No API key provided for %s. Please add your %s API key in Settings.", e.Provider, e.Provider)
}

// ErrSessionsDisabled is returned by session endpoints when no signing
// secret is configured.
var ErrSessionsDisabled = errors.New("sessions are not enabled on this server")

// HTTPStatus returns the HTTP status code for an error.
func HTTPStatus(err error) int {
	var (
		validation    *ErrValidation
		notConfigured *ErrProviderNotConfigured
		unsupported   *documents.UnsupportedTypeError
		unknownAction *assistant.UnknownActionError
		badProvider   *llm.UnsupportedProviderError
		noVision      *llm.VisionUnsupportedError
		providerErr   *llm.ProviderError
		tooLarge      *http.MaxBytesError
	)

	switch {
	case errors.As(err, &validation),
		errors.As(err, &notConfigured),
		errors.As(err, &unsupported),
		errors.As(err, &unknownAction),
		errors.As(err, &badProvider),
		errors.As(err, &noVision),
		errors.Is(err, documents.ErrVisionUnavailable),
		errors.Is(err, assistant.ErrMissingInput),
		errors.Is(err, assistant.ErrMissingFile),
		errors.Is(err, assistant.ErrInvalidDocument),
		errors.Is(err, llm.ErrMissingAPIKey):
		return http.StatusBadRequest
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, documents.ErrNoText):
		return http.StatusUnprocessableEntity
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrSessionsDisabled):
		return http.StatusServiceUnavailable
	case errors.As(err, &providerErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
