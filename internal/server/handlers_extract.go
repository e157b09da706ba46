package server

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/jonathan/ats-optimizer/internal/assistant"
	"github.com/jonathan/ats-optimizer/internal/documents"
	"github.com/jonathan/ats-optimizer/internal/resume"
	"github.com/jonathan/ats-optimizer/internal/server/middleware"
)

// ExtractTextRequest is the JSON form of POST /extract-resume.
type ExtractTextRequest struct {
	Text string `json:"text" validate:"required"`
}

// ExtractResponse is the data of POST /extract-resume.
type ExtractResponse struct {
	*resume.Extraction
	Method string `json:"method"`
}

// handleExtractResume reads an uploaded resume file (multipart field "file")
// or pasted text (JSON {"text": ...}) and detects its sections.
func (s *Server) handleExtractResume(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		s.extractUpload(w, r)
		return
	}

	var req ExtractTextRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.writeError(w, r, &ErrValidation{Field: "text", Message: "No file provided"})
		return
	}
	s.successResponse(w, http.StatusOK, ExtractResponse{Extraction: resume.Extract(req.Text), Method: documents.MethodPlain})
}

func (s *Server) extractUpload(w http.ResponseWriter, r *http.Request) {
	maxBytes := int64(s.config.Server.MaxUploadMB) << 20
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, r, err)
			return
		}
		s.writeError(w, r, &ErrValidation{Field: "file", Message: "Invalid upload: " + err.Error()})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, r, &ErrValidation{Field: "file", Message: "No file provided"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var vision documents.VisionExtractor
	kind, err := documents.DetectKind(header.Filename, header.Header.Get("Content-Type"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if kind == documents.KindPDF || kind == documents.KindImage {
		client, err := s.clientFor(r, r.FormValue("provider"), r.FormValue("apiKey"), r.FormValue("model"))
		var notConfigured *ErrProviderNotConfigured
		switch {
		case err == nil:
			defer client.Close()
			vision = assistant.New(client)
		case errors.As(err, &notConfigured):
			// PDFs with a text layer do not need a model.
		default:
			s.writeError(w, r, err)
			return
		}
	}

	doc, err := documents.Extract(r.Context(), header.Filename, header.Header.Get("Content-Type"), data, vision)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.log.WithFields(logrus.Fields{
		"file":       header.Filename,
		"kind":       doc.Kind,
		"method":     doc.Method,
		"bytes":      len(data),
		"request_id": middleware.GetRequestID(r.Context()),
	}).Info("extracted resume")

	s.successResponse(w, http.StatusOK, ExtractResponse{Extraction: resume.Extract(doc.Text), Method: doc.Method})
}
