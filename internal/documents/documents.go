// Package documents extracts plain text from uploaded resume files.
package documents

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jonathan/ats-optimizer/internal/logging"
)

// Kind is the detected document format.
type Kind string

const (
	KindText  Kind = "text"
	KindPDF   Kind = "pdf"
	KindDOCX  Kind = "docx"
	KindImage Kind = "image"
)

// Extraction methods reported in Document.Method.
const (
	MethodPlain  = "plain"
	MethodPDF    = "pdf"
	MethodDOCX   = "docx"
	MethodVision = "vision"
)

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

var extensionKinds = map[string]Kind{
	".txt":  KindText,
	".md":   KindText,
	".pdf":  KindPDF,
	".docx": KindDOCX,
	".png":  KindImage,
	".jpg":  KindImage,
	".jpeg": KindImage,
	".webp": KindImage,
}

var imageMimeTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".webp": "image/webp",
}

// ErrVisionUnavailable is returned when a document needs vision extraction
// and no extractor was supplied.
var ErrVisionUnavailable = errors.New("API key required for PDF/image extraction")

// ErrNoText is returned when a document parsed but contained no text.
var ErrNoText = errors.New("could not extract text from document, paste the resume text directly")

// UnsupportedTypeError reports a file whose format cannot be read.
type UnsupportedTypeError struct {
	Filename string
	MimeType string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported file format %q (%s): use PDF, DOCX, TXT, or images", e.Filename, e.MimeType)
}

// VisionExtractor reads the text out of an image or scanned document.
type VisionExtractor interface {
	ExtractDocument(ctx context.Context, mimeType string, data []byte) (string, error)
}

// Document is the text read from an uploaded file.
type Document struct {
	Kind     Kind   `json:"kind"`
	MimeType string `json:"mimeType"`
	Method   string `json:"method"`
	Text     string `json:"text"`
}

// DetectKind decides the format from the file extension, falling back to
// the declared MIME type.
func DetectKind(filename, mimeType string) (Kind, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if kind, ok := extensionKinds[ext]; ok {
		return kind, nil
	}

	mt := strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
	switch {
	case mt == "text/plain" || mt == "text/markdown":
		return KindText, nil
	case mt == mimePDF:
		return KindPDF, nil
	case mt == mimeDOCX:
		return KindDOCX, nil
	case strings.HasPrefix(mt, "image/"):
		return KindImage, nil
	}
	return "", &UnsupportedTypeError{Filename: filename, MimeType: mimeType}
}

// Extract reads the text of an uploaded file. PDFs without a text layer
// and images go through vision, which may be nil when no model is
// configured.
func Extract(ctx context.Context, filename, mimeType string, data []byte, vision VisionExtractor) (*Document, error) {
	kind, err := DetectKind(filename, mimeType)
	if err != nil {
		return nil, err
	}

	doc := &Document{Kind: kind, MimeType: resolveMimeType(kind, filename, mimeType)}
	log := logging.Get().WithField("file", filename).WithField("kind", kind)

	switch kind {
	case KindText:
		doc.Method = MethodPlain
		doc.Text = string(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf")))
		return doc, nil

	case KindDOCX:
		text, err := DOCXText(data)
		if err != nil {
			return nil, err
		}
		doc.Method = MethodDOCX
		doc.Text = text
		return doc, nil

	case KindPDF:
		text, err := PDFText(data)
		if err == nil && strings.TrimSpace(text) != "" {
			doc.Method = MethodPDF
			doc.Text = text
			return doc, nil
		}
		if vision == nil {
			if err != nil {
				return nil, err
			}
			return nil, ErrVisionUnavailable
		}
		log.WithError(err).Debug("pdf has no text layer, using vision extraction")
	}

	if vision == nil {
		return nil, ErrVisionUnavailable
	}
	text, err := vision.ExtractDocument(ctx, doc.MimeType, data)
	if err != nil {
		return nil, fmt.Errorf("vision extraction failed: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrNoText
	}
	doc.Method = MethodVision
	doc.Text = text
	return doc, nil
}

func resolveMimeType(kind Kind, filename, declared string) string {
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	switch kind {
	case KindPDF:
		return mimePDF
	case KindDOCX:
		return mimeDOCX
	case KindImage:
		if mt, ok := imageMimeTypes[strings.ToLower(filepath.Ext(filename))]; ok {
			return mt
		}
	}
	return "text/plain"
}
