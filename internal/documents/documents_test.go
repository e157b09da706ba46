package documents

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVision struct {
	text     string
	err      error
	mimeType string
	calls    int
}

func (f *fakeVision) ExtractDocument(_ context.Context, mimeType string, _ []byte) (string, error) {
	f.calls++
	f.mimeType = mimeType
	return f.text, f.err
}

const documentXMLBody = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>
<w:p><w:r><w:t>JANE</w:t></w:r><w:r><w:t xml:space="preserve"> DOE</w:t></w:r></w:p>
<w:p><w:r><w:t>Dubai</w:t></w:r><w:r><w:tab/><w:t>jane@example.com</w:t></w:r></w:p>
<w:p></w:p>
<w:p><w:r><w:t>Sales &amp; Service</w:t><w:br/><w:t>Cabin Crew</w:t></w:r></w:p>
</w:body></w:document>`

func buildDOCX(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func fullDOCX(t *testing.T) []byte {
	return buildDOCX(t, map[string]string{
		"[Content_Types].xml":          `<?xml version="1.0"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"></Types>`,
		"word/_rels/document.xml.rels": `<?xml version="1.0"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`,
		"word/document.xml":            documentXMLBody,
	})
}

func TestDetectKind(t *testing.T) {
	tests := []struct {
		filename string
		mimeType string
		want     Kind
	}{
		{"resume.TXT", "", KindText},
		{"notes.md", "", KindText},
		{"resume.pdf", "application/octet-stream", KindPDF},
		{"resume.docx", "", KindDOCX},
		{"scan.JPEG", "", KindImage},
		{"upload", "application/pdf", KindPDF},
		{"upload", "text/plain; charset=utf-8", KindText},
		{"upload", "image/png", KindImage},
		{"upload", mimeDOCX, KindDOCX},
	}

	for _, tt := range tests {
		t.Run(tt.filename+"|"+tt.mimeType, func(t *testing.T) {
			got, err := DetectKind(tt.filename, tt.mimeType)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectKind_Unsupported(t *testing.T) {
	_, err := DetectKind("resume.pages", "application/x-iwork")

	var unsupported *UnsupportedTypeError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "resume.pages", unsupported.Filename)
	assert.Contains(t, err.Error(), "use PDF, DOCX, TXT, or images")
}

func TestExtract_PlainText(t *testing.T) {
	doc, err := Extract(context.Background(), "resume.txt", "text/plain", []byte("\xef\xbb\xbfJANE DOE\nDubai"), nil)
	require.NoError(t, err)

	assert.Equal(t, KindText, doc.Kind)
	assert.Equal(t, MethodPlain, doc.Method)
	assert.Equal(t, "JANE DOE\nDubai", doc.Text)
}

func TestExtract_DOCX(t *testing.T) {
	doc, err := Extract(context.Background(), "resume.docx", "", fullDOCX(t), nil)
	require.NoError(t, err)

	assert.Equal(t, MethodDOCX, doc.Method)
	assert.Equal(t, mimeDOCX, doc.MimeType)
	assert.Equal(t, "JANE DOE\nDubai jane@example.com\nSales & Service\nCabin Crew", doc.Text)
}

func TestDOCXText_MinimalArchive(t *testing.T) {
	data := buildDOCX(t, map[string]string{"word/document.xml": documentXMLBody})

	text, err := DOCXText(data)
	require.NoError(t, err)
	assert.Contains(t, text, "Sales & Service")
}

func TestDOCXText_Errors(t *testing.T) {
	_, err := DOCXText([]byte("not a zip"))
	assert.ErrorContains(t, err, "failed to parse docx")

	empty := buildDOCX(t, map[string]string{"word/document.xml": `<w:document><w:body><w:p></w:p></w:body></w:document>`})
	_, err = DOCXText(empty)
	assert.ErrorIs(t, err, ErrNoText)
}

func TestRunsText(t *testing.T) {
	xml := `<w:p><w:r><w:t>One</w:t></w:r></w:p><w:p><w:r><w:t>Two</w:t><w:tab/><w:t>&quot;Three&quot;</w:t></w:r></w:p>`

	assert.Equal(t, "One\nTwo \"Three\"", RunsText(xml))
	assert.Equal(t, "", RunsText(""))
}

func TestExtract_ImageUsesVision(t *testing.T) {
	vision := &fakeVision{text: "JANE DOE"}

	doc, err := Extract(context.Background(), "scan.png", "", []byte{0x89, 'P', 'N', 'G'}, vision)
	require.NoError(t, err)

	assert.Equal(t, MethodVision, doc.Method)
	assert.Equal(t, "JANE DOE", doc.Text)
	assert.Equal(t, "image/png", vision.mimeType)
}

func TestExtract_VisionRequired(t *testing.T) {
	_, err := Extract(context.Background(), "scan.jpg", "image/jpeg", []byte("jpeg"), nil)
	assert.ErrorIs(t, err, ErrVisionUnavailable)
}

func TestExtract_VisionFailures(t *testing.T) {
	_, err := Extract(context.Background(), "scan.jpg", "", []byte("jpeg"), &fakeVision{err: errors.New("quota exceeded")})
	assert.ErrorContains(t, err, "quota exceeded")

	_, err = Extract(context.Background(), "scan.jpg", "", []byte("jpeg"), &fakeVision{text: "  "})
	assert.ErrorIs(t, err, ErrNoText)
}

func TestExtract_UnreadablePDF(t *testing.T) {
	t.Run("falls back to vision", func(t *testing.T) {
		vision := &fakeVision{text: "scanned text"}

		doc, err := Extract(context.Background(), "scan.pdf", "", []byte("garbage"), vision)
		require.NoError(t, err)
		assert.Equal(t, MethodVision, doc.Method)
		assert.Equal(t, mimePDF, vision.mimeType)
	})

	t.Run("no vision", func(t *testing.T) {
		_, err := Extract(context.Background(), "scan.pdf", "", []byte("garbage"), nil)
		assert.ErrorContains(t, err, "failed to read pdf")
	})
}
