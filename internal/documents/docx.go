package documents

import (
	"archive/zip"
	"bytes"
	"fmt"
	"html"
	"io"
	"regexp"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

const documentXMLPath = "word/document.xml"

var (
	paragraphEnd = regexp.MustCompile(`</w:p>|<w:br\s*/>|<w:tab\s*/>`)
	textRun      = regexp.MustCompile(`<w:t(?:\s[^>]*)?>([^<]*)</w:t>`)
)

// DOCXText returns the text runs of a Word document, one line per
// paragraph.
func DOCXText(data []byte) (string, error) {
	xml, err := documentXML(data)
	if err != nil {
		return "", err
	}

	text := RunsText(xml)
	if strings.TrimSpace(text) == "" {
		return "", ErrNoText
	}
	return text, nil
}

// documentXML reads word/document.xml. Archives the docx reader rejects
// (missing relationship parts, for instance) are opened directly.
func documentXML(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err == nil {
		defer doc.Close()
		return doc.Editable().GetContent(), nil
	}

	archive, zipErr := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if zipErr != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	for _, f := range archive.File {
		if f.Name != documentXMLPath {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("failed to open %s: %w", documentXMLPath, err)
		}
		defer rc.Close()
		raw, err := io.ReadAll(rc)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", documentXMLPath, err)
		}
		return string(raw), nil
	}
	return "", fmt.Errorf("failed to parse docx: %w", err)
}

// RunsText collects the <w:t> runs of WordprocessingML. Paragraph ends and
// line breaks become newlines, tabs become spaces.
func RunsText(xml string) string {
	var lines []string
	var line strings.Builder

	flush := func() {
		if s := strings.TrimSpace(line.String()); s != "" {
			lines = append(lines, s)
		}
		line.Reset()
	}

	last := 0
	for _, loc := range paragraphEnd.FindAllStringIndex(xml, -1) {
		appendRuns(&line, xml[last:loc[0]])
		if strings.HasPrefix(xml[loc[0]:], "<w:tab") {
			line.WriteString(" ")
		} else {
			flush()
		}
		last = loc[1]
	}
	appendRuns(&line, xml[last:])
	flush()

	return strings.Join(lines, "\n")
}

func appendRuns(sb *strings.Builder, fragment string) {
	for _, m := range textRun.FindAllStringSubmatch(fragment, -1) {
		sb.WriteString(html.UnescapeString(m[1]))
	}
}
