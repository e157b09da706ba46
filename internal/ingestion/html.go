package ingestion

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/ats-optimizer/internal/fetch"
	"github.com/jonathan/ats-optimizer/internal/textnorm"
)

// Field patterns run over the page text in order; the first hit wins. The
// quoted forms catch JSON blobs that some boards inline as visible text.
var (
	htmlTitlePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)jobtitle["\s:]+([^"<>\n]+)`),
		regexp.MustCompile(`(?i)"title"["\s:]+["']([^"']+)["']`),
		regexp.MustCompile(`(?i)\bposition[^:\n]*:\s*([^\n]+)`),
		regexp.MustCompile(`(?i)\bjob\s*title[^:\n]*:\s*([^\n]+)`),
	}
	htmlCompanyPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)company["\s:]+["']([^"']+)["']`),
		regexp.MustCompile(`(?i)"companyName"["\s:]+["']([^"']+)["']`),
		regexp.MustCompile(`(?i)\bcompany\s*name[^:\n]*:\s*([^\n]+)`),
		regexp.MustCompile(`(?i)\bemployer[^:\n]*:\s*([^\n]+)`),
	}
	htmlLocationPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)location["\s:]+["']([^"']+)["']`),
		regexp.MustCompile(`(?i)"jobLocation"["\s:]+["']([^"']+)["']`),
		regexp.MustCompile(`(?i)\blocation[^:\n]*:\s*([^\n]+)`),
	}
)

// blockElements end a line of text.
var blockElements = map[string]bool{
	"p": true, "div": true, "section": true, "article": true, "main": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"ul": true, "ol": true, "tr": true, "table": true, "dd": true, "dt": true,
}

var horizontalSpace = regexp.MustCompile(`[ \t\f\v\x{00A0}]+`)

// ExtractFromHTML builds a posting from a job page. Structured JobPosting
// data wins when present; otherwise fields come from the visible text and
// finally from the first <h1>.
func ExtractFromHTML(html, sourceURL string) *Posting {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		// The HTML parser is lenient; this only fails on reader errors.
		return ExtractFromText(html)
	}

	structured := structuredJobPosting(doc)

	doc.Find("head, script, style, noscript, template, nav, header, footer").Remove()
	text := HTMLToText(doc.Selection)

	title := structured.title
	if title == "" {
		title = firstMatch(htmlTitlePatterns, text)
	}
	if title == "" {
		title = strings.TrimSpace(doc.Find("h1").First().Text())
	}

	company := structured.company
	if company == "" {
		company = firstMatch(htmlCompanyPatterns, text)
	}

	location := structured.location
	if location == "" {
		location = firstMatch(htmlLocationPatterns, text)
	}

	cleaned := textnorm.CleanJobText(text)
	p := &Posting{
		JobTitle:    orDefault(title, TitleNotFound),
		Company:     orDefault(company, CompanyNotFound),
		Location:    location,
		Description: cleaned,
		RawText:     cleaned,
		Source:      sourceURL,
	}
	if sourceURL != "" {
		p.Platform = string(fetch.DetectPlatform(sourceURL))
	}
	fillSections(p, cleaned)
	return p
}

// HTMLToText renders a selection as plain text. Line breaks come from <br>,
// paragraph and block ends and list items; list items are prefixed with "•".
// Entities are decoded by the parser.
func HTMLToText(sel *goquery.Selection) string {
	var sb strings.Builder
	writeText(&sb, sel)

	lines := strings.Split(sb.String(), "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(horizontalSpace.ReplaceAllString(line, " "))
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

func writeText(sb *strings.Builder, sel *goquery.Selection) {
	sel.Contents().Each(func(_ int, s *goquery.Selection) {
		switch name := goquery.NodeName(s); {
		case name == "#text":
			sb.WriteString(s.Text())
		case name == "#comment":
		case name == "br":
			sb.WriteString("\n")
		case name == "li":
			sb.WriteString("\n• ")
			writeText(sb, s)
			sb.WriteString("\n")
		case blockElements[name]:
			sb.WriteString("\n")
			writeText(sb, s)
			sb.WriteString("\n")
		default:
			sb.WriteString(" ")
			writeText(sb, s)
			sb.WriteString(" ")
		}
	})
}

type structuredFields struct {
	title    string
	company  string
	location string
}

// structuredJobPosting reads schema.org JobPosting data from JSON-LD blocks.
func structuredJobPosting(doc *goquery.Document) structuredFields {
	var out structuredFields
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var data any
		if err := json.Unmarshal([]byte(s.Text()), &data); err != nil {
			return true
		}
		posting := findJobPosting(data)
		if posting == nil {
			return true
		}
		out.title = stringField(posting["title"])
		out.company = organizationName(posting["hiringOrganization"])
		out.location = jobLocation(posting["jobLocation"])
		return false
	})
	return out
}

func findJobPosting(v any) map[string]any {
	switch node := v.(type) {
	case []any:
		for _, item := range node {
			if found := findJobPosting(item); found != nil {
				return found
			}
		}
	case map[string]any:
		if hasType(node["@type"], "JobPosting") {
			return node
		}
		if graph, ok := node["@graph"]; ok {
			return findJobPosting(graph)
		}
	}
	return nil
}

func hasType(v any, want string) bool {
	switch t := v.(type) {
	case string:
		return t == want
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok && s == want {
				return true
			}
		}
	}
	return false
}

func stringField(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func organizationName(v any) string {
	switch org := v.(type) {
	case string:
		return strings.TrimSpace(org)
	case map[string]any:
		return stringField(org["name"])
	}
	return ""
}

func jobLocation(v any) string {
	switch loc := v.(type) {
	case []any:
		if len(loc) > 0 {
			return jobLocation(loc[0])
		}
	case map[string]any:
		address, ok := loc["address"].(map[string]any)
		if !ok {
			return stringField(loc["name"])
		}
		var parts []string
		for _, key := range []string{"addressLocality", "addressRegion", "addressCountry"} {
			part := stringField(address[key])
			if part == "" {
				part = organizationName(address[key])
			}
			if part != "" {
				parts = append(parts, part)
			}
		}
		return strings.Join(parts, ", ")
	}
	return ""
}
