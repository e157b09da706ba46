package ingestion

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractFromHTML_StructuredData(t *testing.T) {
	html := `<html><head>
<script type="application/ld+json">
{"@context":"https://schema.org","@graph":[
  {"@type":"Organization","name":"Ignored"},
  {"@type":"JobPosting","title":"Flight Attendant",
   "hiringOrganization":{"@type":"Organization","name":"Skyline Air"},
   "jobLocation":{"@type":"Place","address":{"addressLocality":"Doha","addressCountry":"QA"}}}
]}
</script></head>
<body><h1>Careers at Skyline</h1><p>Position: Something Else</p></body></html>`

	p := ExtractFromHTML(html, "https://boards.greenhouse.io/skyline/jobs/1")

	assert.Equal(t, "Flight Attendant", p.JobTitle)
	assert.Equal(t, "Skyline Air", p.Company)
	assert.Equal(t, "Doha, QA", p.Location)
	assert.Equal(t, "greenhouse", p.Platform)
	assert.NotContains(t, p.Description, "schema.org")
}

func TestExtractFromHTML_Patterns(t *testing.T) {
	html := `<html><body>
<h1>Header Title</h1>
<div>Job Title: Ground Steward</div>
<div>Employer: Skyline Air</div>
<div>Location: Abu Dhabi</div>
</body></html>`

	p := ExtractFromHTML(html, "")

	assert.Equal(t, "Ground Steward", p.JobTitle)
	assert.Equal(t, "Skyline Air", p.Company)
	assert.Equal(t, "Abu Dhabi", p.Location)
	assert.Empty(t, p.Platform)
}

func TestExtractFromHTML_Fallbacks(t *testing.T) {
	t.Run("first h1", func(t *testing.T) {
		p := ExtractFromHTML(`<html><body><h1> Lounge Host </h1><h1>Other</h1><p>Welcome guests.</p></body></html>`, "")

		assert.Equal(t, "Lounge Host", p.JobTitle)
		assert.Equal(t, CompanyNotFound, p.Company)
		assert.Equal(t, "", p.Location)
	})

	t.Run("nothing found", func(t *testing.T) {
		p := ExtractFromHTML(`<html><body><p>Welcome guests.</p></body></html>`, "")

		assert.Equal(t, TitleNotFound, p.JobTitle)
		assert.Equal(t, CompanyNotFound, p.Company)
		assert.Equal(t, "Welcome guests.", p.Description)
	})
}

func TestExtractFromHTML_DropsChrome(t *testing.T) {
	html := `<html><head><style>p { color: red }</style></head><body>
<header>Site header</header>
<nav>Menu</nav>
<p>Role overview</p>
<script>track()</script>
<footer>Copyright</footer>
</body></html>`

	p := ExtractFromHTML(html, "")

	assert.Equal(t, "Role overview", p.Description)
}

func TestHTMLToText(t *testing.T) {
	html := `<div><p>Hello&nbsp;&amp; welcome</p>Line one<br>Line two
<ul><li>First <b>bold</b> item</li><li>Second</li></ul><!-- hidden --><span>tail</span></div>`

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)

	got := HTMLToText(doc.Selection)

	assert.Equal(t, "Hello & welcome\nLine one\nLine two\n• First bold item\n• Second\ntail", got)
}
