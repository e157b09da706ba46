// Package ingestion turns job posting HTML, URLs and pasted text into
// structured postings.
package ingestion

// Defaults used when a field cannot be extracted. The HTML and pasted-text
// paths use different wording, matching what users of each path see.
const (
	TitleNotFound       = "Position Title Not Found"
	CompanyNotFound     = "Company Not Found"
	TitleNotSpecified   = "Position Not Specified"
	CompanyNotSpecified = "Company Not Specified"
	TitleUnavailable    = "Unable to extract"
	CompanyUnavailable  = "Unknown"
)

// Posting is a structured job posting.
type Posting struct {
	JobTitle         string   `json:"jobTitle"`
	Company          string   `json:"company"`
	Location         string   `json:"location"`
	Description      string   `json:"description"`
	Responsibilities string   `json:"responsibilities"`
	Requirements     string   `json:"requirements"`
	Skills           string   `json:"skills"`
	Benefits         string   `json:"benefits"`
	Keywords         []string `json:"keywords"`
	RawText          string   `json:"rawText"`
	Source           string   `json:"source,omitempty"`
	Platform         string   `json:"platform,omitempty"`
}

// failedPosting is returned when a URL could not be scraped. It is a valid
// posting whose description tells the user what went wrong.
func failedPosting(sourceURL string, err error) *Posting {
	return &Posting{
		JobTitle:    TitleUnavailable,
		Company:     CompanyUnavailable,
		Description: "Failed to scrape URL. Please paste the job description manually. Error: " + err.Error(),
		Keywords:    []string{},
		Source:      sourceURL,
	}
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
