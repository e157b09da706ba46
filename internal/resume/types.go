package resume

// Header holds the candidate name and contact lines found before the first section.
type Header struct {
	Name    string   `json:"name"`
	Contact []string `json:"contact"`
}

// Job is one professional experience entry
type Job struct {
	Title    string   `json:"title"`
	Company  string   `json:"company"`
	Location string   `json:"location"`
	Dates    string   `json:"dates"`
	Bullets  []string `json:"bullets"`
}

// Education is one degree entry
type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Location    string `json:"location"`
	Dates       string `json:"dates"`
}

// Sections is the structured view of a resume produced by DetectSections.
type Sections struct {
	Header                 Header      `json:"header"`
	ProfessionalSummary    string      `json:"professionalSummary"`
	CoreCompetencies       []string    `json:"coreCompetencies"`
	ProfessionalExperience []Job       `json:"professionalExperience"`
	Education              []Education `json:"education"`
	Languages              []string    `json:"languages"`
	Certifications         []string    `json:"certifications"`
	Skills                 []string    `json:"skills"`
}

// Extraction is the result of processing an uploaded or pasted resume.
type Extraction struct {
	RawText        string   `json:"rawText"`
	CleanedText    string   `json:"cleanedText"`
	Sections       Sections `json:"sections"`
	WordCount      int      `json:"wordCount"`
	CharacterCount int      `json:"characterCount"`
}

func newSections() Sections {
	return Sections{
		Header:                 Header{Contact: []string{}},
		CoreCompetencies:       []string{},
		ProfessionalExperience: []Job{},
		Education:              []Education{},
		Languages:              []string{},
		Certifications:         []string{},
		Skills:                 []string{},
	}
}
