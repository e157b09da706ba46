// Package resume detects the conventional sections of a plain-text resume.
package resume

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/ats-optimizer/internal/textnorm"
)

type section int

const (
	sectionHeader section = iota
	sectionSummary
	sectionCompetencies
	sectionExperience
	sectionEducation
	sectionLanguages
	sectionCertifications
)

// sectionTriggers is checked in order; the first section with a synonym
// contained in the lowercased line wins.
var sectionTriggers = []struct {
	section  section
	synonyms []string
}{
	{sectionSummary, []string{"professional summary", "summary", "profile", "objective", "about me"}},
	{sectionCompetencies, []string{"core competencies", "competencies", "skills", "key skills", "technical skills", "expertise"}},
	{sectionExperience, []string{"professional experience", "experience", "work history", "employment", "career history"}},
	{sectionEducation, []string{"education", "academic background", "qualifications", "academic qualifications"}},
	{sectionLanguages, []string{"languages", "language skills", "linguistic skills"}},
	{sectionCertifications, []string{"certifications", "certificates", "professional certifications", "licenses"}},
}

const (
	minSummaryLineLength  = 50
	maxCompetencyListLine = 200
)

var (
	namePattern        = regexp.MustCompile(`^[A-Z][A-Z\s]+$`)
	contactCharPattern = regexp.MustCompile(`[@\d+\-()]`)
	cityCountryPattern = regexp.MustCompile(`(?i)^[a-z]+,\s*[a-z]+`)
	singleWordPattern  = regexp.MustCompile(`(?i)^[a-z]+$`)
	pipeJobPattern     = regexp.MustCompile(`^[A-Z][a-z]+(\s+[A-Z][a-z]+)*\s*\|`)
	atJobPattern       = regexp.MustCompile(`(?i)^[a-z]+(\s+[a-z]+)*\s+at\s+`)
	atSeparator        = regexp.MustCompile(`(?i)\s+at\s+`)
	degreePattern      = regexp.MustCompile(`(?i)Bachelor|Master|Diploma|Degree|MBA|PhD|BSc|MSc`)
	languagePattern    = regexp.MustCompile(`(?i)[a-z]+\s*[-–]\s*[a-z]+`)
	acronymPattern     = regexp.MustCompile(`[A-Z]{2,}`)
)

// detector carries the scan state: the current section plus at most one
// open job and one open education record.
type detector struct {
	out       Sections
	current   section
	job       *Job
	education *Education
}

// DetectSections walks the non-empty trimmed lines of cleaned resume text
// top to bottom and buckets them into sections. Open job and education
// records are flushed when the next one starts and at end of input.
func DetectSections(text string) Sections {
	d := &detector{out: newSections(), current: sectionHeader}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if d.switchSection(line) {
			continue
		}
		d.consume(line)
	}

	d.flushJob()
	d.flushEducation()
	return d.out
}

// switchSection updates the current section when the line contains a
// header synonym. It reports true when the line is nothing but that header.
func (d *detector) switchSection(line string) bool {
	lower := strings.ToLower(line)
	for _, trigger := range sectionTriggers {
		for _, synonym := range trigger.synonyms {
			if !strings.Contains(lower, synonym) {
				continue
			}
			d.current = trigger.section
			return isBareHeading(lower, trigger.synonyms)
		}
	}
	return false
}

func isBareHeading(lower string, synonyms []string) bool {
	heading := strings.TrimSpace(strings.TrimRight(lower, ":"))
	for _, s := range synonyms {
		if heading == s {
			return true
		}
	}
	return false
}

func (d *detector) consume(line string) {
	switch d.current {
	case sectionHeader:
		d.header(line)
	case sectionSummary:
		if utf8.RuneCountInString(line) > minSummaryLineLength && !singleWordPattern.MatchString(line) {
			if d.out.ProfessionalSummary != "" {
				d.out.ProfessionalSummary += " "
			}
			d.out.ProfessionalSummary += line
		}
	case sectionCompetencies:
		d.competency(line)
	case sectionExperience:
		d.experience(line)
	case sectionEducation:
		d.educationLine(line)
	case sectionLanguages:
		if languagePattern.MatchString(line) {
			d.out.Languages = append(d.out.Languages, line)
		}
	case sectionCertifications:
		if textnorm.IsBulletLine(line) || acronymPattern.MatchString(line) {
			d.out.Certifications = append(d.out.Certifications, textnorm.StripBullet(line))
		}
	}
}

func (d *detector) header(line string) {
	if d.out.Header.Name == "" && namePattern.MatchString(line) {
		d.out.Header.Name = line
		return
	}
	if contactCharPattern.MatchString(line) || cityCountryPattern.MatchString(line) {
		d.out.Header.Contact = append(d.out.Header.Contact, line)
	}
}

func (d *detector) competency(line string) {
	if textnorm.IsBulletLine(line) {
		d.out.CoreCompetencies = append(d.out.CoreCompetencies, textnorm.StripBullet(line))
		return
	}
	if strings.Contains(line, ",") && utf8.RuneCountInString(line) < maxCompetencyListLine {
		for _, item := range strings.Split(line, ",") {
			if item = strings.TrimSpace(item); item != "" {
				d.out.CoreCompetencies = append(d.out.CoreCompetencies, item)
			}
		}
	}
}

func (d *detector) experience(line string) {
	if pipeJobPattern.MatchString(line) || atJobPattern.MatchString(line) {
		d.flushJob()
		d.job = parseJobLine(line)
		return
	}
	if textnorm.IsBulletLine(line) && d.job != nil {
		d.job.Bullets = append(d.job.Bullets, textnorm.StripBullet(line))
	}
}

// parseJobLine maps "Title | Company, Location | Dates" positionally.
// Lines without pipes are read as "Title at Company, Location".
func parseJobLine(line string) *Job {
	job := &Job{Bullets: []string{}}

	if strings.Contains(line, "|") {
		parts := strings.Split(line, "|")
		job.Title = strings.TrimSpace(parts[0])
		if len(parts) > 1 {
			job.Company, job.Location = splitCompany(parts[1])
		}
		if len(parts) > 2 {
			job.Dates = strings.TrimSpace(parts[2])
		}
		return job
	}

	parts := atSeparator.Split(line, 2)
	job.Title = strings.TrimSpace(parts[0])
	if len(parts) > 1 {
		job.Company, job.Location = splitCompany(parts[1])
	}
	return job
}

func splitCompany(s string) (company, location string) {
	pieces := strings.Split(s, ",")
	company = strings.TrimSpace(pieces[0])
	if len(pieces) > 1 {
		location = strings.TrimSpace(pieces[1])
	}
	return company, location
}

func (d *detector) educationLine(line string) {
	if degreePattern.MatchString(line) {
		d.flushEducation()
		d.education = &Education{Degree: line}
		return
	}
	if d.education != nil && d.education.Institution == "" {
		d.education.Institution = line
	}
}

func (d *detector) flushJob() {
	if d.job != nil {
		d.out.ProfessionalExperience = append(d.out.ProfessionalExperience, *d.job)
		d.job = nil
	}
}

func (d *detector) flushEducation() {
	if d.education != nil {
		d.out.Education = append(d.out.Education, *d.education)
		d.education = nil
	}
}
