package fetch

import (
	"net/url"
	"strings"
)

// Platform represents a known job board.
type Platform string

// Known platforms.
const (
	PlatformLinkedIn   Platform = "linkedin"
	PlatformIndeed     Platform = "indeed"
	PlatformGlassdoor  Platform = "glassdoor"
	PlatformMonster    Platform = "monster"
	PlatformGreenhouse Platform = "greenhouse"
	PlatformLever      Platform = "lever"
	PlatformWorkday    Platform = "workday"
	PlatformUnknown    Platform = "unknown"
)

var platformHosts = []struct {
	platform Platform
	hosts    []string
}{
	{PlatformLinkedIn, []string{"linkedin.com"}},
	{PlatformIndeed, []string{"indeed.com", "indeed.co"}},
	{PlatformGlassdoor, []string{"glassdoor."}},
	{PlatformMonster, []string{"monster.com", "monster.co"}},
	{PlatformGreenhouse, []string{"greenhouse.io"}},
	{PlatformLever, []string{"lever.co"}},
	{PlatformWorkday, []string{"workday.com", "myworkdayjobs.com"}},
}

// DetectPlatform identifies the job board from a URL's host.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}

	host := strings.ToLower(parsed.Host)
	for _, p := range platformHosts {
		for _, h := range p.hosts {
			if strings.Contains(host, h) {
				return p.platform
			}
		}
	}
	return PlatformUnknown
}

// PlatformContentSelectors returns content selectors for a platform, most
// specific first.
func PlatformContentSelectors(platform Platform) []string {
	switch platform {
	case PlatformLinkedIn:
		return []string{
			".show-more-less-html__markup",
			".description__text",
			".jobs-description__content",
			".decorated-job-posting__details",
		}
	case PlatformIndeed:
		return []string{
			"#jobDescriptionText",
			".jobsearch-JobComponent-description",
			".jobsearch-jobDescriptionText",
		}
	case PlatformGlassdoor:
		return []string{
			"[class*='JobDetails_jobDescription']",
			".jobDescriptionContent",
			"#JobDescriptionContainer",
		}
	case PlatformMonster:
		return []string{
			"[data-testid='svx-description-container-inner']",
			".job-description",
			"#JobDescription",
		}
	case PlatformGreenhouse:
		return []string{
			".job__description.body",
			".job__description",
			".job-description__content",
			"#content",
			".job-post-container",
		}
	case PlatformLever:
		return []string{
			".posting-page",
			".section-wrapper.page-full-width",
			".posting-description",
			".content",
		}
	case PlatformWorkday:
		return []string{
			"[data-automation-id='jobPostingDescription']",
			"[data-automation-id='jobDescription']",
			".job-description",
		}
	default:
		return JobPostingSelectors()
	}
}

// PlatformNoiseSelectors returns elements to drop before text extraction.
func PlatformNoiseSelectors(platform Platform) []string {
	common := []string{
		"form",
		"#application-form",
		".application-form",
		".apply-button-container",
		".eeo-statement",
		".legal-disclosure",
		".social-share",
		".share-buttons",
		".cookie-banner",
		".cookie-consent",
		".gdpr-notice",
	}

	switch platform {
	case PlatformLinkedIn:
		return append(common,
			".sign-in-modal",
			".contextual-sign-in-modal",
			".similar-jobs",
			".people-also-viewed",
		)
	case PlatformIndeed:
		return append(common,
			"#jobsearch-ViewJobButtons-container",
			".jobsearch-RelatedLinks",
		)
	case PlatformGlassdoor:
		return append(common,
			"#HardsellOverlay",
			".modal_main",
		)
	case PlatformGreenhouse:
		return append(common,
			".application--wrapper",
			".voluntary-self-id",
			"#usa_self_id_section",
		)
	case PlatformLever:
		return append(common,
			".apply-section",
			".posting-apply",
		)
	case PlatformWorkday:
		return append(common,
			"[data-automation-id='applyButton']",
			".application-section",
		)
	default:
		return common
	}
}
