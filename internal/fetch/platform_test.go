package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectPlatform(t *testing.T) {
	tests := []struct {
		url      string
		expected Platform
	}{
		{"https://www.linkedin.com/jobs/view/3812345678", PlatformLinkedIn},
		{"https://ae.indeed.com/viewjob?jk=abc123", PlatformIndeed},
		{"https://uk.indeed.co.uk/viewjob?jk=abc123", PlatformIndeed},
		{"https://www.glassdoor.com/job-listing/agent-JV_123.htm", PlatformGlassdoor},
		{"https://www.glassdoor.co.uk/job-listing/agent-JV_123.htm", PlatformGlassdoor},
		{"https://www.monster.com/job-openings/cabin-crew", PlatformMonster},
		{"https://job-boards.greenhouse.io/doordashusa/jobs/7063751", PlatformGreenhouse},
		{"https://boards.greenhouse.io/company/jobs/123", PlatformGreenhouse},
		{"https://jobs.lever.co/company/job-id", PlatformLever},
		{"https://company.wd5.myworkdayjobs.com/en-US/External", PlatformWorkday},
		{"https://careers.emirates.com/job/123", PlatformUnknown},
		{"://bad url", PlatformUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectPlatform(tt.url))
		})
	}
}

func TestPlatformContentSelectors(t *testing.T) {
	assert.Contains(t, PlatformContentSelectors(PlatformLinkedIn), ".show-more-less-html__markup")
	assert.Contains(t, PlatformContentSelectors(PlatformIndeed), "#jobDescriptionText")
	assert.Contains(t, PlatformContentSelectors(PlatformGreenhouse), ".job__description")
	assert.Equal(t, JobPostingSelectors(), PlatformContentSelectors(PlatformUnknown))
}

func TestPlatformNoiseSelectors(t *testing.T) {
	common := PlatformNoiseSelectors(PlatformUnknown)
	assert.Contains(t, common, "form")
	assert.Contains(t, common, ".cookie-consent")

	for _, p := range []Platform{PlatformLinkedIn, PlatformIndeed, PlatformGlassdoor, PlatformGreenhouse, PlatformLever, PlatformWorkday} {
		selectors := PlatformNoiseSelectors(p)
		assert.Greater(t, len(selectors), len(common), "platform %s", p)
		assert.Subset(t, selectors, common)
	}
}

func TestShouldUseBrowser(t *testing.T) {
	assert.True(t, ShouldUseBrowser("   Loading...   "))
	long := make([]byte, MinContentLength)
	for i := range long {
		long[i] = 'a'
	}
	assert.False(t, ShouldUseBrowser(string(long)))
}
