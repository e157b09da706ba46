package ingestion

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jonathan/ats-optimizer/internal/fetch"
	"github.com/jonathan/ats-optimizer/internal/logging"
)

// URLOptions controls how IngestFromURL retrieves a page.
type URLOptions struct {
	// Fetcher serves pages, optionally from cache. Nil fetches directly.
	Fetcher *fetch.CachedFetcher
	// FetchOptions applies when Fetcher is nil.
	FetchOptions *fetch.Options
	// UseBrowser re-renders thin pages with headless Chrome.
	UseBrowser     bool
	BrowserTimeout time.Duration
}

// IngestFromURL fetches a job page and extracts a posting from it. It never
// returns an error: fetch failures produce a posting whose description
// explains the failure.
func IngestFromURL(ctx context.Context, urlStr string, opts *URLOptions) *Posting {
	if opts == nil {
		opts = &URLOptions{}
	}

	platform := fetch.DetectPlatform(urlStr)
	log := logging.Get().WithFields(logrus.Fields{"url": urlStr, "platform": platform})

	html, err := fetchHTML(ctx, urlStr, opts)
	if err != nil {
		log.WithError(err).Warn("job page fetch failed")
		return failedPosting(urlStr, err)
	}
	log.WithField("bytes", len(html)).Debug("fetched job page")

	if opts.UseBrowser {
		text, _ := fetch.ExtractMainText(html, fetch.PlatformContentSelectors(platform), fetch.PlatformNoiseSelectors(platform)...)
		if fetch.ShouldUseBrowser(text) {
			timeout := opts.BrowserTimeout
			if timeout <= 0 {
				timeout = fetch.DefaultBrowserTimeout
			}
			log.WithField("chars", len(text)).Info("page content too short, rendering with browser")
			if rendered, err := fetch.WithBrowser(ctx, urlStr, timeout); err != nil {
				log.WithError(err).Warn("browser rendering failed, using HTTP content")
			} else {
				html = rendered
			}
		}
	}

	posting := ExtractFromHTML(html, urlStr)
	log.WithFields(logrus.Fields{"title": posting.JobTitle, "company": posting.Company}).Info("extracted job posting")
	return posting
}

func fetchHTML(ctx context.Context, urlStr string, opts *URLOptions) (string, error) {
	if opts.Fetcher != nil {
		result, err := opts.Fetcher.Fetch(ctx, urlStr)
		if err != nil {
			return "", err
		}
		return result.HTML, nil
	}

	result, err := fetch.URL(ctx, urlStr, opts.FetchOptions)
	if err != nil {
		return "", err
	}
	return result.HTML, nil
}
