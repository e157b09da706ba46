package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jonathan/ats-optimizer/internal/fetch"
	"github.com/jonathan/ats-optimizer/internal/ingestion"
	"github.com/jonathan/ats-optimizer/internal/logging"
	"github.com/jonathan/ats-optimizer/internal/observability"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Extract structured job postings from URLs or a text file",
	Long: "Fetch one or more job posting URLs (concurrently) or read a pasted job description, " +
		"and output the structured postings as JSON. With --out, each posting is written with its metadata.",
	RunE: runScrape,
}

var (
	scrapeURLs       []string
	scrapeTextFile   string
	scrapeOutDir     string
	scrapeUseBrowser bool
)

func init() {
	scrapeCmd.Flags().StringSliceVarP(&scrapeURLs, "url", "u", nil, "Job posting URL (repeatable)")
	scrapeCmd.Flags().StringVarP(&scrapeTextFile, "text-file", "t", "", "Path to job description text, or - for stdin")
	scrapeCmd.Flags().StringVarP(&scrapeOutDir, "out", "o", "", "Output directory for job_posting.json and metadata")
	scrapeCmd.Flags().BoolVar(&scrapeUseBrowser, "browser", false, "Render pages in headless Chrome when the HTML has little text")

	scrapeCmd.MarkFlagsMutuallyExclusive("url", "text-file")

	rootCmd.AddCommand(scrapeCmd)
}

func runScrape(cmd *cobra.Command, _ []string) error {
	if scrapeTextFile == "" && len(scrapeURLs) == 0 {
		return fmt.Errorf("either --text-file or --url must be provided")
	}

	var postings []*ingestion.Posting
	if scrapeTextFile != "" {
		text, err := readText(scrapeTextFile, cmd.InOrStdin())
		if err != nil {
			return err
		}
		postings = append(postings, ingestion.ExtractFromText(text))
	} else {
		postings = scrapeAll(cmd, scrapeURLs)
	}

	if verbose {
		printer := observability.NewPrinter(cmd.ErrOrStderr())
		for _, p := range postings {
			printer.PrintPosting(p)
		}
	}

	if scrapeOutDir != "" {
		for i, p := range postings {
			dir := scrapeOutDir
			if len(postings) > 1 {
				dir = filepath.Join(scrapeOutDir, strconv.Itoa(i+1))
			}
			if err := ingestion.WriteOutput(dir, p, ingestion.MetadataFor(p)); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", filepath.Join(dir, "job_posting.json"))
		}
		return nil
	}

	if len(postings) == 1 {
		return writeJSON(cmd.OutOrStdout(), postings[0])
	}
	return writeJSON(cmd.OutOrStdout(), postings)
}

// scrapeAll warms the page cache with a concurrent fetch, then builds each
// posting from the cached page. Failed URLs yield an explanatory posting.
func scrapeAll(cmd *cobra.Command, urls []string) []*ingestion.Posting {
	opts := fetch.DefaultOptions()
	if cfg.Fetch.TimeoutSeconds > 0 {
		opts.Timeout = time.Duration(cfg.Fetch.TimeoutSeconds) * time.Second
	}
	if cfg.Fetch.UserAgent != "" {
		opts.UserAgent = cfg.Fetch.UserAgent
	}

	cache, release := pageCache(cmd.Context())
	defer release()

	fetcher := fetch.NewCachedFetcher(cache, &fetch.CachedFetcherConfig{
		CacheTTL:    time.Duration(cfg.Fetch.CacheTTLMinutes) * time.Minute,
		Concurrency: fetch.DefaultConcurrency,
		Options:     opts,
	})

	_, errs := fetcher.FetchMultiple(cmd.Context(), urls)
	log := logging.Get()
	for i, err := range errs {
		if err != nil {
			log.WithError(err).WithField("url", urls[i]).Debug("prefetch failed")
		}
	}

	postings := make([]*ingestion.Posting, len(urls))
	for i, u := range urls {
		postings[i] = ingestion.IngestFromURL(cmd.Context(), u, &ingestion.URLOptions{
			Fetcher:    fetcher,
			UseBrowser: scrapeUseBrowser || cfg.Fetch.UseBrowser,
		})
	}
	log.WithFields(logrus.Fields{"urls": len(urls)}).Info("scraped job postings")
	return postings
}
