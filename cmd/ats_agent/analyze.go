package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/ats-optimizer/internal/keywords"
	"github.com/jonathan/ats-optimizer/internal/observability"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Compare resume keywords with a job description",
	Long: "Extract keywords from a job description, categorize them and report which appear in the resume, " +
		"with match percentage, density and recommendations. The resume may be TXT, DOCX or PDF.",
	RunE: runAnalyze,
}

var (
	analyzeJobFile    string
	analyzeResumeFile string
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeJobFile, "job-file", "j", "", "Path to job description text, or - for stdin (required)")
	analyzeCmd.Flags().StringVarP(&analyzeResumeFile, "resume-file", "r", "", "Path to resume file (required)")

	_ = analyzeCmd.MarkFlagRequired("job-file")
	_ = analyzeCmd.MarkFlagRequired("resume-file")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	job, err := readText(analyzeJobFile, cmd.InOrStdin())
	if err != nil {
		return err
	}

	doc, err := readDocument(cmd.Context(), analyzeResumeFile, "", "", "")
	if err != nil {
		return fmt.Errorf("failed to read resume: %w", err)
	}

	report := keywords.Analyze(job, doc.Text)
	if verbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintKeywordReport(report)
	}
	return writeJSON(cmd.OutOrStdout(), report)
}
