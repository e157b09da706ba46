package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/ats-optimizer/internal/observability"
	"github.com/jonathan/ats-optimizer/internal/resume"
)

var sectionsCmd = &cobra.Command{
	Use:   "sections",
	Short: "Detect the sections of a resume",
	Long: "Extract the text of a resume (TXT, DOCX, PDF or image) and split it into header, summary, " +
		"competencies, experience, education, languages, certifications and skills.",
	RunE: runSections,
}

var (
	sectionsFile     string
	sectionsProvider string
	sectionsAPIKey   string
	sectionsModel    string
)

func init() {
	sectionsCmd.Flags().StringVarP(&sectionsFile, "file", "f", "", "Path to resume file (required)")
	sectionsCmd.Flags().StringVar(&sectionsProvider, "provider", "", "LLM provider for scanned PDFs and images (gemini, anthropic)")
	sectionsCmd.Flags().StringVar(&sectionsAPIKey, "api-key", "", "API key for the provider")
	sectionsCmd.Flags().StringVar(&sectionsModel, "model", "", "Model override")

	_ = sectionsCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(sectionsCmd)
}

func runSections(cmd *cobra.Command, _ []string) error {
	doc, err := readDocument(cmd.Context(), sectionsFile, sectionsProvider, sectionsAPIKey, sectionsModel)
	if err != nil {
		return fmt.Errorf("failed to read resume: %w", err)
	}

	extraction := resume.Extract(doc.Text)
	if verbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintSections(&extraction.Sections)
	}
	return writeJSON(cmd.OutOrStdout(), extraction)
}
