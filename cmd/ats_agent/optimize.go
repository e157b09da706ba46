package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/ats-optimizer/internal/assistant"
	"github.com/jonathan/ats-optimizer/internal/observability"
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Run an assistant action against a resume and job description",
	Long: "Run one of the model-backed actions: " + strings.Join(actionNames(), ", ") + ". " +
		"The resume may be TXT, DOCX or PDF; the job description is plain text.",
	RunE: runOptimize,
}

var (
	optimizeAction     string
	optimizeResumeFile string
	optimizeJobFile    string
	optimizeProvider   string
	optimizeAPIKey     string
	optimizeModel      string
)

func init() {
	optimizeCmd.Flags().StringVarP(&optimizeAction, "action", "a", string(assistant.ActionOptimizeResume), "Action to run")
	optimizeCmd.Flags().StringVarP(&optimizeResumeFile, "resume-file", "r", "", "Path to resume file (required)")
	optimizeCmd.Flags().StringVarP(&optimizeJobFile, "job-file", "j", "", "Path to job description text, or - for stdin (required)")
	optimizeCmd.Flags().StringVar(&optimizeProvider, "provider", "", "LLM provider (gemini, anthropic, openai, deepseek, groq, openrouter, perplexity); defaults to the configured provider")
	optimizeCmd.Flags().StringVar(&optimizeAPIKey, "api-key", "", "API key; defaults to the provider's key variable, e.g. GEMINI_API_KEY")
	optimizeCmd.Flags().StringVar(&optimizeModel, "model", "", "Model override for every tier")

	_ = optimizeCmd.MarkFlagRequired("resume-file")
	_ = optimizeCmd.MarkFlagRequired("job-file")

	rootCmd.AddCommand(optimizeCmd)
}

func actionNames() []string {
	names := make([]string, 0, 6)
	for _, a := range []assistant.Action{
		assistant.ActionOptimizeResume,
		assistant.ActionCoverLetter,
		assistant.ActionEmail,
		assistant.ActionInterview,
		assistant.ActionLinkedIn,
		assistant.ActionSkillsGap,
	} {
		names = append(names, string(a))
	}
	return names
}

func runOptimize(cmd *cobra.Command, _ []string) error {
	action := assistant.Action(optimizeAction)
	if action == assistant.ActionExtractFile {
		return fmt.Errorf("use the sections command to extract a resume file")
	}

	job, err := readText(optimizeJobFile, cmd.InOrStdin())
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	doc, err := readDocument(ctx, optimizeResumeFile, optimizeProvider, optimizeAPIKey, optimizeModel)
	if err != nil {
		return fmt.Errorf("failed to read resume: %w", err)
	}

	client, err := newClient(ctx, optimizeProvider, optimizeAPIKey, optimizeModel)
	if err != nil {
		return err
	}
	defer client.Close()

	result, err := assistant.New(client).Run(ctx, action, assistant.Input{Resume: doc.Text, Job: job})
	if err != nil {
		return fmt.Errorf("%s failed: %w", action, err)
	}

	if opt, ok := result.(*assistant.OptimizeResult); ok && verbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintOptimizeResult(opt)
	}
	return writeJSON(cmd.OutOrStdout(), result)
}
