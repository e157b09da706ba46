package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/ats-optimizer/internal/htmlrepair"
)

var repairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Repair bullet lists in generated resume HTML",
	Long: "Split list items that hold several bullets and drop duplicate, empty and unterminated items " +
		"in HTML produced by a model.",
	RunE: runRepair,
}

var (
	repairInFile  string
	repairOutFile string
)

func init() {
	repairCmd.Flags().StringVarP(&repairInFile, "in", "i", "-", "Path to HTML file, or - for stdin")
	repairCmd.Flags().StringVarP(&repairOutFile, "out", "o", "", "Write the repaired HTML here instead of stdout")

	rootCmd.AddCommand(repairCmd)
}

func runRepair(cmd *cobra.Command, _ []string) error {
	html, err := readText(repairInFile, cmd.InOrStdin())
	if err != nil {
		return err
	}

	repaired := htmlrepair.Repair(html)
	if repairOutFile == "" {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), repaired)
		return err
	}
	if err := os.WriteFile(repairOutFile, []byte(repaired), 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
