package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/triagestack/triage-engine/internal/analyzer"
	"github.com/triagestack/triage-engine/internal/models"
	"github.com/triagestack/triage-engine/internal/output"
	"github.com/triagestack/triage-engine/internal/services"
)

func newAnalyzeCommand(flags *rootFlags) *cobra.Command {
	var testName string
	var framework string

	cmd := &cobra.Command{
		Use:   "analyze <log-file>",
		Short: "Classify a single test failure log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			gating, err := parseGatingTypes(flags.failOn)
			if err != nil {
				return err
			}

			logger := newLogger(cfg)
			a := buildAnalyzer(cfg, logger)
			service := services.NewTriageService(logger, a)

			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read log file: %w", err)
			}
			name := testName
			if name == "" {
				name = testNameFromPath(args[0])
			}

			result, err := service.AnalyzeLog(cmd.Context(), models.AnalysisItem{
				TestName:  name,
				Framework: framework,
				RawLog:    string(raw),
			})
			if err != nil {
				return err
			}

			renderer := output.NewRenderer(output.Mode(flags.output), cmd.OutOrStdout())
			if err := renderer.Result(result); err != nil {
				return err
			}

			if analyzer.ShouldFailCI([]models.AnalysisResult{result}, gating) {
				return errGatingFailure
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&testName, "test-name", "", "test name (defaults to the log file base name)")
	cmd.Flags().StringVar(&framework, "framework", "", "framework hint: pytest, gotest, junit, playwright")
	return cmd
}

// testNameFromPath derives a test name from a log file path.
func testNameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
