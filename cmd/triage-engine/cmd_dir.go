package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/triagestack/triage-engine/internal/analyzer"
	"github.com/triagestack/triage-engine/internal/models"
	"github.com/triagestack/triage-engine/internal/output"
	"github.com/triagestack/triage-engine/internal/services"
	"github.com/triagestack/triage-engine/internal/watch"
)

func newDirCommand(flags *rootFlags) *cobra.Command {
	var pattern string
	var framework string
	var watchMode bool

	cmd := &cobra.Command{
		Use:   "dir <directory>",
		Short: "Classify every failure log in a directory",
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
			renderer := output.NewRenderer(output.Mode(flags.output), cmd.OutOrStdout())

			dir := args[0]
			paths, err := filepath.Glob(filepath.Join(dir, pattern))
			if err != nil {
				return fmt.Errorf("bad glob pattern %q: %w", pattern, err)
			}

			items := make([]models.AnalysisItem, 0, len(paths))
			for _, path := range paths {
				raw, err := os.ReadFile(path)
				if err != nil {
					logger.Warn("skipping unreadable log", "path", path, "error", err)
					continue
				}
				items = append(items, models.AnalysisItem{
					TestName:  testNameFromPath(path),
					Framework: framework,
					RawLog:    string(raw),
				})
			}

			var gated bool
			if len(items) > 0 {
				resp, err := service.AnalyzeBatch(cmd.Context(), items)
				if err != nil {
					return err
				}
				if err := renderer.Batch(resp); err != nil {
					return err
				}
				gated = analyzer.ShouldFailCI(resp.Results, gating)
			} else if !watchMode {
				return fmt.Errorf("no logs matching %q in %s", pattern, dir)
			}

			if watchMode {
				ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
				defer stop()

				watcher := watch.New(dir, pattern, logger, func(path string) {
					raw, err := os.ReadFile(path)
					if err != nil {
						logger.Warn("skipping unreadable log", "path", path, "error", err)
						return
					}
					result, err := service.AnalyzeLog(ctx, models.AnalysisItem{
						TestName:  testNameFromPath(path),
						Framework: framework,
						RawLog:    string(raw),
					})
					if err != nil {
						logger.Error("analysis failed", "path", path, "error", err)
						return
					}
					_ = renderer.Result(result)
				})
				if err := watcher.Run(ctx); err != nil && ctx.Err() == nil {
					return err
				}
				return nil
			}

			if gated {
				return errGatingFailure
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&pattern, "glob", "*.log", "glob pattern matched against file base names")
	cmd.Flags().StringVar(&framework, "framework", "", "framework hint applied to every log")
	cmd.Flags().BoolVar(&watchMode, "watch", false, "keep running and analyze new logs as they appear")
	return cmd
}
