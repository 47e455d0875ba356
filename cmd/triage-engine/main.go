package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/triagestack/triage-engine/internal/ai"
	"github.com/triagestack/triage-engine/internal/analyzer"
	"github.com/triagestack/triage-engine/internal/config"
	"github.com/triagestack/triage-engine/internal/engine"
	"github.com/triagestack/triage-engine/internal/extractors"
	"github.com/triagestack/triage-engine/internal/models"
	"github.com/triagestack/triage-engine/internal/normalize"
	"github.com/triagestack/triage-engine/internal/resolve"
	"github.com/triagestack/triage-engine/internal/utils"
)

// errGatingFailure signals that at least one gating-type classification was
// present; it maps to a non-zero exit without a usage dump.
var errGatingFailure = errors.New("gating failure types present")

type rootFlags struct {
	configPath string
	output     string
	failOn     string
	workspace  string
	rulesPath  string
}

func main() {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "triage-engine",
		Short:         "Classify automation test failures from raw execution logs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "path to configuration file")
	root.PersistentFlags().StringVarP(&flags.output, "output", "o", "human", "output mode: human or json")
	root.PersistentFlags().StringVar(&flags.failOn, "fail-on", "", "comma-separated failure types that fail the build (default PRODUCT_DEFECT)")
	root.PersistentFlags().StringVar(&flags.workspace, "workspace", "", "workspace root for code resolution (overrides config)")
	root.PersistentFlags().StringVar(&flags.rulesPath, "rules", "", "rule pack file (overrides config)")

	root.AddCommand(newAnalyzeCommand(flags))
	root.AddCommand(newDirCommand(flags))
	root.AddCommand(newServeCommand(flags))

	if err := root.Execute(); err != nil {
		if !errors.Is(err, errGatingFailure) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

// loadConfig merges the config file with flag overrides.
func loadConfig(flags *rootFlags) (*config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}
	if flags.workspace != "" {
		cfg.Workspace.Root = flags.workspace
	}
	if flags.rulesPath != "" {
		cfg.Rules.Path = flags.rulesPath
	}
	return cfg, nil
}

// buildAnalyzer wires the pipeline from configuration. Rule-pack
// degradations surface as log warnings, never as startup failures.
func buildAnalyzer(cfg *config.Config, logger *slog.Logger) *analyzer.Analyzer {
	rules, warnings := engine.LoadRuleSet(cfg.Rules.Path, logger)
	for _, w := range warnings {
		logger.Warn("rule pack degraded", slog.String("detail", w))
	}

	var resolver *resolve.Resolver
	if cfg.Workspace.Root != "" {
		resolver = resolve.NewResolver(cfg.Workspace.Root, cfg.Workspace.ExcludedPrefixes, logger)
	}

	opts := []analyzer.Option{analyzer.WithParallelism(cfg.Analysis.Parallelism)}
	if cfg.AI.Enabled && cfg.AI.Endpoint != "" {
		provider := ai.NewHTTPProvider(cfg.AI.Endpoint, cfg.AI.APIKey, cfg.AI.Timeout)
		opts = append(opts, analyzer.WithEnhancer(engine.NewEnhancer(provider, cfg.AI.Timeout, logger)))
	}

	return analyzer.New(logger, normalize.NewRegistry(), extractors.NewComposite(), rules, resolver, opts...)
}

func newLogger(cfg *config.Config) *slog.Logger {
	return utils.NewLogger(cfg.Logging.Level, cfg.Logging.JSON)
}

// parseGatingTypes converts the --fail-on list into a gating set. Empty
// input returns nil, which the analyzer treats as PRODUCT_DEFECT only.
func parseGatingTypes(value string) (map[models.FailureType]bool, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	gating := make(map[models.FailureType]bool)
	for _, part := range strings.Split(value, ",") {
		name := strings.ToUpper(strings.TrimSpace(part))
		if name == "" {
			continue
		}
		ft, ok := models.ParseFailureType(name)
		if !ok {
			return nil, fmt.Errorf("unknown failure type %q", part)
		}
		gating[ft] = true
	}
	return gating, nil
}
