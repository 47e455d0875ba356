// Package output renders analysis results for humans and machines.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/triagestack/triage-engine/internal/models"
	"github.com/triagestack/triage-engine/internal/services"
)

// Mode selects the rendering format.
type Mode string

const (
	ModeHuman Mode = "human"
	ModeJSON  Mode = "json"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	dimStyle     = lipgloss.NewStyle().Faint(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))

	typeStyles = map[models.FailureType]lipgloss.Style{
		models.ProductDefect:      lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		models.AutomationDefect:   lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
		models.EnvironmentIssue:   lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		models.ConfigurationIssue: lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		models.Unknown:            lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
)

// Renderer writes results in the selected mode.
type Renderer struct {
	mode Mode
	out  io.Writer
}

// NewRenderer constructs a Renderer; unknown modes fall back to human.
func NewRenderer(mode Mode, out io.Writer) *Renderer {
	if mode != ModeJSON {
		mode = ModeHuman
	}
	return &Renderer{mode: mode, out: out}
}

// Result renders a single analysis result.
func (r *Renderer) Result(result models.AnalysisResult) error {
	if r.mode == ModeJSON {
		return r.encodeJSON(result)
	}
	fmt.Fprint(r.out, renderResult(result))
	return nil
}

// Batch renders batch results plus their summary.
func (r *Renderer) Batch(resp services.BatchResponse) error {
	if r.mode == ModeJSON {
		return r.encodeJSON(resp)
	}
	for _, result := range resp.Results {
		fmt.Fprint(r.out, renderResult(result))
		fmt.Fprintln(r.out)
	}
	fmt.Fprint(r.out, renderSummary(resp.Summary))
	return nil
}

func (r *Renderer) encodeJSON(payload any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func renderResult(result models.AnalysisResult) string {
	var b strings.Builder
	cls := result.Classification

	style, ok := typeStyles[cls.FailureType]
	if !ok {
		style = typeStyles[models.Unknown]
	}

	fmt.Fprintf(&b, "%s  %s\n", headerStyle.Render(result.TestName), dimStyle.Render("["+result.Framework+"]"))
	fmt.Fprintf(&b, "  %s  confidence %.2f", style.Render(string(cls.FailureType)), cls.Confidence)
	if cls.MatchedRuleID != "" {
		fmt.Fprintf(&b, "  %s", dimStyle.Render("rule="+cls.MatchedRuleID))
	}
	b.WriteString("\n")

	for _, fragment := range cls.Evidence {
		fmt.Fprintf(&b, "    evidence: %s\n", fragment)
	}
	if ref := cls.CodeReference; ref != nil {
		location := ref.RepoPath
		if location == "" {
			location = ref.File
		}
		fmt.Fprintf(&b, "    code: %s:%d", location, ref.Line)
		if ref.Function != "" {
			fmt.Fprintf(&b, " (%s)", ref.Function)
		}
		b.WriteString("\n")
		if ref.Snippet != "" {
			for _, line := range strings.Split(ref.Snippet, "\n") {
				fmt.Fprintf(&b, "      %s\n", dimStyle.Render(line))
			}
		}
	}
	if cls.AINote != "" {
		fmt.Fprintf(&b, "    note: %s\n", cls.AINote)
	}
	for _, warning := range result.Warnings {
		fmt.Fprintf(&b, "    %s\n", warningStyle.Render("warning: "+warning))
	}
	return b.String()
}

func renderSummary(summary models.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", headerStyle.Render(fmt.Sprintf("Summary (%d failures)", summary.Total)))

	types := make([]models.FailureType, 0, len(summary.Counts))
	for ft := range summary.Counts {
		types = append(types, ft)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	for _, ft := range types {
		style, ok := typeStyles[ft]
		if !ok {
			style = typeStyles[models.Unknown]
		}
		fmt.Fprintf(&b, "  %-20s %3d  (%.1f%%)\n", style.Render(string(ft)), summary.Counts[ft], summary.Percentages[ft])
	}

	for _, cascade := range summary.Cascades {
		fmt.Fprintf(&b, "  cascade: %d tests share %s\n", len(cascade.TestNames), cascade.RuleID)
	}
	for _, pattern := range summary.Patterns {
		fmt.Fprintf(&b, "  pattern: %s x%d (%s)\n", pattern.RuleID, pattern.Occurrences, pattern.FailureType)
	}
	return b.String()
}
