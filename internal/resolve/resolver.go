package resolve

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/triagestack/triage-engine/internal/models"
)

// snippetRadius is the number of context lines captured on each side of
// the resolved line.
const snippetRadius = 5

// DefaultExcludedPrefixes are path fragments that mark framework and
// vendored library frames, never user code.
var DefaultExcludedPrefixes = []string{
	"node_modules/",
	"site-packages/",
	"dist-packages/",
	"vendor/",
	"go/pkg/mod/",
	"/usr/lib/",
	"/usr/local/lib/",
	"org/openqa/",
	"io/github/bonigarcia/",
	"org/junit/",
	"org/testng/",
	"jdk/internal/",
	"java/base/",
	"playwright/",
	"selenium/",
	"_pytest/",
	"unittest/",
	"runtime/",
}

// Resolver locates the most relevant workspace frame of a stack trace and
// extracts a bounded source snippet. Read-only with respect to shared
// state; the file cache is an optimization, not a correctness requirement.
type Resolver struct {
	root     string
	excludes []string
	files    *gocache.Cache
	logger   *slog.Logger
}

// NewResolver builds a resolver rooted at the workspace directory. Empty
// excludes fall back to DefaultExcludedPrefixes.
func NewResolver(root string, excludes []string, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	if len(excludes) == 0 {
		excludes = DefaultExcludedPrefixes
	}
	return &Resolver{
		root:     filepath.Clean(root),
		excludes: excludes,
		files:    gocache.New(5*time.Minute, 10*time.Minute),
		logger:   logger,
	}
}

// Resolve returns a code reference for the first frame under the workspace
// root that is not framework/library code, or nil when no frame qualifies.
// File-read failures still return the path and line, just without a
// snippet.
func (r *Resolver) Resolve(stackTrace string) *models.CodeReference {
	if r == nil || r.root == "" {
		return nil
	}

	for _, frame := range ParseStackTrace(stackTrace) {
		if r.excluded(frame.File) {
			continue
		}
		absolute, relative, ok := r.workspacePath(frame.File)
		if !ok {
			continue
		}

		ref := &models.CodeReference{
			File:     absolute,
			Line:     frame.Line,
			Function: frame.Function,
			RepoPath: relative,
		}

		lines, err := r.readFile(absolute)
		if err != nil {
			r.logger.Debug("snippet unavailable", slog.String("file", absolute), slog.Any("error", err))
			return ref
		}
		ref.Snippet = snippet(lines, frame.Line)
		if ref.Function == "" {
			ref.Function = enclosingDeclaration(lines, frame.Line)
		}
		return ref
	}
	return nil
}

func (r *Resolver) excluded(file string) bool {
	normalized := filepath.ToSlash(file)
	for _, prefix := range r.excludes {
		if strings.Contains(normalized, prefix) {
			return true
		}
	}
	return false
}

// workspacePath maps a frame path into the workspace, rejecting anything
// that escapes the root.
func (r *Resolver) workspacePath(file string) (absolute, relative string, ok bool) {
	if file == "" {
		return "", "", false
	}
	candidate := file
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(r.root, candidate)
	}
	candidate = filepath.Clean(candidate)

	rel, err := filepath.Rel(r.root, candidate)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", "", false
	}
	return candidate, filepath.ToSlash(rel), true
}

func (r *Resolver) readFile(path string) ([]string, error) {
	if cached, found := r.files.Get(path); found {
		return cached.([]string), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read source file: %w", err)
	}
	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	r.files.SetDefault(path, lines)
	return lines, nil
}

// snippet renders a 1-based numbered window around the target line, the
// target marked with ">".
func snippet(lines []string, target int) string {
	if target < 1 || target > len(lines) {
		return ""
	}
	start := target - snippetRadius
	if start < 1 {
		start = 1
	}
	end := target + snippetRadius
	if end > len(lines) {
		end = len(lines)
	}

	var b strings.Builder
	for n := start; n <= end; n++ {
		marker := "  "
		if n == target {
			marker = "> "
		}
		fmt.Fprintf(&b, "%s%4d | %s\n", marker, n, lines[n-1])
	}
	return strings.TrimRight(b.String(), "\n")
}

var declarationPattern = regexp.MustCompile(`^\s*(?:` +
	`func\s+(?:\([^)]*\)\s*)?(\w+)` + // Go
	`|def\s+(\w+)` + // Python
	`|(?:async\s+)?function\s*(\w+)` + // JS
	`|class\s+(\w+)` +
	`|(?:public|private|protected)?\s*(?:static\s+)?[\w<>\[\]]+\s+(\w+)\s*\([^;]*$` + // Java method
	`)`)

// enclosingDeclaration scans upward from the target line for the nearest
// function/class declaration. Lexical only, no parsing.
func enclosingDeclaration(lines []string, target int) string {
	if target > len(lines) {
		target = len(lines)
	}
	for n := target; n >= 1; n-- {
		m := declarationPattern.FindStringSubmatch(lines[n-1])
		if m == nil {
			continue
		}
		for _, group := range m[1:] {
			if group != "" {
				return group
			}
		}
	}
	return ""
}
