package resolve

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeSource(t *testing.T, root, rel string, lineCount int) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	var b strings.Builder
	b.WriteString("def test_submit():\n")
	for i := 2; i <= lineCount; i++ {
		fmt.Fprintf(&b, "    line_%d = %d\n", i, i)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	return path
}

func TestResolvePythonFrame(t *testing.T) {
	root := t.TempDir()
	path := writeSource(t, root, "tests/test_login.py", 20)

	trace := "Traceback (most recent call last):\n" +
		fmt.Sprintf("  File \"%s\", line 12, in test_submit\n", path) +
		"    assert resp.status_code == 200"

	ref := NewResolver(root, nil, nil).Resolve(trace)
	if ref == nil {
		t.Fatal("expected a code reference")
	}
	if ref.Line != 12 {
		t.Fatalf("expected line 12, got %d", ref.Line)
	}
	if ref.RepoPath != "tests/test_login.py" {
		t.Fatalf("expected workspace-relative path, got %q", ref.RepoPath)
	}
	if ref.Function != "test_submit" {
		t.Fatalf("expected frame function, got %q", ref.Function)
	}
	if !strings.Contains(ref.Snippet, ">   12 | ") {
		t.Fatalf("expected marked target line in snippet, got:\n%s", ref.Snippet)
	}
	// Radius of 5 on each side of line 12.
	if got := strings.Count(ref.Snippet, "\n") + 1; got != 11 {
		t.Fatalf("expected 11 snippet lines, got %d", got)
	}
}

func TestResolveRelativeJavaFrame(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "com/shop/LoginTest.java", 50)

	trace := "at com.shop.LoginTest.submitsForm(LoginTest.java:42)"
	ref := NewResolver(root, nil, nil).Resolve(trace)
	if ref == nil {
		t.Fatal("expected a code reference")
	}
	if ref.RepoPath != "com/shop/LoginTest.java" || ref.Line != 42 {
		t.Fatalf("unexpected reference: %+v", ref)
	}
}

func TestResolveSkipsExcludedFrames(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "tests/login.spec.ts", 20)

	trace := fmt.Sprintf(`    at wrapped (%s/node_modules/playwright/lib/runner.js:10:2)
    at submitForm (%s/tests/login.spec.ts:5:3)`, root, root)

	ref := NewResolver(root, nil, nil).Resolve(trace)
	if ref == nil {
		t.Fatal("expected a code reference")
	}
	if ref.RepoPath != "tests/login.spec.ts" {
		t.Fatalf("expected the user frame, got %q", ref.RepoPath)
	}
}

func TestResolveVendoredOnlyTraceYieldsNil(t *testing.T) {
	root := t.TempDir()
	trace := fmt.Sprintf("    at wrapped (%s/node_modules/playwright/lib/runner.js:10:2)", root)
	if ref := NewResolver(root, nil, nil).Resolve(trace); ref != nil {
		t.Fatalf("expected nil for library-only trace, got %+v", ref)
	}
}

func TestResolveRejectsPathsOutsideWorkspace(t *testing.T) {
	root := filepath.Join(t.TempDir(), "workspace")
	if err := os.MkdirAll(root, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	for _, trace := range []string{
		"    at hack (/etc/passwd:1:1)",
		"at com.shop.Escape.run(Escape.java:1)\n", // resolves relative, fine
		fmt.Sprintf("    at sneaky (%s:3:1)", filepath.Join(root, "..", "outside.ts")),
	} {
		ref := NewResolver(root, nil, nil).Resolve(trace)
		if ref != nil && !strings.HasPrefix(ref.File, root) {
			t.Fatalf("reference escaped the workspace: %+v", ref)
		}
	}
}

func TestResolveMissingFileKeepsLocation(t *testing.T) {
	root := t.TempDir()
	trace := fmt.Sprintf("  File \"%s\", line 7, in test_gone", filepath.Join(root, "tests/test_gone.py"))

	ref := NewResolver(root, nil, nil).Resolve(trace)
	if ref == nil {
		t.Fatal("expected a reference even without a readable file")
	}
	if ref.Line != 7 || ref.Snippet != "" {
		t.Fatalf("expected bare location, got %+v", ref)
	}
}

func TestResolveNilOnEmptyInput(t *testing.T) {
	r := NewResolver(t.TempDir(), nil, nil)
	if ref := r.Resolve(""); ref != nil {
		t.Fatalf("expected nil for empty trace, got %+v", ref)
	}
	var nilResolver *Resolver
	if ref := nilResolver.Resolve("at x (/tmp/x.ts:1:1)"); ref != nil {
		t.Fatal("expected nil from nil resolver")
	}
}

func TestEnclosingDeclaration(t *testing.T) {
	lines := []string{
		"class LoginSuite:",
		"    def test_submit(self):",
		"        resp = client.post('/login')",
		"        assert resp.status_code == 200",
	}
	if got := enclosingDeclaration(lines, 4); got != "test_submit" {
		t.Fatalf("expected nearest declaration, got %q", got)
	}
	if got := enclosingDeclaration(lines, 1); got != "LoginSuite" {
		t.Fatalf("expected class declaration, got %q", got)
	}
}
