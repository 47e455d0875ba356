package resolve

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseStackTraceJava(t *testing.T) {
	trace := `at com.shop.LoginTest.submitsForm(LoginTest.java:42)
at org.junit.runners.ParentRunner.run(ParentRunner.java:413)`

	frames := ParseStackTrace(trace)
	want := []Frame{
		{File: "com/shop/LoginTest.java", Line: 42, Function: "com.shop.LoginTest.submitsForm", Dialect: DialectJava},
		{File: "org/junit/runners/ParentRunner.java", Line: 413, Function: "org.junit.runners.ParentRunner.run", Dialect: DialectJava},
	}
	if diff := cmp.Diff(want, frames); diff != "" {
		t.Fatalf("frames mismatch:\n%s", diff)
	}
}

func TestParseStackTracePythonReversed(t *testing.T) {
	trace := `Traceback (most recent call last):
  File "/app/tests/test_login.py", line 30, in runner
    helper()
  File "/app/tests/test_login.py", line 12, in test_submit
    assert resp.status_code == 200`

	frames := ParseStackTrace(trace)
	if len(frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(frames))
	}
	// Python lists the failure point last; parsed frames are innermost first.
	if frames[0].Line != 12 || frames[0].Function != "test_submit" {
		t.Fatalf("expected innermost frame first, got %+v", frames[0])
	}
	if frames[1].Line != 30 || frames[1].Function != "runner" {
		t.Fatalf("expected outer frame second, got %+v", frames[1])
	}
}

func TestParseStackTraceNode(t *testing.T) {
	trace := `    at submitForm (/app/tests/login.spec.ts:12:8)
    at /app/node_modules/playwright/lib/runner.js:1024:7`

	frames := ParseStackTrace(trace)
	if len(frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(frames))
	}
	if frames[0].File != "/app/tests/login.spec.ts" || frames[0].Line != 12 || frames[0].Function != "submitForm" {
		t.Fatalf("unexpected first frame: %+v", frames[0])
	}
	if frames[1].File != "/app/node_modules/playwright/lib/runner.js" || frames[1].Function != "" {
		t.Fatalf("unexpected anonymous frame: %+v", frames[1])
	}
}

func TestParseStackTraceGo(t *testing.T) {
	trace := "goroutine 1 [running]:\n" +
		"github.com/acme/shop/internal/checkout.TestCart(0xc000123000)\n" +
		"\t/workspace/internal/checkout/cart_test.go:87 +0x1b4\n" +
		"testing.tRunner(0xc000082900, 0x1234)\n" +
		"\t/usr/local/go/src/testing/testing.go:1576 +0x10b"

	frames := ParseStackTrace(trace)
	if len(frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(frames))
	}
	if frames[0].File != "/workspace/internal/checkout/cart_test.go" || frames[0].Line != 87 {
		t.Fatalf("unexpected first frame: %+v", frames[0])
	}
	if frames[0].Function != "github.com/acme/shop/internal/checkout.TestCart" {
		t.Fatalf("expected function carried onto file frame, got %q", frames[0].Function)
	}
}

func TestParseStackTraceEmpty(t *testing.T) {
	if frames := ParseStackTrace("  \n \t"); frames != nil {
		t.Fatalf("expected nil frames, got %+v", frames)
	}
}

func TestJavaSourcePath(t *testing.T) {
	if got := javaSourcePath("com.shop.LoginTest", "LoginTest.java"); got != "com/shop/LoginTest.java" {
		t.Fatalf("unexpected path %q", got)
	}
	if got := javaSourcePath("LoginTest", "LoginTest.java"); got != "LoginTest.java" {
		t.Fatalf("expected bare file for default package, got %q", got)
	}
}
