package normalize

import (
	"strings"
	"testing"

	"github.com/triagestack/triage-engine/internal/models"
)

const pytestLog = `==================== FAILURES ====================
____________________ test_submit ____________________

    def test_submit():
>       assert resp.status_code == 200
E       AssertionError: expected 200 but got 500

tests/test_login.py:12: AssertionError
=============== short test summary info ===============
FAILED tests/test_login.py::test_submit - AssertionError: expected 200 but got 500`

const goTestLog = `=== RUN   TestCheckout
    cart_test.go:87: expected total 42, got 0
--- FAIL: TestCheckout (0.03s)
FAIL
FAIL	github.com/acme/shop/internal/checkout	0.421s`

const junitReport = `<?xml version="1.0"?>
<testsuites>
  <testsuite name="login">
    <testcase classname="com.shop.LoginTest" name="submitsForm" time="1.2">
      <failure message="expected:&lt;200&gt; but was:&lt;500&gt;" type="org.junit.ComparisonFailure">
at com.shop.LoginTest.submitsForm(LoginTest.java:42)
      </failure>
    </testcase>
    <testcase classname="com.shop.LoginTest" name="rendersHeader" time="0.4"/>
  </testsuite>
</testsuites>`

const playwrightLog = `Running 3 tests using 1 worker

  1) [chromium] > login.spec.ts:12:5 > signs in

    TimeoutError: locator.click: Timeout 30000ms exceeded.
    waiting for locator('#submit')

      at submitForm (/app/tests/login.spec.ts:12:8)`

func TestRegistryAutoDetection(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"pytest", pytestLog, "pytest"},
		{"gotest", goTestLog, "gotest"},
		{"junit", junitReport, "junit"},
		{"playwright", playwrightLog, "playwright"},
		{"generic", "something broke\nERROR: unhandled", FrameworkGeneric},
	}

	registry := NewRegistry()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			events, warnings := registry.Normalize(tc.raw, FrameworkAuto)
			if len(events) == 0 {
				t.Fatal("expected events")
			}
			if len(warnings) != 0 {
				t.Fatalf("unexpected warnings: %v", warnings)
			}
			if events[0].Framework != tc.want {
				t.Fatalf("expected framework %q, got %q", tc.want, events[0].Framework)
			}
		})
	}
}

func TestRegistryEmptyInput(t *testing.T) {
	registry := NewRegistry()
	events, warnings := registry.Normalize("   \n\t  ", FrameworkAuto)
	if len(events) != 0 {
		t.Fatalf("expected no events, got %d", len(events))
	}
	if len(warnings) != 1 || warnings[0] != "empty log input" {
		t.Fatalf("expected empty-input warning, got %v", warnings)
	}
}

func TestRegistryUnknownHintFallsBack(t *testing.T) {
	registry := NewRegistry()
	events, warnings := registry.Normalize("ERROR: broke", "mocha")
	if len(events) != 1 || events[0].Framework != FrameworkGeneric {
		t.Fatalf("expected one generic event, got %+v", events)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "unknown framework mocha") {
		t.Fatalf("expected unknown-framework warning, got %v", warnings)
	}
}

func TestRegistryAdapterProducingNothingFallsBack(t *testing.T) {
	registry := NewRegistry()
	events, warnings := registry.Normalize("plain text, not xml at all", "junit")
	if len(events) == 0 {
		t.Fatal("expected generic fallback events")
	}
	if events[0].Framework != FrameworkGeneric {
		t.Fatalf("expected generic events, got %q", events[0].Framework)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "junit adapter produced no events") {
		t.Fatalf("expected fallback warning, got %v", warnings)
	}
}

func TestPytestErrorLines(t *testing.T) {
	events := (&PytestAdapter{}).Normalize(pytestLog)

	var errorMessages []string
	for _, ev := range events {
		if ev.Level == models.LevelError {
			errorMessages = append(errorMessages, ev.Message)
		}
	}
	if len(errorMessages) == 0 {
		t.Fatal("expected error events")
	}
	joined := strings.Join(errorMessages, "\n")
	if !strings.Contains(joined, "AssertionError: expected 200 but got 500") {
		t.Fatalf("expected assertion detail in error events, got:\n%s", joined)
	}
}

func TestJUnitEvents(t *testing.T) {
	events := (&JUnitAdapter{}).Normalize(junitReport)
	if len(events) < 3 {
		t.Fatalf("expected headline, trace, and pass events, got %d", len(events))
	}

	if events[0].Level != models.LevelError {
		t.Fatalf("expected error headline, got %v", events[0].Level)
	}
	if !strings.Contains(events[0].Message, "com.shop.LoginTest.submitsForm") {
		t.Fatalf("expected qualified test name in headline, got %q", events[0].Message)
	}
	if !strings.Contains(events[0].Message, "expected:<200> but was:<500>") {
		t.Fatalf("expected comparison message in headline, got %q", events[0].Message)
	}

	last := events[len(events)-1]
	if last.Level != models.LevelInfo || !strings.Contains(last.Message, "PASSED") {
		t.Fatalf("expected trailing PASSED event, got %+v", last)
	}
}

func TestJUnitRejectsNonXML(t *testing.T) {
	if events := (&JUnitAdapter{}).Normalize("not xml"); len(events) != 0 {
		t.Fatalf("expected no events, got %d", len(events))
	}
}

func TestGoTestLevels(t *testing.T) {
	events := (&GoTestAdapter{}).Normalize(goTestLog)

	byMessage := make(map[string]models.Level)
	for _, ev := range events {
		byMessage[ev.Message] = ev.Level
	}
	if byMessage["--- FAIL: TestCheckout (0.03s)"] != models.LevelError {
		t.Fatal("expected --- FAIL line to be an error event")
	}
	if byMessage["=== RUN   TestCheckout"] != models.LevelInfo {
		t.Fatal("expected === RUN line to stay informational")
	}
}

func TestGenericTimestampStripping(t *testing.T) {
	events := (&GenericAdapter{}).Normalize("2025-03-01T10:00:00Z connection refused")
	if len(events) != 1 {
		t.Fatalf("expected one event, got %d", len(events))
	}
	if events[0].Timestamp.IsZero() {
		t.Fatal("expected parsed timestamp")
	}
	if events[0].Message != "connection refused" {
		t.Fatalf("expected message without timestamp, got %q", events[0].Message)
	}
}
