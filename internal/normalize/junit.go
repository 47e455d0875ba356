package normalize

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/triagestack/triage-engine/internal/models"
)

// JUnitAdapter normalizes JUnit-style XML reports. Each <testcase> becomes
// one event; nested <failure>/<error> elements add error events carrying
// the message and body (usually the assertion text plus a Java stack
// trace). Non-XML input yields no events and falls through to the generic
// adapter.
type JUnitAdapter struct{}

type junitSuites struct {
	XMLName xml.Name     `xml:"testsuites"`
	Suites  []junitSuite `xml:"testsuite"`
}

type junitSuite struct {
	Name  string      `xml:"name,attr"`
	Cases []junitCase `xml:"testcase"`
}

type junitCase struct {
	Name      string      `xml:"name,attr"`
	ClassName string      `xml:"classname,attr"`
	Time      string      `xml:"time,attr"`
	Failure   *junitFault `xml:"failure"`
	Error     *junitFault `xml:"error"`
	Skipped   *struct{}   `xml:"skipped"`
}

type junitFault struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Body    string `xml:",chardata"`
}

func (a *JUnitAdapter) Name() string { return "junit" }

func (a *JUnitAdapter) Detect(raw string) bool {
	return strings.Contains(raw, "<testsuite") && strings.Contains(raw, "<testcase")
}

func (a *JUnitAdapter) Normalize(raw string) []models.ExecutionEvent {
	suites, err := parseJUnit(raw)
	if err != nil {
		return nil
	}

	var events []models.ExecutionEvent
	for _, suite := range suites {
		for _, tc := range suite.Cases {
			name := tc.Name
			if tc.ClassName != "" {
				name = tc.ClassName + "." + tc.Name
			}

			switch {
			case tc.Skipped != nil:
				events = append(events, a.event(models.LevelWarn, fmt.Sprintf("SKIPPED %s", name)))
			case tc.Failure == nil && tc.Error == nil:
				events = append(events, a.event(models.LevelInfo, fmt.Sprintf("PASSED %s", name)))
			default:
				fault := tc.Failure
				label := "FAILED"
				if fault == nil {
					fault = tc.Error
					label = "ERROR"
				}
				headline := fmt.Sprintf("%s %s: %s", label, name, strings.TrimSpace(fault.Message))
				if fault.Type != "" && !strings.Contains(headline, fault.Type) {
					headline = fmt.Sprintf("%s %s: %s: %s", label, name, fault.Type, strings.TrimSpace(fault.Message))
				}
				events = append(events, a.event(models.LevelError, headline))
				for _, line := range strings.Split(fault.Body, "\n") {
					if strings.TrimSpace(line) == "" {
						continue
					}
					events = append(events, a.event(models.LevelError, strings.TrimRight(line, "\r")))
				}
			}
		}
	}
	return events
}

func (a *JUnitAdapter) event(level models.Level, message string) models.ExecutionEvent {
	return models.ExecutionEvent{
		Level:     level,
		Message:   message,
		Framework: a.Name(),
		RawLine:   message,
	}
}

func parseJUnit(raw string) ([]junitSuite, error) {
	trimmed := strings.TrimSpace(raw)

	var multi junitSuites
	if err := xml.Unmarshal([]byte(trimmed), &multi); err == nil && len(multi.Suites) > 0 {
		return multi.Suites, nil
	}

	var single junitSuite
	if err := xml.Unmarshal([]byte(trimmed), &single); err != nil {
		return nil, fmt.Errorf("parse junit report: %w", err)
	}
	if len(single.Cases) == 0 {
		return nil, fmt.Errorf("junit report contains no test cases")
	}
	return []junitSuite{single}, nil
}
