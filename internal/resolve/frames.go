// Package resolve turns raw stack traces into workspace code references:
// file, line, snippet, and enclosing declaration.
package resolve

import (
	"path"
	"regexp"
	"strconv"
	"strings"
)

// Dialect tags the stack-trace convention a frame was parsed from. It is
// only used during parsing; downstream consumers see a flat Frame.
type Dialect string

const (
	DialectJava   Dialect = "java"
	DialectPython Dialect = "python"
	DialectNode   Dialect = "node"
	DialectGo     Dialect = "go"
)

// Frame is one parsed stack frame, innermost frames first in the slice
// returned by ParseStackTrace.
type Frame struct {
	File     string
	Line     int
	Function string
	Dialect  Dialect
}

var (
	// at com.shop.LoginTest.submitsForm(LoginTest.java:42)
	javaFramePattern = regexp.MustCompile(`^\s*at\s+([\w$.]+)\.([\w$<>]+)\(([\w$]+\.java):(\d+)\)`)

	//   File "/app/tests/test_login.py", line 12, in test_submit
	pythonFramePattern = regexp.MustCompile(`^\s*File\s+"([^"]+)",\s+line\s+(\d+)(?:,\s+in\s+(\S+))?`)

	// at submitForm (/app/tests/login.spec.ts:12:8)   |   at /app/tests/login.spec.ts:12:8
	nodeFramePattern = regexp.MustCompile(`^\s*at\s+(?:([\w.<>\[\] ]+)\s+\()?([^():]+):(\d+):\d+\)?`)

	// \t/app/internal/checkout/cart.go:87 +0x1b
	goFileLinePattern = regexp.MustCompile(`^\s*([^\s:]+\.go):(\d+)(?:\s+\+0x[0-9a-f]+)?$`)

	// github.com/acme/shop/internal/checkout.TestCart(0xc000123)
	goFuncPattern = regexp.MustCompile(`^(\S+)\(.*\)$`)
)

// ParseStackTrace splits a raw trace into frames, innermost first. The
// three line-oriented dialects (Java, Node, Go) already list the failure
// point first; Python tracebacks list it last and are reversed. Framework
// and library frames are kept; filtering is the resolver's concern.
func ParseStackTrace(trace string) []Frame {
	if strings.TrimSpace(trace) == "" {
		return nil
	}

	var frames []Frame
	var pythonFrames []Frame
	lastGoFunc := ""

	for _, line := range strings.Split(trace, "\n") {
		if m := javaFramePattern.FindStringSubmatch(line); m != nil {
			lineNum, _ := strconv.Atoi(m[4])
			frames = append(frames, Frame{
				File:     javaSourcePath(m[1], m[3]),
				Line:     lineNum,
				Function: m[1] + "." + m[2],
				Dialect:  DialectJava,
			})
			continue
		}
		if m := pythonFramePattern.FindStringSubmatch(line); m != nil {
			lineNum, _ := strconv.Atoi(m[2])
			pythonFrames = append(pythonFrames, Frame{
				File:     m[1],
				Line:     lineNum,
				Function: m[3],
				Dialect:  DialectPython,
			})
			continue
		}
		if m := goFileLinePattern.FindStringSubmatch(line); m != nil {
			lineNum, _ := strconv.Atoi(m[2])
			frames = append(frames, Frame{
				File:     m[1],
				Line:     lineNum,
				Function: lastGoFunc,
				Dialect:  DialectGo,
			})
			lastGoFunc = ""
			continue
		}
		if m := nodeFramePattern.FindStringSubmatch(line); m != nil {
			lineNum, _ := strconv.Atoi(m[3])
			frames = append(frames, Frame{
				File:     strings.TrimSpace(m[2]),
				Line:     lineNum,
				Function: strings.TrimSpace(m[1]),
				Dialect:  DialectNode,
			})
			continue
		}
		if m := goFuncPattern.FindStringSubmatch(strings.TrimSpace(line)); m != nil && strings.Contains(m[1], ".") {
			lastGoFunc = m[1]
		}
	}

	// Python tracebacks run outermost to innermost.
	for i := len(pythonFrames) - 1; i >= 0; i-- {
		frames = append(frames, pythonFrames[i])
	}
	return frames
}

// javaSourcePath derives a package-relative source path from the fully
// qualified class and the file attribute: com.shop.LoginTest +
// LoginTest.java -> com/shop/LoginTest.java.
func javaSourcePath(qualifiedClass, file string) string {
	parts := strings.Split(qualifiedClass, ".")
	if len(parts) < 2 {
		return file
	}
	dirs := parts[:len(parts)-1]
	return path.Join(append(dirs, file)...)
}
