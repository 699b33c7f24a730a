package markdown

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// directiveLineRE matches a GFM "link-reference-style" HTML comment used as
// a directive carrier, in either quoting style:
//
//	[//]: # (decisionTable Foo.Bar)
//	[//]: # "import Foo.Bar"
var directiveLineRE = regexp.MustCompile(`^\s*\[//\]:\s*#\s*(?:\((.*)\)|"(.*)")\s*$`)

const snoozeDateLayout = "2006-01-02"

// matchDirectiveLine extracts the directive text from a single raw source
// line, or returns ok=false if the line isn't a directive comment.
func matchDirectiveLine(line string) (text string, ok bool) {
	m := directiveLineRE.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	if m[1] != "" {
		return m[1], true
	}
	return m[2], true
}

// parseDirectiveText splits a directive's text into its kind, its
// arguments, and an optional "-- snooze until YYYY-MM-DD" modifier.
// A malformed or unrecognized modifier produces a warning but still
// returns the Directive. An empty directive or an unknown kind returns nil
// with a warning: the directive is dropped.
func parseDirectiveText(raw string, line int) (*Directive, []Warning) {
	raw = strings.TrimSpace(raw)
	main := raw
	var modPart string
	if idx := strings.Index(raw, "--"); idx >= 0 {
		main = strings.TrimSpace(raw[:idx])
		modPart = strings.TrimSpace(raw[idx+2:])
	}

	fields := strings.Fields(main)
	if len(fields) == 0 {
		return nil, []Warning{{Line: line, Msg: "empty directive"}}
	}

	kind := fields[0]
	if kind != "import" && kind != "decisionTable" {
		return nil, []Warning{{Line: line, Msg: fmt.Sprintf("unknown directive kind %q", kind)}}
	}

	d := &Directive{Kind: kind, Args: fields[1:], Raw: raw, Line: line}

	var warnings []Warning
	if modPart != "" {
		modFields := strings.Fields(modPart)
		if len(modFields) == 3 && modFields[0] == "snooze" && modFields[1] == "until" {
			t, err := time.Parse(snoozeDateLayout, modFields[2])
			if err != nil {
				warnings = append(warnings, Warning{Line: line, Msg: fmt.Sprintf("invalid snooze date %q: %v", modFields[2], err)})
			} else {
				d.SnoozeUntil = &t
			}
		} else {
			warnings = append(warnings, Warning{Line: line, Msg: fmt.Sprintf("unrecognized directive modifier %q", modPart)})
		}
	}

	return d, warnings
}
