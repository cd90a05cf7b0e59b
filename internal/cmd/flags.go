package cmd

import (
	"regexp"
	"strings"
)

var helpText = map[string]string{
	"provider":  "Backend to talk to (ollama, gemini)",
	"model":     "Model to use, overriding the configured one",
	"log-level": "Log level (debug, info, warn, error)",
}

var invalidArgFlagRe = regexp.MustCompile(`"([^"]+)" flag`)

// flagParseError wraps a pflag parse error with the offending flag and a
// user-facing reason template.
type flagParseError struct {
	err    error
	flag   string
	reason string
}

func newFlagParseError(err error) flagParseError {
	ferr := flagParseError{err: err}
	msg := err.Error()
	switch {
	case strings.HasPrefix(msg, "unknown flag"):
		ferr.reason = "Flag %s is missing."
		_, ferr.flag, _ = strings.Cut(msg, ": ")
	case strings.HasPrefix(msg, "flag needs an argument"):
		ferr.reason = "Flag %s needs an argument."
		if _, after, ok := strings.Cut(msg, " in "); ok {
			ferr.flag = after
		} else {
			_, ferr.flag, _ = strings.Cut(msg, ": ")
		}
	case strings.HasPrefix(msg, "invalid argument"):
		ferr.reason = "Flag %s have an invalid argument."
		if m := invalidArgFlagRe.FindStringSubmatch(msg); len(m) == 2 {
			ferr.flag = m[1]
		}
	default:
		ferr.reason = "Flag %s is invalid."
		_, ferr.flag, _ = strings.Cut(msg, ": ")
	}
	return ferr
}

func (f flagParseError) Error() string {
	return f.err.Error()
}

func (f flagParseError) Flag() string {
	return f.flag
}

func (f flagParseError) ReasonFormat() string {
	return f.reason
}
