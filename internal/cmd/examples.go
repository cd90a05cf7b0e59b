package cmd

import (
	"math/rand"
	"regexp"

	"github.com/dotcommander/yap/internal/present"
)

var examples = map[string]string{
	"Ask a quick question":         `yap "why is the sky blue"`,
	"Explain a program":            `cat main.go | yap "explain what this program does"`,
	"Chat with a cloud model":      `yap chat -p gemini "help me plan a trip to Lisbon"`,
	"Write a commit message":       `git diff | yap "write a commit message for this diff"`,
	"See what your server can run": `yap models`,
}

func randomExample() string {
	keys := make([]string, 0, len(examples))
	for k := range examples {
		keys = append(keys, k)
	}
	desc := keys[rand.Intn(len(keys))] //nolint:gosec
	return desc
}

func cheapHighlighting(s present.Styles, code string) string {
	code = regexp.
		MustCompile(`"([^"\\]|\\.)*"`).
		ReplaceAllStringFunc(code, func(x string) string {
			return s.Quote.Render(x)
		})
	code = regexp.
		MustCompile(`\|`).
		ReplaceAllStringFunc(code, func(x string) string {
			return s.Pipe.Render(x)
		})
	return code
}
