package pipeline

import (
	"errors"
	"fmt"
	"strings"
)

// MinLines is the smallest line count a flowchart can have: a header and one statement.
const MinLines = 2

// Sentinel errors for validation failures.
var (
	ErrMissingKeyword = errors.New("diagram does not start with the graph keyword")
	ErrTooShort       = errors.New("diagram too short")
)

// ValidationResult is the verdict of a shallow structural check.
// Err carries the sentinel for the violated rule and is nil when Valid.
type ValidationResult struct {
	Valid   bool
	Message string
	Err     error
}

// Validate checks that candidate starts with the diagram keyword and spans at
// least MinLines lines. Rules run in order; the first failure wins.
// Surrounding whitespace is ignored for both rules.
func Validate(candidate string) ValidationResult {
	src := strings.TrimSpace(candidate)

	if !HasKeyword(src) {
		return ValidationResult{
			Message: "code must start with " + headerExamples(),
			Err:     ErrMissingKeyword,
		}
	}

	if lines := strings.Split(src, "\n"); len(lines) < MinLines {
		return ValidationResult{
			Message: fmt.Sprintf("code too short, must have at least %d lines", MinLines),
			Err:     ErrTooShort,
		}
	}

	return ValidationResult{Valid: true, Message: "syntax valid"}
}

// headerExamples renders "'graph TD', 'graph LR', 'graph TB' or 'graph RL'".
func headerExamples() string {
	quoted := make([]string, len(Directions))
	for i, d := range Directions {
		quoted[i] = fmt.Sprintf("'%s %s'", Keyword, d)
	}
	last := len(quoted) - 1
	return strings.Join(quoted[:last], ", ") + " or " + quoted[last]
}
