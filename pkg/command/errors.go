package command

import "fmt"

// ParseError reports a malformed input line. It is raised by tokenization
// before any handler runs.
type ParseError struct {
	Message string
}

func (e *ParseError) Error() string {
	return "parse error: " + e.Message
}

// UsageError reports a recognized command invoked with invalid arguments.
// It carries the command's usage string for display to the operator.
type UsageError struct {
	Usage   string
	Message string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("%s\nUsage: %s", e.Message, e.Usage)
}

// CheckNumArgs fails with a *UsageError when actual falls outside
// [min, max].
func CheckNumArgs(usage string, min, max, actual int) error {
	if actual >= min && actual <= max {
		return nil
	}
	var expected string
	switch {
	case min == max:
		expected = fmt.Sprintf("%d", min)
	default:
		expected = fmt.Sprintf("%d to %d", min, max)
	}
	return &UsageError{
		Usage:   usage,
		Message: fmt.Sprintf("expected %s argument(s), got %d", expected, actual),
	}
}

// CheckExactNumArgs fails with a *UsageError when actual != expected.
func CheckExactNumArgs(usage string, expected, actual int) error {
	return CheckNumArgs(usage, expected, expected, actual)
}

// ExpectedOneOf fails with a *UsageError naming the allowed set when
// actual is not a member.
func ExpectedOneOf(usage, param, actual string, allowed ...string) error {
	for _, a := range allowed {
		if actual == a {
			return nil
		}
	}
	return &UsageError{
		Usage:   usage,
		Message: fmt.Sprintf("%s must be one of: %s", param, joinQuoted(allowed)),
	}
}

func joinQuoted(items []string) string {
	out := ""
	for i, item := range items {
		if i > 0 {
			out += ", "
		}
		out += "'" + item + "'"
	}
	return out
}
