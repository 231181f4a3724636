package command

import "strings"

// Command is one parsed input line: a name and its ordered arguments.
// Names are matched case-insensitively; arguments keep their original case.
type Command struct {
	Name string
	Args []string
}

// Parse tokenizes a line into a Command. Tokens are separated by runs of
// whitespace. A token may be wrapped in double quotes to include spaces;
// inside quotes, backslash escapes the next character (so \" and \\ work).
// An unterminated quote is a *ParseError.
func Parse(line string) (Command, error) {
	tokens, err := tokenize(line)
	if err != nil {
		return Command{}, err
	}
	if len(tokens) == 0 {
		return Command{}, nil
	}
	return Command{Name: tokens[0], Args: tokens[1:]}, nil
}

func tokenize(line string) ([]string, error) {
	var tokens []string
	var current strings.Builder
	inToken := false
	inQuote := false
	escaped := false

	for _, r := range line {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false

		case inQuote && r == '\\':
			escaped = true

		case r == '"':
			inQuote = !inQuote
			inToken = true

		case !inQuote && (r == ' ' || r == '\t'):
			if inToken {
				tokens = append(tokens, current.String())
				current.Reset()
				inToken = false
			}

		default:
			current.WriteRune(r)
			inToken = true
		}
	}

	if inQuote || escaped {
		return nil, &ParseError{Message: "unterminated quote"}
	}
	if inToken {
		tokens = append(tokens, current.String())
	}
	return tokens, nil
}
