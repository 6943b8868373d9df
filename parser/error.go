package parser

import "fmt"

// SyntaxError is raised when the token stream does not match the grammar.
// Line/Start pinpoint the offending token for diagnostic formatting.
type SyntaxError struct {
	Line    int
	Start   int
	Where   string
	Message string
}

// CreateSyntaxError constructs a SyntaxError positioned at the given
// token, formatted per spec.md's diagnostic format:
// "[line N] Error<where>: <message>".
func CreateSyntaxError(line int, start int, where string, message string) SyntaxError {
	return SyntaxError{Line: line, Start: start, Where: where, Message: message}
}

func (e SyntaxError) Error() string {
	return fmt.Sprintf("[line %d] Error%s: %s", e.Line, e.Where, e.Message)
}
