package luatyped

import "fmt"

// LexError wraps an ERROR token so callers that want Go errors rather
// than scanning the token stream for ERROR kinds can get one, per the
// lexical taxonomy of spec §7.
type LexError struct {
	Message string
	Line    int
	Text    string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("[line %d] Error: %s", e.Line, e.Message)
}

// SyntaxError is the error taxonomy's syntactic half: an unexpected
// token at an expected production, reported via the parser's errorAt
// in its panic-mode state machine (spec §4.4.1, §7). Its Error()
// string matches the diagnostic format of spec §6.3 exactly.
type SyntaxError struct {
	Line    int
	Text    string
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("[line %d] Error at '%s': %s", e.Line, e.Text, e.Message)
}

// CollectLexErrors scans a token sequence for ERROR tokens and returns
// one *LexError per occurrence, in order. It lets a caller inspect
// lexical failures directly off Tokenize's output instead of running
// them through the parser's panic-mode reporting.
func CollectLexErrors(tokens []Token, pool *Pool) []*LexError {
	var errs []*LexError
	for _, tok := range tokens {
		if tok.Kind != ERROR {
			continue
		}
		errs = append(errs, &LexError{Message: pool.Text(tok.Text), Line: tok.Line, Text: pool.Text(tok.Text)})
	}
	return errs
}
