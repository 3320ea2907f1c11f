// Package ascii provides terminal ANSI color codes semantic names for
// colors so they can be grouped in themes.
package ascii

import "fmt"

const (
	Reset = "\033[0m"
	Red   = "\033[1;31m"
	Green = "\033[1;32m"

	// 256-color palette
	Purple = "\033[1;38;5;99m"
)

// Theme defines the colors the token/AST dump in print.go uses for the
// three kinds of text it highlights: operators, literal values, and
// identifier names (struct/function/variable labels).
type Theme struct {
	Operator string
	Literal  string
	Label    string
}

// DefaultTheme provides a sensible default color mapping.
var DefaultTheme = Theme{
	Operator: Purple,
	Literal:  Green,
	Label:    Red,
}

func Color(color, format string, args ...any) string {
	return fmt.Sprintf(color+format+Reset, args...)
}
