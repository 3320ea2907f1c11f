package luatyped

// TokenKind enumerates every lexical category named in spec §6.1.
type TokenKind int

const (
	EOF TokenKind = iota
	ERROR

	IDENTIFIER
	STRING
	NUMBER

	// Keywords
	KwLocal
	KwFunction
	KwStruct
	KwTrait
	KwImpl
	KwReturn
	KwIf
	KwThen
	KwElse
	KwElseif
	KwEnd
	KwWhile
	KwDo
	KwRepeat
	KwUntil
	KwFor
	KwIn
	KwBreak
	KwNil
	KwTrue
	KwFalse
	KwAnd
	KwOr
	KwNot
	KwType

	// Punctuation and operators
	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACKET
	RBRACKET
	COMMA
	DOT
	COLON
	SEMICOLON
	PLUS
	MINUS
	STAR
	SLASH
	PERCENT
	CARET
	HASH
	PIPE
	EQUAL
	EQUAL_EQUAL
	NOT_EQUAL
	LESS
	LESS_EQUAL
	GREATER
	GREATER_EQUAL
	CONCAT
	ELLIPSIS
)

var tokenKindNames = map[TokenKind]string{
	EOF:        "EOF",
	ERROR:      "ERROR",
	IDENTIFIER: "IDENTIFIER",
	STRING:     "STRING",
	NUMBER:     "NUMBER",

	KwLocal:    "local",
	KwFunction: "function",
	KwStruct:   "struct",
	KwTrait:    "trait",
	KwImpl:     "impl",
	KwReturn:   "return",
	KwIf:       "if",
	KwThen:     "then",
	KwElse:     "else",
	KwElseif:   "elseif",
	KwEnd:      "end",
	KwWhile:    "while",
	KwDo:       "do",
	KwRepeat:   "repeat",
	KwUntil:    "until",
	KwFor:      "for",
	KwIn:       "in",
	KwBreak:    "break",
	KwNil:      "nil",
	KwTrue:     "true",
	KwFalse:    "false",
	KwAnd:      "and",
	KwOr:       "or",
	KwNot:      "not",
	KwType:     "type",

	LPAREN:        "LPAREN",
	RPAREN:        "RPAREN",
	LBRACE:        "LBRACE",
	RBRACE:        "RBRACE",
	LBRACKET:      "LBRACKET",
	RBRACKET:      "RBRACKET",
	COMMA:         "COMMA",
	DOT:           "DOT",
	COLON:         "COLON",
	SEMICOLON:     "SEMICOLON",
	PLUS:          "PLUS",
	MINUS:         "MINUS",
	STAR:          "STAR",
	SLASH:         "SLASH",
	PERCENT:       "PERCENT",
	CARET:         "CARET",
	HASH:          "HASH",
	PIPE:          "PIPE",
	EQUAL:         "EQUAL",
	EQUAL_EQUAL:   "EQUAL_EQUAL",
	NOT_EQUAL:     "NOT_EQUAL",
	LESS:          "LESS",
	LESS_EQUAL:    "LESS_EQUAL",
	GREATER:       "GREATER",
	GREATER_EQUAL: "GREATER_EQUAL",
	CONCAT:        "CONCAT",
	ELLIPSIS:      "ELLIPSIS",
}

func (k TokenKind) String() string {
	if s, ok := tokenKindNames[k]; ok {
		return s
	}
	return "UNKNOWN"
}

// keywords maps the reserved identifiers of spec §6.1 to their token kind.
var keywords = map[string]TokenKind{
	"local":    KwLocal,
	"function": KwFunction,
	"struct":   KwStruct,
	"trait":    KwTrait,
	"impl":     KwImpl,
	"return":   KwReturn,
	"if":       KwIf,
	"then":     KwThen,
	"else":     KwElse,
	"elseif":   KwElseif,
	"end":      KwEnd,
	"while":    KwWhile,
	"do":       KwDo,
	"repeat":   KwRepeat,
	"until":    KwUntil,
	"for":      KwFor,
	"in":       KwIn,
	"break":    KwBreak,
	"nil":      KwNil,
	"true":     KwTrue,
	"false":    KwFalse,
	"and":      KwAnd,
	"or":       KwOr,
	"not":      KwNot,
	"type":     KwType,
}

// Token is an immutable lexical unit: a kind tag, a handle into the
// string pool for its textual form, the source line it starts on, and
// the byte span of the lexeme in the original source (spec §3.1).
type Token struct {
	Kind  TokenKind
	Text  Sym
	Line  int
	Start int
	Len   int
}

func (t Token) End() int { return t.Start + t.Len }
