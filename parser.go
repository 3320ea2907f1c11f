package luatyped

import (
	"fmt"
	"io"
	"os"
	"strconv"
)

// Parser consumes a token sequence produced by Tokenize and builds a
// typed AST via a Pratt expression parser plus a recursive-descent
// statement/type grammar, per spec §4.4. It never backtracks; syntax
// errors are reported in panic mode (spec §4.4.1, §7).
type Parser struct {
	tokens []Token
	cursor int
	arena  *Arena
	pool   *Pool

	panicMode bool
	hadError  bool
	stderr    io.Writer
}

// Parse runs the parser over tokens, allocating AST nodes against
// arena, and returns the program's root block alongside a success flag
// that is false if any lexical or syntactic error occurred, per spec
// §6.2. An unsuccessful parse's tree should not be trusted by callers.
func Parse(tokens []Token, arena *Arena, pool *Pool) (*BlockStmt, bool) {
	p := &Parser{tokens: tokens, arena: arena, pool: pool, stderr: os.Stderr}
	stmts := p.blockStmts()
	root := NewNode(p.arena, BlockStmt{Stmts: stmts})
	return root, !p.hadError
}

// ---- token stream primitives ----

func (p *Parser) current() Token {
	if p.cursor >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.cursor]
}

func (p *Parser) previous() Token {
	if p.cursor == 0 {
		return p.tokens[0]
	}
	return p.tokens[p.cursor-1]
}

func (p *Parser) check(kind TokenKind) bool { return p.current().Kind == kind }

// advance consumes and returns the current token. It never steps past
// a single trailing EOF token.
func (p *Parser) advance() Token {
	tok := p.current()
	if tok.Kind != EOF {
		p.cursor++
	}
	if tok.Kind == ERROR {
		p.errorAt(tok, p.pool.Text(tok.Text))
	}
	return tok
}

func (p *Parser) match(kind TokenKind) bool {
	if !p.check(kind) {
		return false
	}
	p.advance()
	return true
}

// consume advances past the current token if it matches kind, else
// reports msg at the current token's position without advancing.
func (p *Parser) consume(kind TokenKind, msg string) Token {
	if p.check(kind) {
		return p.advance()
	}
	p.errorAt(p.current(), msg)
	return p.current()
}

// ---- error handling (spec §4.4.1, §7) ----

// errorAt sets hadError, enters panic mode and emits the diagnostic of
// spec §6.3. While panicMode is set, further reports are suppressed so
// one mistake doesn't cascade into a flood of follow-on errors.
func (p *Parser) errorAt(tok Token, msg string) {
	if p.panicMode {
		return
	}
	p.panicMode = true
	p.hadError = true
	text := p.pool.Text(tok.Text)
	if tok.Kind == EOF {
		text = "EOF"
	}
	se := &SyntaxError{Line: tok.Line, Text: text, Message: msg}
	fmt.Fprintln(p.stderr, se.Error())
}

// synchronize clears panic mode and skips tokens until a statement
// boundary: a known statement-starting keyword at the cursor, or a
// semicolon just consumed.
func (p *Parser) synchronize() {
	p.panicMode = false
	for !p.check(EOF) {
		if p.previous().Kind == SEMICOLON {
			return
		}
		switch p.current().Kind {
		case KwLocal, KwFunction, KwStruct, KwTrait, KwImpl, KwType,
			KwIf, KwWhile, KwFor, KwRepeat, KwReturn, KwBreak:
			return
		}
		p.advance()
	}
}

// ---- type grammar (spec §4.4.3) ----

func (p *Parser) parseType() Type {
	if p.match(LBRACKET) {
		inner := p.parseType()
		p.consume(RBRACKET, "Expect ']' after array element type.")
		return NewNode(p.arena, ArrayType{Inner: inner})
	}
	if p.match(KwFunction) {
		sig := p.funcSignature()
		return NewNode(p.arena, FunctionType{Sig: sig})
	}
	tok := p.consume(IDENTIFIER, "Expect type name.")
	name := tok.Text
	var args []Type
	if p.match(LESS) {
		args = append(args, p.parseType())
		for p.match(COMMA) {
			args = append(args, p.parseType())
		}
		p.consume(GREATER, "Expect '>' after type arguments.")
	}
	switch p.pool.Text(name) {
	case "void":
		return NewNode(p.arena, VoidType{})
	case "nil":
		return NewNode(p.arena, NilType{})
	case "bool":
		return NewNode(p.arena, BoolType{})
	case "number":
		return NewNode(p.arena, NumberType{})
	case "string":
		return NewNode(p.arena, StringType{})
	default:
		return NewNode(p.arena, UserType{Name: name, Args: args})
	}
}

// typeArgsClause parses an optional '<' type (',' type)* '>' list, used
// by impl's target/trait names (spec §4.4.6).
func (p *Parser) typeArgsClause() []Type {
	if !p.match(LESS) {
		return nil
	}
	var args []Type
	args = append(args, p.parseType())
	for p.match(COMMA) {
		args = append(args, p.parseType())
	}
	p.consume(GREATER, "Expect '>' after type arguments.")
	return args
}

// ---- function signatures (spec §4.4.4) ----

func (p *Parser) genericsClause() []*GenericParam {
	if !p.match(LESS) {
		return nil
	}
	var gens []*GenericParam
	gens = append(gens, p.genericParam())
	for p.match(COMMA) {
		gens = append(gens, p.genericParam())
	}
	p.consume(GREATER, "Expect '>' after generic parameters.")
	return gens
}

func (p *Parser) genericParam() *GenericParam {
	name := p.consume(IDENTIFIER, "Expect generic parameter name.")
	var constraints []Type
	if p.match(COLON) {
		constraints = append(constraints, p.parseType())
		for p.match(PLUS) {
			constraints = append(constraints, p.parseType())
		}
	}
	return NewNode(p.arena, GenericParam{Name: name.Text, Constraints: constraints})
}

func (p *Parser) param() Param {
	name := p.consume(IDENTIFIER, "Expect parameter name.")
	p.consume(COLON, "Expect ':' after parameter name.")
	typ := p.parseType()
	return Param{Name: name.Text, Type: typ}
}

func (p *Parser) funcSignature() *FuncSignature {
	generics := p.genericsClause()
	p.consume(LPAREN, "Expect '(' to start parameter list.")
	var params []Param
	if !p.check(RPAREN) {
		params = append(params, p.param())
		for p.match(COMMA) {
			params = append(params, p.param())
		}
	}
	p.consume(RPAREN, "Expect ')' after parameters.")
	var returns []Type
	if p.match(COLON) {
		returns = append(returns, p.parseType())
		for p.match(COMMA) {
			returns = append(returns, p.parseType())
		}
	}
	return NewNode(p.arena, FuncSignature{Generics: generics, Params: params, Returns: returns})
}

// ---- statement grammar (spec §4.4.5) ----

func (p *Parser) blockEnds() bool {
	switch p.current().Kind {
	case KwEnd, KwElse, KwElseif, KwUntil, EOF:
		return true
	}
	return false
}

func (p *Parser) blockStmts() []Stmt {
	var stmts []Stmt
	for !p.blockEnds() {
		before := p.cursor
		s := p.statement()
		if p.panicMode {
			p.synchronize()
		}
		if s != nil {
			stmts = append(stmts, s)
		}
		if p.cursor == before {
			// Guard against an unconsuming production looping forever
			// on a token no statement form can start with.
			p.advance()
		}
	}
	return stmts
}

func (p *Parser) block() *BlockStmt {
	return NewNode(p.arena, BlockStmt{Stmts: p.blockStmts()})
}

func (p *Parser) statement() Stmt {
	switch p.current().Kind {
	case KwType:
		return p.typeAliasStmt()
	case KwImpl:
		return p.implStmt()
	case KwTrait:
		return p.traitStmt()
	case KwStruct:
		return p.structStmt()
	case KwFunction:
		return p.functionStmt()
	case KwLocal:
		return p.localStmt()
	case KwFor:
		return p.forStmt()
	case KwRepeat:
		return p.repeatStmt()
	case KwWhile:
		return p.whileStmt()
	case KwIf:
		return p.ifStmt()
	case KwBreak:
		p.advance()
		p.consume(SEMICOLON, "Expect ';' after 'break'.")
		return NewNode(p.arena, BreakStmt{})
	case KwReturn:
		return p.returnStmt()
	case SEMICOLON:
		// A bare statement terminator parses to nothing: neither an
		// error nor an ExprStmt placeholder (spec §8.3).
		p.advance()
		return nil
	default:
		return p.expressionOrAssignment()
	}
}

func (p *Parser) typeAliasStmt() Stmt {
	p.advance() // 'type'
	name := p.consume(IDENTIFIER, "Expect type name.")
	p.consume(EQUAL, "Expect '=' after type name.")
	typ := p.parseType()
	p.consume(SEMICOLON, "Expect ';' after type alias.")
	return NewNode(p.arena, TypeAliasStmt{Name: name.Text, Type: typ})
}

func (p *Parser) traitStmt() Stmt {
	p.advance() // 'trait'
	name := p.consume(IDENTIFIER, "Expect trait name.")
	generics := p.genericsClause()
	var methods []TraitMethod
	for p.check(KwFunction) {
		p.advance()
		mname := p.consume(IDENTIFIER, "Expect method name.")
		sig := p.funcSignature()
		methods = append(methods, TraitMethod{Name: mname.Text, Sig: sig})
	}
	p.consume(KwEnd, "Expect 'end' after trait body.")
	return NewNode(p.arena, TraitStmt{Name: name.Text, Generics: generics, Methods: methods})
}

func (p *Parser) structStmt() Stmt {
	p.advance() // 'struct'
	name := p.consume(IDENTIFIER, "Expect struct name.")
	generics := p.genericsClause()
	var fields []Param
	if !p.check(KwEnd) {
		fields = append(fields, p.param())
		for p.match(COMMA) {
			fields = append(fields, p.param())
		}
	}
	p.consume(KwEnd, "Expect 'end' after struct body.")
	return NewNode(p.arena, StructStmt{Name: name.Text, Generics: generics, Fields: fields})
}

// functionDecl parses 'function' IDENT funcsig block 'end', shared by
// the function statement and by impl's function_decl* list (spec
// §4.4.5, §4.4.6).
func (p *Parser) functionDecl() *FunctionStmt {
	p.consume(KwFunction, "Expect 'function'.")
	name := p.consume(IDENTIFIER, "Expect function name.")
	sig := p.funcSignature()
	body := p.block()
	p.consume(KwEnd, "Expect 'end' after function body.")
	return NewNode(p.arena, FunctionStmt{Name: name.Text, Sig: sig, Body: body})
}

func (p *Parser) functionStmt() Stmt {
	return p.functionDecl()
}

func (p *Parser) localParam() Param {
	name := p.consume(IDENTIFIER, "Expect local variable name.")
	var typ Type
	if p.match(COLON) {
		typ = p.parseType()
	}
	return Param{Name: name.Text, Type: typ}
}

func (p *Parser) localStmt() Stmt {
	p.advance() // 'local'
	var decls []Param
	decls = append(decls, p.localParam())
	for p.match(COMMA) {
		decls = append(decls, p.localParam())
	}
	var values []Expr
	if p.match(EQUAL) {
		values = append(values, p.parseExpression())
		for p.match(COMMA) {
			values = append(values, p.parseExpression())
		}
	}
	p.consume(SEMICOLON, "Expect ';' after local declaration.")
	return NewNode(p.arena, LocalStmt{Decls: decls, Values: values})
}

// forStmt disambiguates numeric vs generic for after the shared
// 'for' IDENT prefix, per spec §4.4.7.
func (p *Parser) forStmt() Stmt {
	p.advance() // 'for'
	first := p.consume(IDENTIFIER, "Expect variable name after 'for'.")

	if p.match(EQUAL) {
		start := p.parseExpression()
		p.consume(COMMA, "Expect ',' after numeric for start value.")
		end := p.parseExpression()
		var step Expr
		if p.match(COMMA) {
			step = p.parseExpression()
		}
		p.consume(KwDo, "Expect 'do' after numeric for clauses.")
		body := p.block()
		p.consume(KwEnd, "Expect 'end' after for body.")
		return NewNode(p.arena, ForNumStmt{Name: first.Text, Start: start, End: end, Step: step, Body: body})
	}

	names := []Sym{first.Text}
	for p.match(COMMA) {
		n := p.consume(IDENTIFIER, "Expect variable name.")
		names = append(names, n.Text)
	}
	p.consume(KwIn, "Expect 'in' in generic for.")
	iter := p.parseExpression()
	p.consume(KwDo, "Expect 'do' after for-in clause.")
	body := p.block()
	p.consume(KwEnd, "Expect 'end' after for body.")
	return NewNode(p.arena, ForGenStmt{Names: names, Iter: iter, Body: body})
}

func (p *Parser) repeatStmt() Stmt {
	p.advance() // 'repeat'
	body := p.block()
	p.consume(KwUntil, "Expect 'until' after repeat body.")
	cond := p.parseExpression()
	return NewNode(p.arena, RepeatStmt{Body: body, Cond: cond})
}

func (p *Parser) whileStmt() Stmt {
	p.advance() // 'while'
	cond := p.parseExpression()
	p.consume(KwDo, "Expect 'do' after while condition.")
	body := p.block()
	p.consume(KwEnd, "Expect 'end' after while body.")
	return NewNode(p.arena, WhileStmt{Cond: cond, Body: body})
}

func (p *Parser) ifStmt() Stmt {
	p.advance() // 'if'
	node := p.ifTail()
	p.consume(KwEnd, "Expect 'end' after if statement.")
	return node
}

// ifTail parses "expr 'then' block" followed by an optional elseif/else
// chain. The caller has already consumed the leading 'if' or 'elseif'
// keyword; ifTail does not consume the closing 'end'.
func (p *Parser) ifTail() *IfStmt {
	cond := p.parseExpression()
	p.consume(KwThen, "Expect 'then' after condition.")
	then := p.block()
	node := NewNode(p.arena, IfStmt{Cond: cond, Then: then})
	switch {
	case p.check(KwElseif):
		p.advance()
		node.Else = p.ifTail()
	case p.check(KwElse):
		p.advance()
		node.Else = p.block()
	}
	return node
}

func (p *Parser) returnStmt() Stmt {
	p.advance() // 'return'
	var values []Expr
	if !p.check(SEMICOLON) {
		values = append(values, p.parseExpression())
		for p.match(COMMA) {
			values = append(values, p.parseExpression())
		}
	}
	p.consume(SEMICOLON, "Expect ';' after return statement.")
	return NewNode(p.arena, ReturnStmt{Values: values})
}

// implStmt parses spec §4.4.6's grammar: when the 'for' clause is
// present the first name is the trait and the second the target;
// otherwise the single name is the target.
func (p *Parser) implStmt() Stmt {
	p.advance() // 'impl'
	generics := p.genericsClause()
	name1 := p.consume(IDENTIFIER, "Expect type name after 'impl'.")
	args1 := p.typeArgsClause()

	node := NewNode(p.arena, ImplStmt{Generics: generics})
	if p.match(KwFor) {
		name2 := p.consume(IDENTIFIER, "Expect target type name after 'for'.")
		args2 := p.typeArgsClause()
		node.HasTrait = true
		node.TraitName = name1.Text
		node.TraitArgs = args1
		node.TargetName = name2.Text
		node.TargetArgs = args2
	} else {
		node.TargetName = name1.Text
		node.TargetArgs = args1
	}
	for p.check(KwFunction) {
		node.Functions = append(node.Functions, p.functionDecl())
	}
	p.consume(KwEnd, "Expect 'end' after impl body.")
	return node
}

// expressionOrAssignment implements spec §4.4.8: a comma-separated
// expression list is either the target list of an assignment (if '='
// follows) or, when exactly one expression long, an expression
// statement. A longer list without '=' is a syntax error.
func (p *Parser) expressionOrAssignment() Stmt {
	exprs := []Expr{p.parseExpression()}
	for p.match(COMMA) {
		exprs = append(exprs, p.parseExpression())
	}
	if p.match(EQUAL) {
		values := []Expr{p.parseExpression()}
		for p.match(COMMA) {
			values = append(values, p.parseExpression())
		}
		p.consume(SEMICOLON, "Expect ';' after assignment.")
		return NewNode(p.arena, AssignStmt{Targets: exprs, Values: values})
	}
	if len(exprs) != 1 {
		p.errorAt(p.current(), "Expect '=' after expression list.")
	}
	p.consume(SEMICOLON, "Expect ';' after expression statement.")
	return NewNode(p.arena, ExprStmt{X: exprs[0]})
}

// ---- Pratt expression grammar (spec §4.4.2, §4.4.9) ----

// Precedence implements the eleven levels of spec §4.4.2, lowest to
// highest.
type Precedence int

const (
	PrecNone Precedence = iota
	PrecOr
	PrecAnd
	PrecComparison
	PrecConcat
	PrecTerm
	PrecFactor
	PrecUnary
	PrecPow
	PrecCall
	PrecPrimary
)

type prefixFn func(p *Parser) Expr
type infixFn func(p *Parser, left Expr) Expr

type infixRule struct {
	fn   infixFn
	prec Precedence
}

// prefixRules and infixRules are filled in by init rather than at
// declaration: their parselets call back into parsePrecedence, which
// reads both tables, and Go rejects that as an initialization cycle.
var (
	prefixRules map[TokenKind]prefixFn
	infixRules  map[TokenKind]infixRule
)

func init() {
	prefixRules = prefixRuleTable
	infixRules = infixRuleTable
}

var prefixRuleTable = map[TokenKind]prefixFn{
	KwNil:      prefixNilLiteral,
	KwTrue:     prefixBoolLiteral,
	KwFalse:    prefixBoolLiteral,
	ELLIPSIS:   prefixVararg,
	NUMBER:     prefixNumber,
	STRING:     prefixString,
	IDENTIFIER: prefixVariable,
	LPAREN:     prefixGrouping,
	MINUS:      prefixUnary,
	KwNot:      prefixUnary,
	HASH:       prefixUnary,
}

var infixRuleTable = map[TokenKind]infixRule{
	PLUS:          {leftAssocBinary(OpAdd), PrecTerm},
	MINUS:         {leftAssocBinary(OpSub), PrecTerm},
	STAR:          {leftAssocBinary(OpMul), PrecFactor},
	SLASH:         {leftAssocBinary(OpDiv), PrecFactor},
	PERCENT:       {leftAssocBinary(OpMod), PrecFactor},
	CARET:         {rightAssocBinary(OpPow), PrecPow},
	CONCAT:        {rightAssocBinary(OpConcat), PrecConcat},
	EQUAL_EQUAL:   {leftAssocBinary(OpEq), PrecComparison},
	NOT_EQUAL:     {leftAssocBinary(OpNotEq), PrecComparison},
	LESS:          {leftAssocBinary(OpLess), PrecComparison},
	LESS_EQUAL:    {leftAssocBinary(OpLessEq), PrecComparison},
	GREATER:       {leftAssocBinary(OpGreater), PrecComparison},
	GREATER_EQUAL: {leftAssocBinary(OpGreaterEq), PrecComparison},
	KwAnd:         {leftAssocBinary(OpAnd), PrecAnd},
	KwOr:          {leftAssocBinary(OpOr), PrecOr},
	LPAREN:        {infixCall, PrecCall},
	LBRACKET:      {infixIndex, PrecCall},
	DOT:           {infixField, PrecCall},
	LBRACE:        {infixStructInit, PrecCall},
}

// parseExpression enters the Pratt parser at OR, the lowest real
// precedence level.
func (p *Parser) parseExpression() Expr {
	return p.parsePrecedence(PrecOr)
}

// parsePrecedence consumes a prefix parselet for the current token,
// then repeatedly consumes an infix parselet while the next token's
// precedence is at least min.
func (p *Parser) parsePrecedence(min Precedence) Expr {
	tok := p.current()
	prefix, ok := prefixRules[tok.Kind]
	if !ok {
		p.errorAt(tok, "Expect expression.")
		p.advance()
		return NewNode(p.arena, NilExpr{})
	}
	left := prefix(p)

	for {
		rule, ok := infixRules[p.current().Kind]
		if !ok || rule.prec < min {
			break
		}
		left = rule.fn(p, left)
	}
	return left
}

func prefixNilLiteral(p *Parser) Expr {
	p.advance()
	return NewNode(p.arena, NilExpr{})
}

func prefixBoolLiteral(p *Parser) Expr {
	tok := p.advance()
	return NewNode(p.arena, BoolExpr{Value: tok.Kind == KwTrue})
}

func prefixVararg(p *Parser) Expr {
	p.advance()
	return NewNode(p.arena, VarargExpr{})
}

// prefixNumber converts the lexeme text via standard decimal-to-double
// conversion, per spec §4.4.2.
func prefixNumber(p *Parser) Expr {
	tok := p.advance()
	v, _ := strconv.ParseFloat(p.pool.Text(tok.Text), 64)
	return NewNode(p.arena, NumberExpr{Value: v})
}

func prefixString(p *Parser) Expr {
	tok := p.advance()
	return NewNode(p.arena, StringExpr{Value: tok.Text})
}

func prefixVariable(p *Parser) Expr {
	tok := p.advance()
	return NewNode(p.arena, VariableExpr{Name: tok.Text})
}

func prefixGrouping(p *Parser) Expr {
	p.advance() // '('
	e := p.parseExpression()
	p.consume(RPAREN, "Expect ')' after expression.")
	return e
}

func prefixUnary(p *Parser) Expr {
	tok := p.advance()
	operand := p.parsePrecedence(PrecUnary)
	var op UnaryOp
	switch tok.Kind {
	case MINUS:
		op = OpNeg
	case KwNot:
		op = OpNot
	case HASH:
		op = OpLen
	}
	return NewNode(p.arena, UnaryExpr{Op: op, Operand: operand})
}

// leftAssocBinary builds an infixFn that recurses one precedence level
// higher than its own, giving left-to-right grouping.
func leftAssocBinary(op BinaryOp) infixFn {
	return func(p *Parser, left Expr) Expr {
		prec := infixRules[p.current().Kind].prec
		p.advance() // operator
		right := p.parsePrecedence(prec + 1)
		return NewNode(p.arena, BinaryExpr{Op: op, Left: left, Right: right})
	}
}

// rightAssocBinary builds an infixFn that recurses at the same
// precedence level, giving right-to-left grouping ('^' and '..').
func rightAssocBinary(op BinaryOp) infixFn {
	return func(p *Parser, left Expr) Expr {
		prec := infixRules[p.current().Kind].prec
		p.advance() // operator
		right := p.parsePrecedence(prec)
		return NewNode(p.arena, BinaryExpr{Op: op, Left: left, Right: right})
	}
}

func infixCall(p *Parser, left Expr) Expr {
	p.advance() // '('
	var args []Expr
	if !p.check(RPAREN) {
		args = append(args, p.parseExpression())
		for p.match(COMMA) {
			args = append(args, p.parseExpression())
		}
	}
	p.consume(RPAREN, "Expect ')' after arguments.")
	return NewNode(p.arena, CallExpr{Callee: left, Args: args})
}

func infixIndex(p *Parser, left Expr) Expr {
	p.advance() // '['
	idx := p.parseExpression()
	p.consume(RBRACKET, "Expect ']' after index.")
	return NewNode(p.arena, IndexExpr{Target: left, Index: idx})
}

func infixField(p *Parser, left Expr) Expr {
	p.advance() // '.'
	name := p.consume(IDENTIFIER, "Expect field name after '.'.")
	return NewNode(p.arena, FieldExpr{Target: left, Name: name.Text})
}

// infixStructInit parses the postfix struct initializer: entries of
// the form `key : value`, comma-separated, closed by '}'. left becomes
// the initializer's name expression (spec §4.4.2).
func infixStructInit(p *Parser, left Expr) Expr {
	p.advance() // '{'
	var entries []StructEntry
	if !p.check(RBRACE) {
		for {
			keyTok := p.consume(IDENTIFIER, "Expect field name in struct initializer.")
			key := Expr(NewNode(p.arena, VariableExpr{Name: keyTok.Text}))
			p.consume(COLON, "Expect ':' after struct field name.")
			value := p.parseExpression()
			entries = append(entries, StructEntry{Key: key, Value: value})
			if !p.match(COMMA) {
				break
			}
		}
	}
	p.consume(RBRACE, "Expect '}' after struct initializer.")
	return NewNode(p.arena, StructExpr{Name: left, Entries: entries})
}
