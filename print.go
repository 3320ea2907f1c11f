package luatyped

import (
	"fmt"
	"io"
	"strings"

	"github.com/MentaalAchtergesteld/lua-typed/ascii"
)

// DumpTokens writes the token table dump of spec §6.4: a header line
// followed by one `LINE KIND TEXT` row per token.
func DumpTokens(w io.Writer, tokens []Token, pool *Pool) {
	fmt.Fprintf(w, "--- TOKENS (%d) ---\n", len(tokens))
	for _, t := range tokens {
		text := pool.Text(t.Text)
		fmt.Fprintf(w, "%4d %-14s %s\n", t.Line, t.Kind.String(), ascii.Color(ascii.DefaultTheme.Literal, "%s", text))
	}
}

// printer holds the indentation state for the tree dump of spec §6.4:
// two spaces per level, one node per line.
type printer struct {
	w      io.Writer
	pool   *Pool
	theme  ascii.Theme
	indent int
}

// DumpStmt prints root as an indented tree with concrete keyword
// labels (BLOCK, IF ... THEN, STRUCT name, ...) matching the source
// language's surface syntax.
func DumpStmt(w io.Writer, root Stmt, pool *Pool) {
	p := &printer{w: w, pool: pool, theme: ascii.DefaultTheme}
	p.stmt(root)
}

func (p *printer) writel(label string) {
	fmt.Fprintf(p.w, "%s%s\n", strings.Repeat("  ", p.indent), label)
}

func (p *printer) nested(f func()) {
	p.indent++
	f()
	p.indent--
}

func (p *printer) name(s Sym) string {
	return ascii.Color(p.theme.Label, "%s", p.pool.Text(s))
}

func (p *printer) stmt(s Stmt) {
	if s == nil {
		p.writel("<nil>")
		return
	}
	switch n := s.(type) {
	case *BlockStmt:
		p.writel("BLOCK")
		p.nested(func() {
			for _, c := range n.Stmts {
				p.stmt(c)
			}
		})
	case *ExprStmt:
		p.writel("EXPR")
		p.nested(func() { p.expr(n.X) })
	case *ReturnStmt:
		p.writel("RETURN")
		p.nested(func() {
			for _, v := range n.Values {
				p.expr(v)
			}
		})
	case *BreakStmt:
		p.writel("BREAK")
	case *AssignStmt:
		p.writel("ASSIGN")
		p.nested(func() {
			p.writel("TARGETS")
			p.nested(func() {
				for _, t := range n.Targets {
					p.expr(t)
				}
			})
			p.writel("VALUES")
			p.nested(func() {
				for _, v := range n.Values {
					p.expr(v)
				}
			})
		})
	case *LocalStmt:
		p.writel("LOCAL")
		p.nested(func() {
			for _, d := range n.Decls {
				p.param("DECL", d)
			}
			for _, v := range n.Values {
				p.expr(v)
			}
		})
	case *IfStmt:
		p.writel("IF ... THEN")
		p.nested(func() {
			p.expr(n.Cond)
			p.stmt(n.Then)
			if n.Else != nil {
				p.writel("ELSE")
				p.nested(func() { p.stmt(n.Else) })
			}
		})
	case *WhileStmt:
		p.writel("WHILE ... DO")
		p.nested(func() {
			p.expr(n.Cond)
			p.stmt(n.Body)
		})
	case *RepeatStmt:
		p.writel("REPEAT ... UNTIL")
		p.nested(func() {
			p.stmt(n.Body)
			p.expr(n.Cond)
		})
	case *ForNumStmt:
		p.writel(fmt.Sprintf("FOR %s = ... DO", p.name(n.Name)))
		p.nested(func() {
			p.expr(n.Start)
			p.expr(n.End)
			if n.Step != nil {
				p.expr(n.Step)
			}
			p.stmt(n.Body)
		})
	case *ForGenStmt:
		p.writel("FOR ... IN ... DO")
		p.nested(func() {
			p.expr(n.Iter)
			p.stmt(n.Body)
		})
	case *FunctionStmt:
		p.writel(fmt.Sprintf("FUNCTION %s", p.name(n.Name)))
		p.nested(func() {
			p.sig(n.Sig)
			p.stmt(n.Body)
		})
	case *StructStmt:
		p.writel(fmt.Sprintf("STRUCT %s", p.name(n.Name)))
		p.nested(func() {
			for _, f := range n.Fields {
				p.param("FIELD", f)
			}
		})
	case *TraitStmt:
		p.writel(fmt.Sprintf("TRAIT %s", p.name(n.Name)))
		p.nested(func() {
			for _, m := range n.Methods {
				p.writel(fmt.Sprintf("METHOD %s", p.name(m.Name)))
				p.nested(func() { p.sig(m.Sig) })
			}
		})
	case *ImplStmt:
		label := "IMPL " + p.name(n.TargetName)
		if n.HasTrait {
			label = "IMPL " + p.name(n.TraitName) + " FOR " + p.name(n.TargetName)
		}
		p.writel(label)
		p.nested(func() {
			for _, fn := range n.Functions {
				p.stmt(fn)
			}
		})
	case *TypeAliasStmt:
		p.writel(fmt.Sprintf("TYPE %s = ...", p.name(n.Name)))
		p.nested(func() { p.typ(n.Type) })
	default:
		p.writel(fmt.Sprintf("UNKNOWN STMT %T", n))
	}
}

func (p *printer) param(label string, prm Param) {
	p.writel(fmt.Sprintf("%s %s", label, p.name(prm.Name)))
	if prm.Type != nil {
		p.nested(func() { p.typ(prm.Type) })
	}
}

func (p *printer) sig(sig *FuncSignature) {
	for _, g := range sig.Generics {
		p.writel(fmt.Sprintf("GENERIC %s", p.name(g.Name)))
	}
	for _, prm := range sig.Params {
		p.param("PARAM", prm)
	}
	for _, r := range sig.Returns {
		p.writel("RETURNS")
		p.nested(func() { p.typ(r) })
	}
}

func (p *printer) typ(t Type) {
	switch n := t.(type) {
	case *VoidType:
		p.writel("void")
	case *NilType:
		p.writel("nil")
	case *BoolType:
		p.writel("bool")
	case *NumberType:
		p.writel("number")
	case *StringType:
		p.writel("string")
	case *ArrayType:
		p.writel("ARRAY")
		p.nested(func() { p.typ(n.Inner) })
	case *UserType:
		p.writel(fmt.Sprintf("TYPE %s", p.name(n.Name)))
		p.nested(func() {
			for _, a := range n.Args {
				p.typ(a)
			}
		})
	case *GenericType:
		p.writel(fmt.Sprintf("GENERIC %s", p.name(n.Name)))
	case *FunctionType:
		p.writel("FUNCTION TYPE")
		p.nested(func() { p.sig(n.Sig) })
	default:
		p.writel(fmt.Sprintf("UNKNOWN TYPE %T", n))
	}
}

func binaryOpSym(op BinaryOp) string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpMod:
		return "%"
	case OpPow:
		return "^"
	case OpConcat:
		return ".."
	case OpEq:
		return "=="
	case OpNotEq:
		return "~="
	case OpLess:
		return "<"
	case OpLessEq:
		return "<="
	case OpGreater:
		return ">"
	case OpGreaterEq:
		return ">="
	case OpAnd:
		return "and"
	case OpOr:
		return "or"
	}
	return "?"
}

func unaryOpSym(op UnaryOp) string {
	switch op {
	case OpNeg:
		return "-"
	case OpNot:
		return "not"
	case OpLen:
		return "#"
	}
	return "?"
}

func (p *printer) expr(e Expr) {
	switch n := e.(type) {
	case *NilExpr:
		p.writel("nil")
	case *BoolExpr:
		p.writel(fmt.Sprintf("%v", n.Value))
	case *NumberExpr:
		p.writel(ascii.Color(p.theme.Literal, "%g", n.Value))
	case *StringExpr:
		p.writel(ascii.Color(p.theme.Literal, "%q", p.pool.Text(n.Value)))
	case *VariableExpr:
		p.writel(p.name(n.Name))
	case *VarargExpr:
		p.writel("...")
	case *BinaryExpr:
		p.writel(ascii.Color(p.theme.Operator, "%s", binaryOpSym(n.Op)))
		p.nested(func() {
			p.expr(n.Left)
			p.expr(n.Right)
		})
	case *UnaryExpr:
		p.writel(ascii.Color(p.theme.Operator, "%s", unaryOpSym(n.Op)))
		p.nested(func() { p.expr(n.Operand) })
	case *CallExpr:
		p.writel("CALL")
		p.nested(func() {
			p.expr(n.Callee)
			for _, a := range n.Args {
				p.expr(a)
			}
		})
	case *IndexExpr:
		p.writel("INDEX")
		p.nested(func() {
			p.expr(n.Target)
			p.expr(n.Index)
		})
	case *FieldExpr:
		p.writel(fmt.Sprintf("FIELD %s", p.name(n.Name)))
		p.nested(func() { p.expr(n.Target) })
	case *FuncExpr:
		p.writel("FUNCTION")
		p.nested(func() {
			p.sig(n.Sig)
			p.stmt(n.Body)
		})
	case *TableExpr:
		p.writel("TABLE")
		p.nested(func() {
			for _, ent := range n.Entries {
				if ent.Key != nil {
					p.expr(ent.Key)
				}
				p.expr(ent.Value)
			}
		})
	case *StructExpr:
		p.writel("STRUCT INIT")
		p.nested(func() {
			p.expr(n.Name)
			for _, ent := range n.Entries {
				p.expr(ent.Key)
				p.expr(ent.Value)
			}
		})
	default:
		p.writel(fmt.Sprintf("UNKNOWN EXPR %T", n))
	}
}
