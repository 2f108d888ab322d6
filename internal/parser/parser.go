// Package parser builds the raw AST consumed by the expression compiler.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"remap/internal/ast"
	"remap/internal/diag"
	"remap/internal/lexer"
	"remap/internal/source"
	"remap/internal/token"
	"remap/internal/value"
)

// Parse scans and parses one file into a raw program. Syntax problems go
// into the bag; the parser synchronizes at statement separators and keeps
// going, so one pass reports as many errors as it can. The program is
// usable only when the bag has no errors.
func Parse(file source.FileID, content []byte, bag *diag.Bag) *ast.Program {
	toks := lexer.New(file, content, bag).Tokens()
	p := &parser{toks: toks, bag: bag}
	return p.parseProgram()
}

type parser struct {
	toks []token.Token
	pos  int
	bag  *diag.Bag
}

func (p *parser) parseProgram() *ast.Program {
	prog := &ast.Program{}
	p.skipSeparators()
	for !p.at(token.EOF) {
		stmt := p.parseExpr()
		if stmt != nil {
			prog.Stmts = append(prog.Stmts, stmt)
			prog.Sp = prog.Sp.Cover(stmt.Span())
		} else {
			p.synchronize()
		}
		if !p.at(token.EOF) && !p.cur().IsSeparator() {
			p.report(diag.SynUnexpectedToken, p.cur().Span,
				"expected end of statement, found %s", p.cur().Kind)
			p.synchronize()
		}
		p.skipSeparators()
	}
	if len(prog.Stmts) > 0 {
		first := prog.Stmts[0].Span()
		prog.Sp = first.Cover(prog.Sp)
	}
	return prog
}

// Binary operators by precedence, loosest first.
var precedence = [][]struct {
	tok token.Kind
	op  ast.BinOp
}{
	{{token.OrOr, ast.OpOr}},
	{{token.AndAnd, ast.OpAnd}},
	{{token.EqEq, ast.OpEq}, {token.BangEq, ast.OpNe}},
	{
		{token.Gt, ast.OpGt}, {token.GtEq, ast.OpGe},
		{token.Lt, ast.OpLt}, {token.LtEq, ast.OpLe},
	},
	{{token.Plus, ast.OpAdd}, {token.Minus, ast.OpSub}},
	{{token.Star, ast.OpMul}, {token.Slash, ast.OpDiv}},
}

// parseExpr parses one expression. Assignment binds loosest and
// associates to the right; only a query or a variable may be assigned.
func (p *parser) parseExpr() ast.Node {
	lhs := p.parseBinary(0)
	if lhs == nil || !p.at(token.Assign) {
		return lhs
	}
	switch lhs.(type) {
	case *ast.Query, *ast.Variable:
	default:
		p.report(diag.SynUnexpectedToken, p.cur().Span,
			"only a field path or a variable can be assigned to")
		return nil
	}
	p.pos++ // '='
	rhs := p.parseExpr()
	if rhs == nil {
		return nil
	}
	return &ast.Assign{
		Target: lhs,
		Value:  rhs,
		Sp:     lhs.Span().Cover(rhs.Span()),
	}
}

func (p *parser) parseBinary(level int) ast.Node {
	if level >= len(precedence) {
		return p.parsePrimary()
	}
	lhs := p.parseBinary(level + 1)
	if lhs == nil {
		return nil
	}
	for {
		op, ok := p.matchOp(level)
		if !ok {
			return lhs
		}
		rhs := p.parseBinary(level + 1)
		if rhs == nil {
			return nil
		}
		lhs = &ast.Binary{
			Op:  op,
			Lhs: lhs,
			Rhs: rhs,
			Sp:  lhs.Span().Cover(rhs.Span()),
		}
	}
}

func (p *parser) matchOp(level int) (ast.BinOp, bool) {
	for _, cand := range precedence[level] {
		if p.at(cand.tok) {
			p.pos++
			return cand.op, true
		}
	}
	return 0, false
}

func (p *parser) parsePrimary() ast.Node {
	t := p.cur()
	switch t.Kind {
	case token.StringLit:
		p.pos++
		return &ast.Literal{Val: value.String(t.Text), Sp: t.Span}

	case token.IntLit:
		p.pos++
		i, err := strconv.ParseInt(strings.ReplaceAll(t.Text, "_", ""), 10, 64)
		if err != nil {
			p.report(diag.SynInvalidNumber, t.Span, "integer literal out of range")
			return nil
		}
		return &ast.Literal{Val: value.Integer(i), Sp: t.Span}

	case token.FloatLit:
		p.pos++
		f, err := strconv.ParseFloat(strings.ReplaceAll(t.Text, "_", ""), 64)
		if err != nil {
			p.report(diag.SynInvalidNumber, t.Span, "invalid float literal")
			return nil
		}
		return &ast.Literal{Val: value.Float(f), Sp: t.Span}

	case token.KwTrue:
		p.pos++
		return &ast.Literal{Val: value.Boolean(true), Sp: t.Span}

	case token.KwFalse:
		p.pos++
		return &ast.Literal{Val: value.Boolean(false), Sp: t.Span}

	case token.KwNull:
		p.pos++
		return &ast.Literal{Val: value.Null(), Sp: t.Span}

	case token.Ident:
		p.pos++
		return &ast.Variable{Name: t.Text, Sp: t.Span}

	case token.Dot:
		return p.parseQuery()

	case token.KwAbort:
		return p.parseAbort()

	case token.KwIf:
		return p.parseIf()

	case token.LBrace:
		return p.parseBlock()

	case token.LParen:
		p.pos++
		inner := p.parseExpr()
		if inner == nil {
			return nil
		}
		if !p.expect(token.RParen) {
			return nil
		}
		return inner

	case token.EOF:
		p.report(diag.SynUnexpectedEOF, t.Span, "expected expression, found end of program")
		return nil

	default:
		p.report(diag.SynUnexpectedToken, t.Span, "expected expression, found %s", t.Kind)
		return nil
	}
}

func (p *parser) parseQuery() ast.Node {
	start := p.cur().Span
	sp := start
	var path []string
	for p.at(token.Dot) {
		p.pos++
		t := p.cur()
		if t.Kind != token.Ident {
			p.report(diag.SynUnexpectedToken, t.Span, "expected field name, found %s", t.Kind)
			return nil
		}
		p.pos++
		path = append(path, t.Text)
		sp = sp.Cover(t.Span)
	}
	return &ast.Query{Path: path, Sp: sp}
}

func (p *parser) parseAbort() ast.Node {
	start := p.cur().Span
	p.pos++ // abort

	// The message expression is optional: anything that can start an
	// expression on the same statement continues the abort.
	if p.at(token.EOF) || p.cur().IsSeparator() || p.at(token.RBrace) {
		return &ast.Abort{Sp: start}
	}
	msg := p.parseExpr()
	if msg == nil {
		return nil
	}
	return &ast.Abort{Message: msg, Sp: start.Cover(msg.Span())}
}

func (p *parser) parseIf() ast.Node {
	start := p.cur().Span
	p.pos++ // if

	cond := p.parseExpr()
	if cond == nil {
		return nil
	}
	then := p.parseBlock()
	if then == nil {
		return nil
	}
	node := &ast.If{Cond: cond, Then: then, Sp: start.Cover(then.Span())}

	if p.at(token.KwElse) {
		p.pos++
		var alt ast.Node
		if p.at(token.KwIf) {
			alt = p.parseIf()
		} else {
			alt = p.parseBlock()
		}
		if alt == nil {
			return nil
		}
		node.Else = alt
		node.Sp = node.Sp.Cover(alt.Span())
	}
	return node
}

func (p *parser) parseBlock() ast.Node {
	start := p.cur().Span
	if !p.expect(token.LBrace) {
		return nil
	}
	block := &ast.Block{Sp: start}
	p.skipSeparators()
	for !p.at(token.RBrace) {
		if p.at(token.EOF) {
			p.report(diag.SynUnexpectedEOF, p.cur().Span, "unclosed block")
			return nil
		}
		stmt := p.parseExpr()
		if stmt == nil {
			return nil
		}
		block.Stmts = append(block.Stmts, stmt)
		if !p.at(token.RBrace) && !p.cur().IsSeparator() {
			p.report(diag.SynUnexpectedToken, p.cur().Span,
				"expected end of statement, found %s", p.cur().Kind)
			return nil
		}
		p.skipSeparators()
	}
	block.Sp = start.Cover(p.cur().Span)
	p.pos++ // closing brace
	return block
}

func (p *parser) cur() token.Token {
	return p.toks[p.pos]
}

func (p *parser) at(k token.Kind) bool {
	return p.cur().Kind == k
}

func (p *parser) expect(k token.Kind) bool {
	if p.at(k) {
		p.pos++
		return true
	}
	p.report(diag.SynUnexpectedToken, p.cur().Span, "expected %s, found %s", k, p.cur().Kind)
	return false
}

func (p *parser) skipSeparators() {
	for p.cur().IsSeparator() {
		p.pos++
	}
}

// synchronize advances to the next statement boundary after an error.
func (p *parser) synchronize() {
	for !p.at(token.EOF) && !p.cur().IsSeparator() {
		p.pos++
	}
}

func (p *parser) report(code diag.Code, sp source.Span, format string, args ...any) {
	d := diag.NewError(code, diag.Primary(fmt.Sprintf(format, args...), sp))
	p.bag.Add(d)
}
