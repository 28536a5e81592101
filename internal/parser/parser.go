// Package parser builds an internal/ast tree from the token stream
// produced by internal/lexer. It's a hand-written recursive descent
// parser, one function per grammar production, following SysY's
// standard precedence climb (LOrExp > LAndExp > EqExp > RelExp > AddExp
// > MulExp > UnaryExp).
package parser

import (
	"fmt"

	"sysyc/internal/ast"
	"sysyc/internal/diag"
	"sysyc/internal/lexer"
)

// Parser drives a buffered cursor over a lexer.Lexer's token stream. The
// lexer is a one-shot channel producer (backing up its goroutine is not
// possible), so speculative lookahead reads tokens into buf and rewinds by
// resetting idx rather than by touching the lexer itself.
type Parser struct {
	lex *lexer.Lexer
	buf []lexer.Item
	idx int
	bag *diag.Bag
}

// Parse tokenizes and parses src, returning the resulting CompUnit. Parse
// errors are recorded in bag; Parse always returns a non-nil CompUnit (best
// effort) so callers can decide whether to continue past diag.Bag.HasErrors.
func Parse(src string, bag *diag.Bag) *ast.CompUnit {
	p := &Parser{lex: lexer.New(src), bag: bag}
	return p.parseCompUnit()
}

// tok returns the current lookahead token, fetching it from the lexer on
// first need.
func (p *Parser) tok() lexer.Item {
	for p.idx >= len(p.buf) {
		p.buf = append(p.buf, p.lex.Next())
	}
	return p.buf[p.idx]
}

func (p *Parser) advance() {
	p.tok()
	p.idx++
}

// mark returns a cursor position to later rewind to with reset, for
// speculative parses that may need to backtrack.
func (p *Parser) mark() int { return p.idx }

func (p *Parser) reset(m int) { p.idx = m }

func (p *Parser) pos() ast.Pos {
	return ast.Pos{Line: p.tok().Line, Col: p.tok().Col}
}

func (p *Parser) errorf(format string, args ...interface{}) {
	p.bag.Add(diag.Parse, p.tok().Line, p.tok().Col, format, args...)
}

// expect consumes the current token if it matches tok, recording a parse
// diagnostic and leaving the cursor in place otherwise.
func (p *Parser) expect(tok lexer.Token) lexer.Item {
	cur := p.tok()
	if cur.Tok != tok {
		p.errorf("expected %s, got %s %q", tok, cur.Tok, cur.Val)
		return cur
	}
	p.advance()
	return cur
}

func (p *Parser) at(toks ...lexer.Token) bool {
	for _, t := range toks {
		if p.tok().Tok == t {
			return true
		}
	}
	return false
}

// synchronize skips tokens until a statement/declaration boundary, so a
// single malformed construct does not cascade into spurious diagnostics for
// the remainder of the file.
func (p *Parser) synchronize() {
	for !p.at(lexer.Semi, lexer.RBrace, lexer.EOF) {
		p.advance()
	}
	if p.at(lexer.Semi) {
		p.advance()
	}
}

func (p *Parser) parseCompUnit() *ast.CompUnit {
	cu := &ast.CompUnit{}
	for !p.at(lexer.EOF) {
		item := p.parseTopLevel()
		if item != nil {
			cu.Items = append(cu.Items, item)
		}
	}
	return cu
}

// parseTopLevel disambiguates ConstDecl / VarDecl / FuncDef, all of which
// start with `const`? `int`|`void` ...; a function definition is
// distinguished by `ident (` following the type.
func (p *Parser) parseTopLevel() ast.TopLevel {
	if p.at(lexer.Const) {
		return p.parseConstDecl()
	}
	if p.at(lexer.Void) {
		return p.parseFuncDef(ast.FuncVoid)
	}
	if p.at(lexer.Int) {
		// Lookahead: `int ident (` is a function; anything else is a VarDecl.
		m := p.mark()
		p.advance() // consume 'int'
		if p.at(lexer.Ident) {
			p.advance()
			if p.at(lexer.LParen) {
				p.reset(m)
				return p.parseFuncDef(ast.FuncInt)
			}
		}
		p.reset(m)
		return p.parseVarDecl()
	}
	p.errorf("expected declaration or function definition, got %s %q", p.tok().Tok, p.tok().Val)
	p.synchronize()
	return nil
}

func (p *Parser) parseConstDecl() *ast.ConstDecl {
	pos := p.pos()
	p.expect(lexer.Const)
	p.expect(lexer.Int)
	decl := &ast.ConstDecl{Pos: pos}
	decl.Defs = append(decl.Defs, p.parseConstDef())
	for p.at(lexer.Comma) {
		p.advance()
		decl.Defs = append(decl.Defs, p.parseConstDef())
	}
	p.expect(lexer.Semi)
	return decl
}

func (p *Parser) parseConstDef() *ast.ConstDef {
	pos := p.pos()
	name := p.expect(lexer.Ident).Val
	var dims []ast.Expr
	for p.at(lexer.LBracket) {
		p.advance()
		dims = append(dims, p.parseAddExp())
		p.expect(lexer.RBracket)
	}
	p.expect(lexer.Assign)
	init := p.parseInitVal()
	return &ast.ConstDef{Pos: pos, Name: name, Dims: dims, InitVal: init}
}

func (p *Parser) parseVarDecl() *ast.VarDecl {
	pos := p.pos()
	p.expect(lexer.Int)
	decl := &ast.VarDecl{Pos: pos}
	decl.Defs = append(decl.Defs, p.parseVarDef())
	for p.at(lexer.Comma) {
		p.advance()
		decl.Defs = append(decl.Defs, p.parseVarDef())
	}
	p.expect(lexer.Semi)
	return decl
}

func (p *Parser) parseVarDef() *ast.VarDef {
	pos := p.pos()
	name := p.expect(lexer.Ident).Val
	var dims []ast.Expr
	for p.at(lexer.LBracket) {
		p.advance()
		dims = append(dims, p.parseAddExp())
		p.expect(lexer.RBracket)
	}
	def := &ast.VarDef{Pos: pos, Name: name, Dims: dims}
	if p.at(lexer.Assign) {
		p.advance()
		def.InitVal = p.parseInitVal()
	}
	return def
}

func (p *Parser) parseInitVal() ast.InitVal {
	pos := p.pos()
	if p.at(lexer.LBrace) {
		p.advance()
		list := &ast.ListInit{Pos: pos}
		if !p.at(lexer.RBrace) {
			list.Elements = append(list.Elements, p.parseInitVal())
			for p.at(lexer.Comma) {
				p.advance()
				list.Elements = append(list.Elements, p.parseInitVal())
			}
		}
		p.expect(lexer.RBrace)
		return list
	}
	return &ast.ScalarInit{Pos: pos, Expr: p.parseExp()}
}

func (p *Parser) parseFuncDef(ret ast.FuncType) *ast.FuncDef {
	pos := p.pos()
	if ret == ast.FuncVoid {
		p.expect(lexer.Void)
	} else {
		p.expect(lexer.Int)
	}
	name := p.expect(lexer.Ident).Val
	p.expect(lexer.LParen)
	var params []*ast.Param
	if !p.at(lexer.RParen) {
		params = append(params, p.parseParam())
		for p.at(lexer.Comma) {
			p.advance()
			params = append(params, p.parseParam())
		}
	}
	p.expect(lexer.RParen)
	body := p.parseBlock()
	return &ast.FuncDef{Pos: pos, Ret: ret, Name: name, Params: params, Body: body}
}

func (p *Parser) parseParam() *ast.Param {
	pos := p.pos()
	p.expect(lexer.Int)
	name := p.expect(lexer.Ident).Val
	param := &ast.Param{Pos: pos, Name: name}
	if p.at(lexer.LBracket) {
		param.ArrayParam = true
		p.advance() // '['
		p.expect(lexer.RBracket)
		for p.at(lexer.LBracket) {
			p.advance()
			param.Dims = append(param.Dims, p.parseAddExp())
			p.expect(lexer.RBracket)
		}
	}
	return param
}

func (p *Parser) parseBlock() *ast.Block {
	pos := p.pos()
	p.expect(lexer.LBrace)
	b := &ast.Block{Pos: pos}
	for !p.at(lexer.RBrace, lexer.EOF) {
		b.Items = append(b.Items, p.parseBlockItem())
	}
	p.expect(lexer.RBrace)
	return b
}

func (p *Parser) parseBlockItem() ast.BlockItem {
	if p.at(lexer.Const) {
		return p.parseConstDecl()
	}
	if p.at(lexer.Int) {
		return p.parseVarDecl()
	}
	return p.parseStmt()
}

func (p *Parser) parseStmt() ast.Stmt {
	switch {
	case p.at(lexer.LBrace):
		pos := p.pos()
		return &ast.BlockStmt{Pos: pos, Block: p.parseBlock()}
	case p.at(lexer.If):
		return p.parseIf()
	case p.at(lexer.While):
		return p.parseWhile()
	case p.at(lexer.Break):
		pos := p.pos()
		p.advance()
		p.expect(lexer.Semi)
		return &ast.BreakStmt{Pos: pos}
	case p.at(lexer.Continue):
		pos := p.pos()
		p.advance()
		p.expect(lexer.Semi)
		return &ast.ContinueStmt{Pos: pos}
	case p.at(lexer.Return):
		pos := p.pos()
		p.advance()
		var val ast.Expr
		if !p.at(lexer.Semi) {
			val = p.parseExp()
		}
		p.expect(lexer.Semi)
		return &ast.ReturnStmt{Pos: pos, Value: val}
	case p.at(lexer.Semi):
		pos := p.pos()
		p.advance()
		return &ast.ExprStmt{Pos: pos}
	default:
		return p.parseAssignOrExprStmt()
	}
}

func (p *Parser) parseIf() *ast.IfStmt {
	pos := p.pos()
	p.expect(lexer.If)
	p.expect(lexer.LParen)
	cond := p.parseExp()
	p.expect(lexer.RParen)
	then := p.parseStmt()
	stmt := &ast.IfStmt{Pos: pos, Cond: cond, Then: then}
	if p.at(lexer.Else) {
		p.advance()
		stmt.Else = p.parseStmt()
	}
	return stmt
}

func (p *Parser) parseWhile() *ast.WhileStmt {
	pos := p.pos()
	p.expect(lexer.While)
	p.expect(lexer.LParen)
	cond := p.parseExp()
	p.expect(lexer.RParen)
	body := p.parseStmt()
	return &ast.WhileStmt{Pos: pos, Cond: cond, Body: body}
}

// parseAssignOrExprStmt disambiguates `lval = exp ;` from a bare expression
// statement by speculatively parsing an LVal and checking for `=`.
func (p *Parser) parseAssignOrExprStmt() ast.Stmt {
	pos := p.pos()
	if p.at(lexer.Ident) {
		m := p.mark()
		lval := p.tryParseLVal()
		if lval != nil && p.at(lexer.Assign) {
			p.advance()
			val := p.parseExp()
			p.expect(lexer.Semi)
			return &ast.AssignStmt{Pos: pos, LVal: lval, Value: val}
		}
		p.reset(m)
	}
	e := p.parseExp()
	p.expect(lexer.Semi)
	return &ast.ExprStmt{Pos: pos, Expr: e}
}

func (p *Parser) tryParseLVal() *ast.LVal {
	pos := p.pos()
	name := p.tok().Val
	p.advance()
	lv := &ast.LVal{Pos: pos, Name: name}
	for p.at(lexer.LBracket) {
		p.advance()
		lv.Indices = append(lv.Indices, p.parseExp())
		p.expect(lexer.RBracket)
	}
	return lv
}

func (p *Parser) parseExp() ast.Expr {
	return p.parseLOrExp()
}

func (p *Parser) parseLOrExp() ast.Expr {
	lhs := p.parseLAndExp()
	for p.at(lexer.OrOr) {
		pos := p.pos()
		p.advance()
		rhs := p.parseLAndExp()
		lhs = &ast.BinaryExpr{Pos: pos, Op: ast.OpOr, LHS: lhs, RHS: rhs}
	}
	return lhs
}

func (p *Parser) parseLAndExp() ast.Expr {
	lhs := p.parseEqExp()
	for p.at(lexer.AndAnd) {
		pos := p.pos()
		p.advance()
		rhs := p.parseEqExp()
		lhs = &ast.BinaryExpr{Pos: pos, Op: ast.OpAnd, LHS: lhs, RHS: rhs}
	}
	return lhs
}

func (p *Parser) parseEqExp() ast.Expr {
	lhs := p.parseRelExp()
	for p.at(lexer.Eq, lexer.Ne) {
		op, pos := p.binOp()
		rhs := p.parseRelExp()
		lhs = &ast.BinaryExpr{Pos: pos, Op: op, LHS: lhs, RHS: rhs}
	}
	return lhs
}

func (p *Parser) parseRelExp() ast.Expr {
	lhs := p.parseAddExp()
	for p.at(lexer.Lt, lexer.Gt, lexer.Le, lexer.Ge) {
		op, pos := p.binOp()
		rhs := p.parseAddExp()
		lhs = &ast.BinaryExpr{Pos: pos, Op: op, LHS: lhs, RHS: rhs}
	}
	return lhs
}

func (p *Parser) parseAddExp() ast.Expr {
	lhs := p.parseMulExp()
	for p.at(lexer.Plus, lexer.Minus) {
		op, pos := p.binOp()
		rhs := p.parseMulExp()
		lhs = &ast.BinaryExpr{Pos: pos, Op: op, LHS: lhs, RHS: rhs}
	}
	return lhs
}

func (p *Parser) parseMulExp() ast.Expr {
	lhs := p.parseUnaryExp()
	for p.at(lexer.Star, lexer.Slash, lexer.Percent) {
		op, pos := p.binOp()
		rhs := p.parseUnaryExp()
		lhs = &ast.BinaryExpr{Pos: pos, Op: op, LHS: lhs, RHS: rhs}
	}
	return lhs
}

// binOp consumes the current operator token and returns its ast.BinOp and
// source position.
func (p *Parser) binOp() (ast.BinOp, ast.Pos) {
	pos := p.pos()
	var op ast.BinOp
	switch p.tok().Tok {
	case lexer.Plus:
		op = ast.OpAdd
	case lexer.Minus:
		op = ast.OpSub
	case lexer.Star:
		op = ast.OpMul
	case lexer.Slash:
		op = ast.OpDiv
	case lexer.Percent:
		op = ast.OpMod
	case lexer.Lt:
		op = ast.OpLt
	case lexer.Gt:
		op = ast.OpGt
	case lexer.Le:
		op = ast.OpLe
	case lexer.Ge:
		op = ast.OpGe
	case lexer.Eq:
		op = ast.OpEq
	case lexer.Ne:
		op = ast.OpNe
	default:
		panic(fmt.Sprintf("parser: binOp called on non-operator token %s", p.tok().Tok))
	}
	p.advance()
	return op, pos
}

func (p *Parser) parseUnaryExp() ast.Expr {
	pos := p.pos()
	switch p.tok().Tok {
	case lexer.Plus:
		p.advance()
		return &ast.UnaryExpr{Pos: pos, Op: ast.UnaryPlus, Operand: p.parseUnaryExp()}
	case lexer.Minus:
		p.advance()
		return &ast.UnaryExpr{Pos: pos, Op: ast.UnaryNeg, Operand: p.parseUnaryExp()}
	case lexer.Not:
		p.advance()
		return &ast.UnaryExpr{Pos: pos, Op: ast.UnaryNot, Operand: p.parseUnaryExp()}
	}
	if p.at(lexer.Ident) {
		m := p.mark()
		name := p.tok().Val
		p.advance()
		if p.at(lexer.LParen) {
			p.advance()
			call := &ast.CallExpr{Pos: pos, Name: name}
			if !p.at(lexer.RParen) {
				call.Args = append(call.Args, p.parseExp())
				for p.at(lexer.Comma) {
					p.advance()
					call.Args = append(call.Args, p.parseExp())
				}
			}
			p.expect(lexer.RParen)
			return call
		}
		p.reset(m)
	}
	return p.parsePrimaryExp()
}

func (p *Parser) parsePrimaryExp() ast.Expr {
	pos := p.pos()
	switch {
	case p.at(lexer.LParen):
		p.advance()
		e := p.parseExp()
		p.expect(lexer.RParen)
		return e
	case p.at(lexer.Ident):
		return p.tryParseLVal()
	case p.at(lexer.IntConst):
		lexeme := p.tok().Val
		p.advance()
		v, err := lexer.ParseIntConst(lexeme)
		if err != nil {
			p.errorf("invalid integer constant %q: %s", lexeme, err)
		}
		return &ast.IntLit{Pos: pos, Val: v}
	default:
		p.errorf("expected expression, got %s %q", p.tok().Tok, p.tok().Val)
		p.advance()
		return &ast.IntLit{Pos: pos, Val: 0}
	}
}
