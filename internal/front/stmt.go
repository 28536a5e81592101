package front

import (
	"sysyc/internal/ast"
	"sysyc/internal/diag"
	"sysyc/internal/ir"
)

// lowerBlockItem dispatches a block item to declaration or statement
// lowering.
func (l *lowerer) lowerBlockItem(item ast.BlockItem) {
	switch n := item.(type) {
	case *ast.ConstDecl:
		l.lowerLocalConstDecl(n)
	case *ast.VarDecl:
		l.lowerLocalVarDecl(n)
	case ast.Stmt:
		l.lowerStmt(n)
	}
}

// lowerStmt lowers one statement into the current block, updating
// l.cur to the new current block.
func (l *lowerer) lowerStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.AssignStmt:
		l.lowerAssign(n)

	case *ast.ExprStmt:
		if n.Expr != nil {
			l.lowerExpr(n.Expr)
		}

	case *ast.BlockStmt:
		l.scope.Open()
		l.lowerBlockBody(n.Block)
		l.scope.Close()

	case *ast.IfStmt:
		l.lowerIf(n)

	case *ast.WhileStmt:
		l.lowerWhile(n)

	case *ast.BreakStmt:
		l.lowerBreak(n.Pos)

	case *ast.ContinueStmt:
		l.lowerContinue(n.Pos)

	case *ast.ReturnStmt:
		l.lowerReturn(n)
	}
}

func (l *lowerer) lowerAssign(n *ast.AssignStmt) {
	addr := l.lowerLValAddr(n.LVal)
	val := l.lowerExpr(n.Value)
	if addr != nil {
		l.cur.CreateStore(val, addr)
	}
}

// lowerIf implements the if/else state machine: condition, then-block,
// optional else-block, join at the end block.
func (l *lowerer) lowerIf(n *ast.IfStmt) {
	cond := l.lowerExpr(n.Cond)
	thenBB := l.fn.CreateBlock("if.then")
	endBB := l.fn.CreateBlock("if.end")
	elseBB := endBB
	if n.Else != nil {
		elseBB = l.fn.CreateBlock("if.else")
	}
	l.cur.CreateBranch(cond, thenBB, elseBB)

	l.cur = thenBB
	l.lowerStmt(n.Then)
	if !l.cur.Terminated {
		l.cur.CreateJump(endBB)
	}

	if n.Else != nil {
		l.cur = elseBB
		l.lowerStmt(n.Else)
		if !l.cur.Terminated {
			l.cur.CreateJump(endBB)
		}
	}

	l.cur = endBB
}

// lowerWhile implements the while state machine: condition block, body
// block (with loop context for break/continue), jump back to condition.
func (l *lowerer) lowerWhile(n *ast.WhileStmt) {
	headBB := l.fn.CreateBlock("while.cond")
	bodyBB := l.fn.CreateBlock("while.body")
	endBB := l.fn.CreateBlock("while.end")

	l.cur.CreateJump(headBB)

	l.cur = headBB
	cond := l.lowerExpr(n.Cond)
	l.cur.CreateBranch(cond, bodyBB, endBB)

	l.cur = bodyBB
	l.loops = append(l.loops, loopCtx{head: headBB, end: endBB})
	l.lowerStmt(n.Body)
	l.loops = l.loops[:len(l.loops)-1]
	if !l.cur.Terminated {
		l.cur.CreateJump(headBB)
	}

	l.cur = endBB
}

func (l *lowerer) lowerBreak(pos ast.Pos) {
	if len(l.loops) == 0 {
		l.bag.Add(diag.IllegalBreakContinue, pos.Line, pos.Col, "break outside of a loop")
		return
	}
	target := l.loops[len(l.loops)-1].end
	l.cur.CreateJump(target)
	l.cur = l.fn.CreateBlock("dead")
}

func (l *lowerer) lowerContinue(pos ast.Pos) {
	if len(l.loops) == 0 {
		l.bag.Add(diag.IllegalBreakContinue, pos.Line, pos.Col, "continue outside of a loop")
		return
	}
	target := l.loops[len(l.loops)-1].head
	l.cur.CreateJump(target)
	l.cur = l.fn.CreateBlock("dead")
}

func (l *lowerer) lowerReturn(n *ast.ReturnStmt) {
	var val ir.Value
	if n.Value != nil {
		if l.retTy.IsUnit() {
			l.bag.Add(diag.TypeMismatch, n.Pos.Line, n.Pos.Col, "void function cannot return a value")
		} else {
			val = l.lowerExpr(n.Value)
		}
	} else if !l.retTy.IsUnit() {
		l.bag.Add(diag.TypeMismatch, n.Pos.Line, n.Pos.Col, "non-void function must return a value")
	}
	l.cur.CreateReturn(val)
	l.cur = l.fn.CreateBlock("dead")
}
