package cfg

import "github.com/blendsdk/blend65/internal/ast"

// Builder constructs a Graph from a function body by walking statements in
// order, opening a new block at every join point and at the targets of
// jumps. Loop headers/continue-targets and break-targets are tracked on a
// stack so nested loops resolve break/continue to the right block.
type Builder struct {
	g         *Graph
	cur       *Block
	loopStack []loopCtx
}

type loopCtx struct {
	continueTarget int
	breakTarget    int
}

// Build constructs the CFG for a function body (a BlockStmt). It creates
// a fresh Graph (NewGraph) whose entry block becomes the first block of
// the body.
func Build(body *ast.BlockStmt) *Graph {
	g := NewGraph()
	b := &Builder{g: g, cur: g.Entry()}
	b.block(body)
	return g
}

// fresh opens a new block, linking the current block to it by fallthrough
// unless the current block already has a terminator.
func (b *Builder) fresh(label string) *Block {
	nb := b.g.NewBlock(label)
	if !b.cur.HasTerminator() {
		b.cur.Term = TermJump
		b.cur.Targets = []int{nb.ID}
		b.g.Link(b.cur.ID, nb.ID)
	}
	b.cur = nb
	return nb
}

func (b *Builder) block(blk *ast.BlockStmt) {
	for _, s := range blk.Stmts {
		b.stmt(s)
	}
}

func (b *Builder) stmt(s ast.Stmt) {
	if b.cur.HasTerminator() {
		// Unreachable: still attach to current block's statement list so
		// Pass 5's unreachable-code detection can see it, but do not
		// split a new block for it (nothing can jump here).
		b.cur.Stmts = append(b.cur.Stmts, s)
		return
	}
	switch v := s.(type) {
	case *ast.BlockStmt:
		b.block(v)

	case *ast.ReturnStmt:
		b.cur.Stmts = append(b.cur.Stmts, s)
		b.cur.Term = TermReturn

	case *ast.BreakStmt:
		b.cur.Stmts = append(b.cur.Stmts, s)
		b.cur.Term = TermBreak
		if len(b.loopStack) > 0 {
			target := b.loopStack[len(b.loopStack)-1].breakTarget
			b.cur.Targets = []int{target}
			b.g.Link(b.cur.ID, target)
		}

	case *ast.ContinueStmt:
		b.cur.Stmts = append(b.cur.Stmts, s)
		b.cur.Term = TermContinue
		if len(b.loopStack) > 0 {
			target := b.loopStack[len(b.loopStack)-1].continueTarget
			b.cur.Targets = []int{target}
			b.g.Link(b.cur.ID, target)
		}

	case *ast.IfStmt:
		b.ifStmt(v)

	case *ast.WhileStmt:
		b.whileStmt(v)

	case *ast.DoWhileStmt:
		b.doWhileStmt(v)

	case *ast.ForStmt:
		b.forStmt(v)

	case *ast.SwitchStmt:
		b.switchStmt(v)

	case *ast.MatchStmt:
		b.matchStmt(v)

	default:
		// ExpressionStmt, DeclStmt: no control-flow effect, stays in the
		// current block.
		b.cur.Stmts = append(b.cur.Stmts, s)
	}
}

func (b *Builder) ifStmt(v *ast.IfStmt) {
	head := b.cur
	thenBlock := b.g.NewBlock("if.then")
	b.g.Link(head.ID, thenBlock.ID)

	var elseBlock *Block
	if v.Else != nil {
		elseBlock = b.g.NewBlock("if.else")
		b.g.Link(head.ID, elseBlock.ID)
	}

	head.Term = TermBranch
	if elseBlock != nil {
		head.Targets = []int{thenBlock.ID, elseBlock.ID}
	} else {
		head.Targets = []int{thenBlock.ID}
	}

	b.cur = thenBlock
	b.stmt(v.Then)
	thenEnd := b.cur

	var elseEnd *Block
	if v.Else != nil {
		b.cur = elseBlock
		b.stmt(v.Else)
		elseEnd = b.cur
	}

	join := b.g.NewBlock("if.join")
	if !thenEnd.HasTerminator() {
		thenEnd.Term = TermJump
		thenEnd.Targets = []int{join.ID}
		b.g.Link(thenEnd.ID, join.ID)
	}
	if v.Else != nil {
		if !elseEnd.HasTerminator() {
			elseEnd.Term = TermJump
			elseEnd.Targets = []int{join.ID}
			b.g.Link(elseEnd.ID, join.ID)
		}
	} else {
		head.Targets = []int{thenBlock.ID, join.ID}
		b.g.Link(head.ID, join.ID)
	}
	b.cur = join
}

func (b *Builder) whileStmt(v *ast.WhileStmt) {
	header := b.fresh("while.header")
	body := b.g.NewBlock("while.body")
	after := b.g.NewBlock("while.after")

	header.Term = TermBranch
	header.Targets = []int{body.ID, after.ID}
	b.g.Link(header.ID, body.ID)
	b.g.Link(header.ID, after.ID)

	b.loopStack = append(b.loopStack, loopCtx{continueTarget: header.ID, breakTarget: after.ID})
	b.cur = body
	b.stmt(v.Body)
	if !b.cur.HasTerminator() {
		b.cur.Term = TermJump
		b.cur.Targets = []int{header.ID}
		b.g.Link(b.cur.ID, header.ID)
	}
	b.loopStack = b.loopStack[:len(b.loopStack)-1]
	b.cur = after
}

func (b *Builder) doWhileStmt(v *ast.DoWhileStmt) {
	body := b.fresh("dowhile.body")
	after := b.g.NewBlock("dowhile.after")

	b.loopStack = append(b.loopStack, loopCtx{continueTarget: body.ID, breakTarget: after.ID})
	b.cur = body
	b.stmt(v.Body)
	tail := b.cur
	if !tail.HasTerminator() {
		tail.Term = TermBranch
		tail.Targets = []int{body.ID, after.ID}
		b.g.Link(tail.ID, body.ID)
		b.g.Link(tail.ID, after.ID)
	}
	b.loopStack = b.loopStack[:len(b.loopStack)-1]
	b.cur = after
}

func (b *Builder) forStmt(v *ast.ForStmt) {
	header := b.fresh("for.header")
	body := b.g.NewBlock("for.body")
	after := b.g.NewBlock("for.after")

	header.Term = TermBranch
	header.Targets = []int{body.ID, after.ID}
	b.g.Link(header.ID, body.ID)
	b.g.Link(header.ID, after.ID)

	b.loopStack = append(b.loopStack, loopCtx{continueTarget: header.ID, breakTarget: after.ID})
	b.cur = body
	b.stmt(v.Body)
	if !b.cur.HasTerminator() {
		b.cur.Term = TermJump
		b.cur.Targets = []int{header.ID}
		b.g.Link(b.cur.ID, header.ID)
	}
	b.loopStack = b.loopStack[:len(b.loopStack)-1]
	b.cur = after
}

func (b *Builder) switchStmt(v *ast.SwitchStmt) {
	head := b.cur
	after := b.g.NewBlock("switch.after")
	ends := make([]*Block, 0, len(v.Cases))

	for _, c := range v.Cases {
		caseBlock := b.g.NewBlock("switch.case")
		b.g.Link(head.ID, caseBlock.ID)
		b.cur = caseBlock
		for _, s := range c.Body {
			b.stmt(s)
		}
		ends = append(ends, b.cur)
	}
	head.Term = TermBranch

	for _, e := range ends {
		if !e.HasTerminator() {
			e.Term = TermJump
			e.Targets = []int{after.ID}
			b.g.Link(e.ID, after.ID)
		}
	}
	b.g.Link(head.ID, after.ID) // no case matched
	b.cur = after
}

func (b *Builder) matchStmt(v *ast.MatchStmt) {
	head := b.cur
	after := b.g.NewBlock("match.after")
	ends := make([]*Block, 0, len(v.Arms))

	b.loopStack = append(b.loopStack, loopCtx{continueTarget: after.ID, breakTarget: after.ID})
	for _, arm := range v.Arms {
		armBlock := b.g.NewBlock("match.arm")
		b.g.Link(head.ID, armBlock.ID)
		b.cur = armBlock
		for _, s := range arm.Body {
			b.stmt(s)
		}
		ends = append(ends, b.cur)
	}
	b.loopStack = b.loopStack[:len(b.loopStack)-1]
	head.Term = TermBranch

	for _, e := range ends {
		if !e.HasTerminator() {
			e.Term = TermJump
			e.Targets = []int{after.ID}
			b.g.Link(e.ID, after.ID)
		}
	}
	b.cur = after
}
