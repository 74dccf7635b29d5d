package main

//
// The expression evaluator proper: factors feed the value stack and
// a small explicit operator stack orders the dyadic applications by
// priority.  Higher binds tighter; equal priority associates left
//

func operatorPrio(tok byte) int {

	switch tok {
	default:
		return 0

	case tokCaret:
		return 6

	case tokStar, tokSlash, tokDiv, tokMod, tokMatMul:
		return 5

	case tokPlus, tokMinus:
		return 4

	case tokEq, tokNe, tokGt, tokLt, tokGe, tokLe,
		tokLsl, tokAsr, tokLsr:
		return 3

	case tokAnd:
		return 2

	case tokOr, tokEor:
		return 1
	}
}

func isComparisonOp(tok byte) bool {

	return tok >= tokEq && tok <= tokLe
}

func comparisonPending(ops []opStackEntry) bool {

	for _, e := range ops {
		if isComparisonOp(e.op) {
			return true
		}
	}

	return false
}

//
// Evaluate one expression, leaving its value on the stack and the
// cursor on the first token that is not part of the expression.
//
// Comparisons do not chain: with a comparison still pending, a
// second comparison operator terminates the expression instead of
// extending it, left unconsumed for the caller.  That is what makes
// 'a = b = c' parse as the assignment of the condition 'b = c',
// while 'a% = 1 AND b% = 2' still evaluates both conditions
//

func (ctx *evalCtx) evaluateExprInternal() {

	ctx.evalFactor()

	op := ctx.peek()
	prio := operatorPrio(op)

	if prio == 0 {
		return
	}

	ctx.advance()
	ctx.evalFactor()

	// Fast path: a single dyadic operator, no stack needed

	if operatorPrio(ctx.peek()) == 0 {
		ctx.applyDyadic(op)
		return
	}

	ops := make([]opStackEntry, 0, maxOpStackDepth)
	ops = append(ops, opStackEntry{op: op, prio: prio})

	for {
		next := ctx.peek()
		nextPrio := operatorPrio(next)

		if nextPrio == 0 {
			break
		}

		if isComparisonOp(next) && comparisonPending(ops) {
			break
		}

		for len(ops) > 0 && ops[len(ops)-1].prio >= nextPrio {
			ctx.applyDyadic(ops[len(ops)-1].op)
			ops = ops[:len(ops)-1]
		}

		runtimeCheck(len(ops) < maxOpStackDepth, EOPSTACKFULL)

		ctx.advance()
		ops = append(ops, opStackEntry{op: next, prio: nextPrio})

		ctx.evalFactor()
	}

	for len(ops) > 0 {
		ctx.applyDyadic(ops[len(ops)-1].op)
		ops = ops[:len(ops)-1]
	}
}

//
// Public entry: evaluate an expression and pop its result.  Arena
// accounting for the expression's temporaries is bracketed here;
// the backing storage itself is ordinary garbage-collected memory,
// so a temporary result stays valid after release.  Negative zero
// never escapes
//

func (ctx *evalCtx) evaluateExpression() stackItem {

	depth := ctx.stack.depth()

	ctx.arena.mark()
	defer ctx.arena.release()

	ctx.evaluateExprInternal()

	item := ctx.stack.pop()

	basicAssert(ctx.stack.depth() == depth, "Value stack unbalanced")

	if item.kind == kindFloat && item.fval == 0.0 {
		item.fval = 0.0
	}

	return item
}

//
// A single numeric factor, popped.  Indirection assignment targets
// use this for their address operand: in '?a+1 = v' the address is
// the factor a, not the sum
//

func (ctx *evalCtx) evaluateNumericFactor() stackItem {

	ctx.evalFactor()

	return ctx.stack.popNumeric()
}
