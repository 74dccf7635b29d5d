package main

//
// The factor dispatcher: one operand of an expression, selected by
// its leading token.  Covers constants, unary sign, NOT, bracketed
// sub-expressions, indirection reads, variables, FN calls and the
// built-in functions.  On return exactly one item has been pushed
//

func (ctx *evalCtx) evalFactor() {

	checkInterrupts()

	tok := ctx.peek()
	ctx.advance()

	switch tok {
	default:
		if tok >= tokNot && tok <= tokSum {
			ctx.evalBuiltin(tok)
			break
		}
		runtimeError(ESYNTAX)

	case tokZero:
		ctx.stack.pushInt32(0)

	case tokOne:
		ctx.stack.pushInt32(1)

	case tokSmallConst:
		ctx.stack.pushInt32(int32(ctx.readByteVal()))

	case tokIntConst:
		ctx.stack.pushInt32(ctx.readInt32Val())

	case tokInt64Const:
		ctx.stack.pushInt64(ctx.readInt64Val())

	case tokFloatConst:
		ctx.stack.pushFloat(ctx.readFloatVal())

	case tokStringConst:
		ctx.stack.pushString(ctx.readStringVal())

	case tokPlus:
		ctx.evalFactor()

	case tokMinus:
		ctx.evalFactor()
		ctx.negateTop()

	case tokLparen:
		ctx.evaluateExprInternal()
		ctx.expect(tokRparen, EMISSINGPAREN)

	case tokQuery, tokPling, tokRbracket, tokBar, tokDollar:
		ctx.evalIndirectRead(tok, 0)

	case tokName, tokNameCached:
		ctx.evalVariable(tok)

	case tokFnName, tokFnCached:
		def := ctx.resolveProcName(tok, true)
		ctx.callFunction(def)
	}

	//
	// Dyadic indirection: base?offset and base!offset read a byte or
	// a word at base+offset.  They bind tighter than any operator and
	// associate left, hence the loop
	//

	for {
		tok = ctx.peek()
		if tok != tokQuery && tok != tokPling {
			break
		}

		if !isNumericKind(ctx.stack.peekKind()) {
			break
		}

		ctx.advance()

		base := ctx.stack.popNumeric().toInt64()
		ctx.evalIndirectRead(tok, base)
	}
}

//
// One indirection read: the operand factor supplies the address
// (added to base for the dyadic forms) and the sigil picks the
// width: '?' byte, '!' 32-bit word, ']' 64-bit word, '|' float64,
// '$' a CR-terminated string
//

func (ctx *evalCtx) evalIndirectRead(tok byte, base int64) {

	ctx.evalFactor()
	addr := base + ctx.stack.popNumeric().toInt64()

	switch tok {
	case tokQuery:
		ctx.stack.pushInt32(int32(ctx.mem.readByte(addr)))

	case tokPling:
		ctx.stack.pushInt32(ctx.mem.readWord(addr))

	case tokRbracket:
		ctx.stack.pushInt64(ctx.mem.readLong(addr))

	case tokBar:
		ctx.stack.pushFloat(ctx.mem.readFloat(addr))

	case tokDollar:
		ctx.stack.pushString(ctx.mem.readString(addr))
	}
}

//
// Intern a symbol in the direct-address slot table and rewrite the
// originating name token to its cached form.  After this the token
// resolves in one slice index, no tree walk
//

func (ctx *evalCtx) resolveVariable(tok byte, name string, slot int,
	start int) *symtabNode {

	if tok == tokNameCached {
		return ctx.slots[slot]
	}

	var sym *symtabNode

	if ctx.peek() == tokLparen {
		sym = lookupArray(ctx, name)
		runtimeCheck(sym != nil, ENODIM)
	} else {
		sym = lookupScalar(ctx, name)
		runtimeCheck(sym != nil, ENOSUCHVAR)
	}

	ctx.cacheNameSlot(start, tokNameCached, sym.index)

	return sym
}

//
// A variable reference in factor position: a scalar read, an array
// element read with full-expression subscripts, or a whole-array
// reference written name()
//

func (ctx *evalCtx) evalVariable(tok byte) {

	name, slot, start := ctx.readNameVal()

	sym := ctx.resolveVariable(tok, name, slot, start)

	if !sym.isArray {
		ctx.stack.push(fetchScalar(sym))
		return
	}

	runtimeCheck(sym.arr != nil, ENODIM)

	ctx.expect(tokLparen, ESYNTAX)

	if ctx.peek() == tokRparen {
		ctx.advance()
		ctx.stack.push(stackItem{kind: kindArray, arr: sym.arr})
		return
	}

	subs := ctx.parseSubscripts(sym.arr)

	ctx.stack.push(fetchElement(sym.arr, subs))
}

//
// Parse a comma-separated subscript list up to the closing paren.
// Each subscript is a full expression
//

func (ctx *evalCtx) parseSubscripts(desc *arrayDesc) []int {

	var subs []int

	for {
		ctx.evaluateExprInternal()
		subs = append(subs, int(ctx.stack.popNumeric().toInt32()))

		if ctx.peek() != tokComma {
			break
		}
		ctx.advance()
	}

	ctx.expect(tokRparen, EMISSINGPAREN)

	runtimeCheck(len(subs) == len(desc.dims), EBADDIMCOUNT)

	return subs
}

//
// Resolve a PROC or FN name to its definition, rewriting the call
// site to the cached form on first use.  Definitions are mutated in
// place on redefinition, so a cached pointer never goes stale
//

func (ctx *evalCtx) resolveProcName(tok byte, wantFn bool) *procDefNode {

	name, slot, start := ctx.readNameVal()

	if tok == tokFnCached || tok == tokProcCached {
		return ctx.procSlots[slot]
	}

	def := lookupProc(ctx, name)
	runtimeCheck(def != nil && def.isFn == wantFn, ENOSUCHPROC)

	if wantFn {
		ctx.cacheNameSlot(start, tokFnCached, def.index)
	} else {
		ctx.cacheNameSlot(start, tokProcCached, def.index)
	}

	return def
}
