package main

//
// Statement execution.  A line is a colon-separated sequence of
// statements; inside a DEF FN body the sequence ends with an '='
// segment supplying the function result
//

func (ctx *evalCtx) executeBody(def *procDefNode) {

	for ctx.peek() != tokEOL {

		if def != nil && def.isFn && ctx.peek() == tokEq {
			ctx.advance()
			ctx.evaluateExprInternal()
			ctx.expect(tokEOL, ESYNTAX)
			return
		}

		ctx.executeStatement()

		if ctx.peek() == tokColon {
			ctx.advance()
			continue
		}

		break
	}

	ctx.expect(tokEOL, ESYNTAX)

	if def != nil && def.isFn {
		runtimeError(ENOFNRESULT)
	}
}

func (ctx *evalCtx) executeLine() {

	ctx.executeBody(nil)
}

//
// One statement: DIM, a PROC invocation, an indirection store, or
// an assignment
//

func (ctx *evalCtx) executeStatement() {

	// Bracket the statement's temporaries; without this the arena
	// watermark would creep upward across statements

	ctx.arena.mark()
	defer ctx.arena.release()

	tok := ctx.peek()

	switch tok {
	default:
		runtimeError(ESYNTAX)

	case tokDim:
		ctx.advance()
		ctx.executeDim()

	case tokProcName, tokProcCached:
		ctx.advance()
		def := ctx.resolveProcName(tok, false)
		ctx.callFunction(def)

	case tokQuery, tokPling, tokRbracket, tokBar, tokDollar:
		ctx.advance()
		ctx.executeIndirectStore(tok)

	case tokName, tokNameCached:
		ctx.advance()
		ctx.executeAssignment(tok)
	}
}

//
// DIM name(extent, ...): each extent is a full expression and the
// declared extent is the highest legal subscript, so DIM a(10)
// makes eleven elements.  Several arrays may share one DIM
//

func (ctx *evalCtx) executeDim() {

	for {
		runtimeCheck(ctx.peek() == tokName, ESYNTAX)
		ctx.advance()

		name, _, _ := ctx.readNameVal()

		ctx.expect(tokLparen, ESYNTAX)

		var dims []int

		for {
			ctx.evaluateExprInternal()
			extent := int(ctx.stack.popNumeric().toInt32())

			dims = append(dims, extent+1)

			if ctx.peek() != tokComma {
				break
			}
			ctx.advance()
		}

		ctx.expect(tokRparen, EMISSINGPAREN)

		createArray(ctx, name, dims)

		if ctx.peek() != tokComma {
			break
		}
		ctx.advance()
	}
}

//
// ?addr = v and friends.  The address operand is a factor; stores
// truncate to the cell width the way the memory model does, no
// range fault
//

func (ctx *evalCtx) executeIndirectStore(tok byte) {

	addr := ctx.evaluateNumericFactor().toInt64()

	ctx.expect(tokEq, ESYNTAX)

	ctx.evaluateExprInternal()
	item := ctx.stack.pop()

	if tok == tokDollar {
		runtimeCheck(isStringKind(item.kind), ESTRINGNEEDED)
		ctx.mem.writeString(addr, item.str())
		return
	}

	runtimeCheck(isNumericKind(item.kind), ENUMBERNEEDED)

	switch tok {
	case tokQuery:
		ctx.mem.writeByte(addr, uint8(item.toInt64()))

	case tokPling:
		ctx.mem.writeWord(addr, int32(item.toInt64()))

	case tokRbracket:
		ctx.mem.writeLong(addr, item.toInt64())

	case tokBar:
		ctx.mem.writeFloat(addr, item.toFloat())
	}
}

//
// Assignment.  The target is a scalar (created on first assignment),
// an array element, or a whole array written name() which takes
// either a scalar fill or an element-wise copy from a same-shaped
// array
//

func (ctx *evalCtx) executeAssignment(tok byte) {

	name, slot, start := ctx.readNameVal()

	var sym *symtabNode

	if tok == tokNameCached {
		sym = ctx.slots[slot]
	} else if ctx.peek() == tokLparen {
		sym = lookupArray(ctx, name)
		runtimeCheck(sym != nil, ENODIM)
		ctx.cacheNameSlot(start, tokNameCached, sym.index)
	} else {
		sym = lookupOrCreateScalar(ctx, name)
		ctx.cacheNameSlot(start, tokNameCached, sym.index)
	}

	if !sym.isArray {
		ctx.expect(tokEq, ESYNTAX)
		ctx.evaluateExprInternal()
		storeScalar(sym, ctx.stack.pop())
		return
	}

	runtimeCheck(sym.arr != nil, ENODIM)

	ctx.expect(tokLparen, ESYNTAX)

	if ctx.peek() == tokRparen {
		ctx.advance()
		ctx.expect(tokEq, ESYNTAX)
		ctx.evaluateExprInternal()
		ctx.assignWholeArray(sym, ctx.stack.pop())
		return
	}

	subs := ctx.parseSubscripts(sym.arr)

	ctx.expect(tokEq, ESYNTAX)
	ctx.evaluateExprInternal()
	storeElement(sym, subs, ctx.stack.pop())
}

func (ctx *evalCtx) assignWholeArray(sym *symtabNode, item stackItem) {

	dst := sym.arr

	if isArrayKind(item.kind) {
		src := item.arr

		runtimeCheck(sameShape(dst, src), EARRAYSHAPE)

		for off := 0; off < dst.count(); off++ {
			dst.setItemAt(off, src.itemAt(off))
		}

		return
	}

	if dst.elemKind == kindString {
		runtimeCheck(isStringKind(item.kind), ESTRINGNEEDED)
	} else {
		runtimeCheck(isNumericKind(item.kind), ENUMBERNEEDED)
	}

	for off := 0; off < dst.count(); off++ {
		dst.setItemAt(off, item)
	}
}

//
// DEF FNname(formals) = ... body ... [ERROR fallback]
// DEF PROCname(formals) body [ERROR fallback]
//
// The body is captured as its own token image and executed per
// call; cache rewrites inside it stick to the definition, so a hot
// FN resolves all its names exactly once
//

func (ctx *evalCtx) parseDefinition() {

	ctx.expect(tokDef, ESYNTAX)

	tok := ctx.peek()
	runtimeCheck(tok == tokFnName || tok == tokProcName, ESYNTAX)
	ctx.advance()

	name, _, _ := ctx.readNameVal()

	def := &procDefNode{
		name:  name,
		isFn:  tok == tokFnName,
		vType: decodeVarType(name),
	}

	if ctx.peek() == tokLparen {
		ctx.advance()

		for ctx.peek() != tokRparen {
			if len(def.params) > 0 {
				ctx.expect(tokComma, ESYNTAX)
			}

			var p formalParam

			if ctx.peek() == tokReturn {
				p.byRef = true
				ctx.advance()
			}

			runtimeCheck(ctx.peek() == tokName, ESYNTAX)
			ctx.advance()

			p.name, _, _ = ctx.readNameVal()
			p.vType = decodeVarType(p.name)

			if ctx.peek() == tokLparen {
				ctx.advance()
				ctx.expect(tokRparen, EMISSINGPAREN)
				p.isArray = true
				p.byRef = true
			}

			def.params = append(def.params, p)
		}

		ctx.advance()
	}

	// Split body from the ERROR fallback, stepping over payloads so
	// a string containing the byte can not fool the scan

	start := ctx.pos
	errPos := -1

	pos := ctx.pos
	for ctx.image[pos] != tokEOL {
		if ctx.image[pos] == tokError && errPos < 0 {
			errPos = pos
		}
		pos = skipToken(ctx.image, pos)
	}

	bodyEnd := pos
	if errPos >= 0 {
		bodyEnd = errPos
	}

	def.body = append([]byte{}, ctx.image[start:bodyEnd]...)
	def.body = append(def.body, tokEOL)

	if errPos >= 0 {
		def.trap = append([]byte{}, ctx.image[errPos+1:pos]...)
		def.trap = append(def.trap, tokEOL)
	}

	ctx.pos = pos

	defineProc(ctx, def)
}
