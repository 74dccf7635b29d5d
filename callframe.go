package main

//
// PROC/FN calls.  Parameters bind the old-school way: the formal is
// an ordinary variable whose previous value is saved in the frame,
// the actual is copied in, and on return the saved value comes back.
// A RETURN formal also copies its final value out to the caller's
// variable; an array formal shares the caller's descriptor outright.
//
// A definition may carry an ERROR clause.  A runtime fault raised
// inside the body unwinds to the call, restores the parameters, and
// evaluates the clause in their place; without a clause the frame is
// unwound (no write-back) and the fault keeps going
//

func (ctx *evalCtx) callFunction(def *procDefNode) {

	ctx.level++
	defer func() { ctx.level-- }()

	runtimeCheck(ctx.level <= ctx.maxRecursion, ERECURSION)

	frame := ctx.bindParams(def)

	ctx.runBody(def, frame)

	if def.isFn {
		runtimeCheck(ctx.stack.depth() == frame.depth+1, ENOFNRESULT)
	}
}

//
// Parse the actual argument list at the cursor and bind it to the
// formals.  All actuals are evaluated before anything binds, so an
// argument expression still sees the caller's values even when it
// names a formal
//

func (ctx *evalCtx) bindParams(def *procDefNode) *callFrame {

	frame := &callFrame{def: def, depth: ctx.stack.depth()}

	actuals := make([]stackItem, len(def.params))
	targets := make([]*symtabNode, len(def.params))

	if len(def.params) > 0 {
		ctx.expect(tokLparen, ETOOFEWARGS)

		for n, p := range def.params {
			if n > 0 {
				ctx.expect(tokComma, ETOOFEWARGS)
			}

			runtimeCheck(ctx.peek() != tokRparen, ETOOFEWARGS)

			switch {
			case p.isArray:
				targets[n] = ctx.parseArrayActual(def, n)

			case p.byRef:
				targets[n] = ctx.parseRefActual(def, n)
				actuals[n] = fetchScalar(targets[n])

			default:
				ctx.evaluateExprInternal()
				actuals[n] = ctx.stack.pop()
				checkParamType(def, n, p, actuals[n])
			}
		}

		runtimeCheck(ctx.peek() != tokComma, ETOOMANYARGS)
		ctx.expect(tokRparen, EMISSINGPAREN)

	} else if ctx.peek() == tokLparen {
		ctx.advance()
		runtimeCheck(ctx.peek() == tokRparen, ETOOMANYARGS)
		ctx.advance()
	}

	// Evaluation done, bind.  Unbinding walks this list in reverse,
	// which keeps things straight when two formals share a name

	for n, p := range def.params {
		if p.isArray {
			sym := bindArrayFormal(ctx, p.name)
			frame.saved = append(frame.saved,
				savedParam{sym: sym, savedArr: sym.arr})
			sym.arr = targets[n].arr
			continue
		}

		sym := lookupOrCreateScalar(ctx, p.name)
		frame.saved = append(frame.saved,
			savedParam{sym: sym, target: targets[n], value: sym.value})

		storeScalar(sym, actuals[n])
	}

	return frame
}

//
// An array actual: the name of a dimensioned array of the same
// element type as the formal, written name()
//

func (ctx *evalCtx) parseArrayActual(def *procDefNode, n int) *symtabNode {

	tok := ctx.peek()
	paramFault(tok == tokName || tok == tokNameCached, def, n)

	ctx.advance()
	name, slot, start := ctx.readNameVal()

	paramFault(ctx.peek() == tokLparen, def, n)

	var sym *symtabNode

	if tok == tokNameCached {
		sym = ctx.slots[slot]
	} else {
		sym = lookupArray(ctx, name)
		runtimeCheck(sym != nil, ENODIM)
		ctx.cacheNameSlot(start, tokNameCached, sym.index)
	}

	ctx.advance()
	ctx.expect(tokRparen, EMISSINGPAREN)

	runtimeCheck(sym.arr != nil, ENODIM)
	paramFault(sym.vType == def.params[n].vType, def, n)

	return sym
}

//
// A RETURN actual: the name of a scalar variable, created on the
// spot if need be, type-compatible with the formal
//

func (ctx *evalCtx) parseRefActual(def *procDefNode, n int) *symtabNode {

	tok := ctx.peek()
	paramFault(tok == tokName || tok == tokNameCached, def, n)

	ctx.advance()
	name, slot, start := ctx.readNameVal()

	paramFault(ctx.peek() != tokLparen, def, n)

	var sym *symtabNode

	if tok == tokNameCached {
		sym = ctx.slots[slot]
	} else {
		sym = lookupOrCreateScalar(ctx, name)
		ctx.cacheNameSlot(start, tokNameCached, sym.index)
	}

	p := def.params[n]
	refString := p.vType == symString

	paramFault((sym.vType == symString) == refString, def, n)

	return sym
}

func checkParamType(def *procDefNode, n int, p formalParam, item stackItem) {

	if p.vType == symString {
		paramFault(isStringKind(item.kind), def, n)
	} else {
		paramFault(isNumericKind(item.kind), def, n)
	}
}

func paramFault(chk bool, def *procDefNode, n int) {

	if !chk {
		runtimeErrorf(EPARAMTYPE, "parameter %d of %s", n+1, def.name)
	}
}

//
// A formal declared name() needs a node in the array namespace to
// hang the caller's descriptor on, with no storage of its own
//

func bindArrayFormal(ctx *evalCtx, name string) *symtabNode {

	sym := lookupArray(ctx, name)
	if sym != nil {
		return sym
	}

	sym = &symtabNode{name: name, vType: decodeVarType(name), isArray: true}

	p := avlInsertArray(ctx, sym)
	basicAssert(p == nil, "Array formal already defined")

	return sym
}

//
// Restore the frame's bindings, newest first.  writeBack controls
// the RETURN copy-out; it is done on a normal return and on a
// locally trapped fault, never when the fault just passes through
//

func (ctx *evalCtx) unbindParams(frame *callFrame, writeBack bool) {

	if frame.done {
		return
	}
	frame.done = true

	for n := len(frame.saved) - 1; n >= 0; n-- {
		sp := frame.saved[n]

		if sp.sym.isArray {
			sp.sym.arr = sp.savedArr
			continue
		}

		// Restore before the copy-out: when the actual names the
		// formal itself, the restore must not clobber the write-back

		final := fetchScalar(sp.sym)
		sp.sym.value = sp.value

		if writeBack && sp.target != nil {
			storeScalar(sp.target, final)
		}
	}
}

//
// Execute the body against its own token image.  Faults other than
// runtime ones (internal errors, Go panics) are never trapped
//

func (ctx *evalCtx) runBody(def *procDefNode, frame *callFrame) {

	defer func() {
		p := recover()
		if p == nil {
			return
		}

		fault, ok := p.(*faultInfo)
		if !ok || def.trap == nil {
			ctx.unbindParams(frame, false)
			panic(p)
		}

		// The fault may have left partial results behind

		ctx.stack.entries = ctx.stack.entries[:frame.depth]

		ctx.unbindParams(frame, true)
		ctx.lastFault = fault

		ctx.withImage(def.trap, func() {
			ctx.evaluateExprInternal()
		})

		if !def.isFn {
			ctx.stack.pop()
		}
	}()

	ctx.withImage(def.body, func() {
		ctx.executeBody(def)
	})

	ctx.unbindParams(frame, true)
}
