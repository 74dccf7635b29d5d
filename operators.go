package main

import (
	"math"
	"strings"

	"github.com/charmbracelet/log"
)

//
// The dyadic operator family.  One handler per operator, selected
// here; each handler switches on the right operand's kind and then
// on the left's, so every legal type combination is a written-out
// case and everything else is a type fault.  Operands are popped
// right first
//

func (ctx *evalCtx) applyDyadic(op byte) {

	if g.traceExec {
		log.Debug("apply", "op", opNameMap[op], "depth", ctx.stack.depth())
	}

	switch op {
	default:
		unexpectedTokenError(op)

	case tokPlus:
		ctx.evalAdd()

	case tokMinus, tokStar:
		ctx.evalNumericBinop(op)

	case tokSlash, tokDiv, tokMod:
		ctx.evalDivide(op)

	case tokCaret:
		ctx.evalPow()

	case tokMatMul:
		ctx.evalMatMul()

	case tokLsl, tokAsr, tokLsr:
		ctx.evalShift(op)

	case tokEq, tokNe, tokGt, tokLt, tokGe, tokLe:
		ctx.evalCompare(op)

	case tokAnd, tokOr, tokEor:
		ctx.evalLogical(op)
	}
}

//
// Checked int64 arithmetic.  Anything past the int64 range is a
// range fault, never a silent wrap
//

func addInt64Checked(a, b int64) int64 {

	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		runtimeError(ENUMBERRANGE)
	}

	return a + b
}

func subInt64Checked(a, b int64) int64 {

	if (b < 0 && a > math.MaxInt64+b) || (b > 0 && a < math.MinInt64+b) {
		runtimeError(ENUMBERRANGE)
	}

	return a - b
}

func mulInt64Checked(a, b int64) int64 {

	if a == 0 || b == 0 {
		return 0
	}

	if a == math.MinInt64 || b == math.MinInt64 {
		runtimeError(ENUMBERRANGE)
	}

	r := a * b
	if r/b != a {
		runtimeError(ENUMBERRANGE)
	}

	return r
}

//
// The integer narrowing rule: a result stays int32 when both
// operands were int32 or narrower and the value fits, otherwise it
// is int64.  Float results are never down-cast, even when exactly
// integral
//

func intResultItem(lkind, rkind int, v int64) stackItem {

	if isNarrowKind(lkind) && isNarrowKind(rkind) &&
		v >= math.MinInt32 && v <= math.MaxInt32 {
		return stackItem{kind: kindInt32, ival: v}
	}

	return stackItem{kind: kindInt64, ival: v}
}

//
// Validate a floating result: NaN, infinities and (unless denormal
// mode is enabled) denormals are range faults.  Adapted wholesale
// from the IEEE-754 status check the arithmetic operators share
//

func (ctx *evalCtx) checkFloat(v float64) float64 {

	if math.IsNaN(v) || math.IsInf(v, 0) {
		runtimeError(ENUMBERRANGE)
	}

	if v != 0 && !ctx.denorm {
		exp := math.Float64bits(v) & 0x7ff0000000000000
		if exp == 0 {
			runtimeError(ENUMBERRANGE)
		}
	}

	return v
}

func (ctx *evalCtx) floatResultItem(v float64) stackItem {

	return stackItem{kind: kindFloat, fval: ctx.checkFloat(v)}
}

//
// Pop a scalar numeric operand, distinguishing the two illegal
// cases: an array where only scalars are tabulated, and a string
// where a number is needed
//

func (ctx *evalCtx) popScalarNumeric() stackItem {

	item := ctx.stack.pop()

	runtimeCheck(!isArrayKind(item.kind), EARRAYBADOP)
	runtimeCheck(isNumericKind(item.kind), ENUMBERNEEDED)

	return item
}

//
// The scalar numeric core shared by the scalar handlers and the
// array broadcast loops.  Returns the result without pushing it
//

func (ctx *evalCtx) numericOp(op byte, l, r stackItem) stackItem {

	lFloat := l.kind == kindFloat
	rFloat := r.kind == kindFloat

	switch op {
	default:
		unexpectedTokenError(op)
		panic(nil) // avoid compiler complaint

	case tokPlus:
		if lFloat || rFloat {
			return ctx.floatResultItem(l.toFloat() + r.toFloat())
		}
		return intResultItem(l.kind, r.kind, addInt64Checked(l.ival, r.ival))

	case tokMinus:
		if lFloat || rFloat {
			return ctx.floatResultItem(l.toFloat() - r.toFloat())
		}
		return intResultItem(l.kind, r.kind, subInt64Checked(l.ival, r.ival))

	case tokStar:
		if lFloat || rFloat {
			return ctx.floatResultItem(l.toFloat() * r.toFloat())
		}
		return intResultItem(l.kind, r.kind, mulInt64Checked(l.ival, r.ival))

	case tokSlash:
		if rFloat {
			runtimeCheck(r.fval != 0.0, EDIVZERO)
		} else {
			runtimeCheck(r.ival != 0, EDIVZERO)
		}
		return ctx.floatResultItem(l.toFloat() / r.toFloat())

	case tokDiv, tokMod:
		lv := l.toInt64()
		rv := r.toInt64()

		runtimeCheck(rv != 0, EDIVZERO)

		if lv == math.MinInt64 && rv == -1 {
			runtimeError(ENUMBERRANGE)
		}

		lk, rk := l.kind, r.kind
		if lFloat {
			lk = kindInt64
		}
		if rFloat {
			rk = kindInt64
		}

		if op == tokDiv {
			return intResultItem(lk, rk, lv/rv)
		}
		return intResultItem(lk, rk, lv%rv)

	case tokCaret:
		return ctx.floatResultItem(math.Pow(l.toFloat(), r.toFloat()))
	}
}

//
// Addition is the one operator with a string case: concatenation.
// A temporary left operand is grown in place rather than copied
//

func (ctx *evalCtx) evalAdd() {

	r := ctx.stack.pop()

	switch {
	default:
		fatalError("Bad stack kind %d", r.kind)

	case isStringKind(r.kind):
		l := ctx.stack.popString()

		rs := r.str()
		runtimeCheck(len(l.str())+len(rs) <= maxStringLen, ESTRINGLEN)

		if l.kind == kindStrTemp {
			ctx.arena.reserve(int64(len(rs)))
			l.temp = append(l.temp, rs...)
			ctx.stack.push(l)
		} else {
			buf := ctx.allocStrTemp(len(l.sval) + len(rs))
			buf = append(buf, l.sval...)
			buf = append(buf, rs...)
			ctx.stack.pushStrTemp(buf)
		}

	case isNumericKind(r.kind):
		l := ctx.stack.pop()

		switch {
		default:
			runtimeError(ENUMBERNEEDED)

		case isNumericKind(l.kind):
			ctx.stack.push(ctx.numericOp(tokPlus, l, r))

		case isArrayKind(l.kind):
			ctx.arrayScalarOp(tokPlus, l.arr, r, false)
		}

	case isArrayKind(r.kind):
		l := ctx.stack.pop()

		switch {
		default:
			runtimeError(ENUMBERNEEDED)

		case isNumericKind(l.kind):
			ctx.arrayScalarOp(tokPlus, r.arr, l, true)

		case isArrayKind(l.kind):
			ctx.arrayArrayOp(tokPlus, l.arr, r.arr)
		}
	}
}

//
// Subtract and multiply: numeric scalars, scalar/array broadcast and
// array/array element-wise application.  Strings are a type fault
//

func (ctx *evalCtx) evalNumericBinop(op byte) {

	r := ctx.stack.pop()

	switch {
	default:
		runtimeError(ENUMBERNEEDED)

	case isNumericKind(r.kind):
		l := ctx.stack.pop()

		switch {
		default:
			runtimeError(ENUMBERNEEDED)

		case isNumericKind(l.kind):
			ctx.stack.push(ctx.numericOp(op, l, r))

		case isArrayKind(l.kind):
			ctx.arrayScalarOp(op, l.arr, r, false)
		}

	case isArrayKind(r.kind):
		l := ctx.stack.pop()

		switch {
		default:
			runtimeError(ENUMBERNEEDED)

		case isNumericKind(l.kind):
			ctx.arrayScalarOp(op, r.arr, l, true)

		case isArrayKind(l.kind):
			ctx.arrayArrayOp(op, l.arr, r.arr)
		}
	}
}

func (ctx *evalCtx) evalDivide(op byte) {

	ctx.evalNumericBinop(op)
}

func (ctx *evalCtx) evalPow() {

	r := ctx.popScalarNumeric()
	l := ctx.popScalarNumeric()

	ctx.stack.push(ctx.numericOp(tokCaret, l, r))
}

//
// Shifts operate in the width of the left operand: int32 semantics
// unless it is an int64 (floats convert and take the int64 path).
// '<<' wraps, '>>' propagates the sign, '>>>' shifts in zeroes
//

func (ctx *evalCtx) evalShift(op byte) {

	r := ctx.popScalarNumeric()
	l := ctx.popScalarNumeric()

	n := r.toInt32()
	runtimeCheck(n >= 0 && n <= 63, ENUMBERRANGE)

	if l.kind == kindInt64 || l.kind == kindFloat {
		v := l.toInt64()

		switch op {
		case tokLsl:
			v = int64(uint64(v) << n)

		case tokAsr:
			v >>= n

		case tokLsr:
			v = int64(uint64(v) >> n)
		}

		ctx.stack.pushInt64(v)
		return
	}

	v := int32(l.ival)

	switch op {
	case tokLsl:
		v = int32(uint32(v) << n)

	case tokAsr:
		if n > 31 {
			n = 31
		}
		v >>= n

	case tokLsr:
		v = int32(uint32(v) >> n)
	}

	ctx.stack.pushInt32(v)
}

//
// Comparisons yield the TRUE/FALSE sentinels.  Strings compare
// byte-lexicographically, lengths breaking ties; mixed numerics
// compare in float64 when either side is float, int64 otherwise.
// Arrays are not comparable
//

func (ctx *evalCtx) evalCompare(op byte) {

	r := ctx.stack.pop()

	runtimeCheck(!isArrayKind(r.kind), EARRAYBADOP)

	var cmp int

	if isStringKind(r.kind) {
		l := ctx.stack.popString()
		cmp = strings.Compare(l.str(), r.str())
	} else {
		l := ctx.popScalarNumeric()

		if l.kind == kindFloat || r.kind == kindFloat {
			lf, rf := l.toFloat(), r.toFloat()
			switch {
			case lf < rf:
				cmp = -1
			case lf > rf:
				cmp = 1
			}
		} else {
			switch {
			case l.ival < r.ival:
				cmp = -1
			case l.ival > r.ival:
				cmp = 1
			}
		}
	}

	switch op {
	case tokEq:
		ctx.stack.pushBool(cmp == 0)

	case tokNe:
		ctx.stack.pushBool(cmp != 0)

	case tokGt:
		ctx.stack.pushBool(cmp > 0)

	case tokLt:
		ctx.stack.pushBool(cmp < 0)

	case tokGe:
		ctx.stack.pushBool(cmp >= 0)

	case tokLe:
		ctx.stack.pushBool(cmp <= 0)
	}
}

//
// AND, OR and EOR are bitwise over integers, which is what makes
// them work as logical connectives on the -1/0 truth sentinels.
// Floats convert first, range checked
//

func (ctx *evalCtx) evalLogical(op byte) {

	r := ctx.popScalarNumeric()
	l := ctx.popScalarNumeric()

	lv := l.toInt64()
	rv := r.toInt64()

	var v int64

	switch op {
	case tokAnd:
		v = lv & rv

	case tokOr:
		v = lv | rv

	case tokEor:
		v = lv ^ rv
	}

	lk, rk := l.kind, r.kind
	if lk == kindFloat {
		lk = kindInt64
	}
	if rk == kindFloat {
		rk = kindInt64
	}

	ctx.stack.push(intResultItem(lk, rk, v))
}

//
// Array element plumbing for the broadcast loops: fetch and store
// by flat offset.  Stores coerce into the result array's element
// kind, so an element that overflows the target kind is a range
// fault at the offending index
//

func (a *arrayDesc) itemAt(off int) stackItem {

	switch a.elemKind {
	default:
		fatalError("Bad array element kind %d", a.elemKind)
		panic(nil) // avoid compiler complaint

	case kindInt32:
		return stackItem{kind: kindInt32, ival: int64(a.i[off])}

	case kindInt64:
		return stackItem{kind: kindInt64, ival: a.i64[off]}

	case kindFloat:
		return stackItem{kind: kindFloat, fval: a.f[off]}

	case kindString:
		return stackItem{kind: kindString, sval: a.s[off]}
	}
}

func (a *arrayDesc) setItemAt(off int, item stackItem) {

	switch a.elemKind {
	default:
		fatalError("Bad array element kind %d", a.elemKind)

	case kindInt32:
		a.i[off] = item.toInt32()

	case kindInt64:
		a.i64[off] = item.toInt64()

	case kindFloat:
		a.f[off] = item.toFloat()

	case kindString:
		a.s[off] = item.str()
	}
}

//
// The result element kind follows the operand kinds, not the
// values: division is always float, any float operand makes a
// float array, any int64 an int64 array, and everything narrower
// stays int32
//

func arrayResultKind(op byte, lkind, rkind int) int {

	switch {
	case op == tokSlash || op == tokCaret:
		return kindFloat

	case lkind == kindFloat || rkind == kindFloat:
		return kindFloat

	default:
		if lkind == kindInt64 || rkind == kindInt64 {
			return kindInt64
		}
		return kindInt32
	}
}

//
// Broadcast a scalar across an array.  scalarLeft preserves operand
// order for the non-commutative operators
//

func (ctx *evalCtx) arrayScalarOp(op byte, arr *arrayDesc, scalar stackItem,
	scalarLeft bool) {

	runtimeCheck(arr.elemKind != kindString, EARRAYBADOP)
	runtimeCheck(isNumericKind(scalar.kind), ENUMBERNEEDED)

	res := ctx.allocArrayTemp(arr.dims,
		arrayResultKind(op, arr.elemKind, scalar.kind))

	for off := 0; off < arr.count(); off++ {
		e := arr.itemAt(off)

		if scalarLeft {
			res.setItemAt(off, ctx.numericOp(op, scalar, e))
		} else {
			res.setItemAt(off, ctx.numericOp(op, e, scalar))
		}
	}

	ctx.stack.push(stackItem{kind: kindArrayTemp, arr: res})
}

//
// Element-wise application over two arrays of identical shape
//

func (ctx *evalCtx) arrayArrayOp(op byte, l, r *arrayDesc) {

	runtimeCheck(l.elemKind != kindString && r.elemKind != kindString,
		EARRAYBADOP)
	runtimeCheck(sameShape(l, r), EARRAYSHAPE)

	res := ctx.allocArrayTemp(l.dims,
		arrayResultKind(op, l.elemKind, r.elemKind))

	for off := 0; off < l.count(); off++ {
		res.setItemAt(off, ctx.numericOp(op, l.itemAt(off), r.itemAt(off)))
	}

	ctx.stack.push(stackItem{kind: kindArrayTemp, arr: res})
}

//
// Unary negation.  An array negates element-wise, expressed as
// 0 - array
//

func (ctx *evalCtx) negateTop() {

	item := ctx.stack.pop()

	switch {
	default:
		runtimeError(ENUMBERNEEDED)

	case isArrayKind(item.kind):
		zero := stackItem{kind: kindInt32}
		ctx.arrayScalarOp(tokMinus, item.arr, zero, true)

	case item.kind == kindFloat:
		ctx.stack.pushFloat(-item.fval)

	case isNumericKind(item.kind):
		if item.ival == math.MinInt64 {
			runtimeError(ENUMBERRANGE)
		}
		ctx.stack.push(intResultItem(item.kind, item.kind, -item.ival))
	}
}
