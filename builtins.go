package main

import (
	"math"
	"math/rand"
	"time"
)

var rng = rand.New(rand.NewSource(time.Now().UnixNano()))

//
// Built-in functions.  Each takes its operand as a factor, so both
// SQR 2 and SQR(2) parse; the domain checks fault before the math
// library gets a chance to produce a NaN
//

func (ctx *evalCtx) evalBuiltin(tok byte) {

	switch tok {
	default:
		unexpectedTokenError(tok)

	case tokPi:
		ctx.stack.pushFloat(math.Pi)

	case tokTrue:
		ctx.stack.pushInt32(boolInt32True)

	case tokFalse:
		ctx.stack.pushInt32(boolInt32False)

	case tokTime:
		ctx.stack.pushInt32(getCentiTicks())

	case tokRnd:
		ctx.evalRnd()

	case tokNot:
		ctx.evalFactor()
		item := ctx.popScalarNumeric()

		k := item.kind
		if k == kindFloat {
			k = kindInt64
		}

		ctx.stack.push(intResultItem(k, k, ^item.toInt64()))

	case tokAbs:
		ctx.evalFactor()
		item := ctx.popScalarNumeric()

		if item.kind == kindFloat {
			ctx.stack.pushFloat(math.Abs(item.fval))
		} else {
			if item.ival == math.MinInt64 {
				runtimeError(ENUMBERRANGE)
			}
			v := item.ival
			if v < 0 {
				v = -v
			}
			ctx.stack.push(intResultItem(item.kind, item.kind, v))
		}

	case tokSgn:
		ctx.evalFactor()
		item := ctx.popScalarNumeric()

		var v int32

		if item.kind == kindFloat {
			switch {
			case item.fval > 0:
				v = 1
			case item.fval < 0:
				v = -1
			}
		} else {
			switch {
			case item.ival > 0:
				v = 1
			case item.ival < 0:
				v = -1
			}
		}

		ctx.stack.pushInt32(v)

	case tokInt:
		ctx.evalFactor()
		item := ctx.popScalarNumeric()

		if item.kind == kindFloat {
			v := floatToInt64(math.Floor(item.fval))
			ctx.stack.push(intResultItem(kindInt32, kindInt32, v))
		} else {
			ctx.stack.push(item)
		}

	case tokSqr:
		v := ctx.numericOperand()
		runtimeCheck(v >= 0, ENEGROOT)
		ctx.stack.pushFloat(ctx.checkFloat(math.Sqrt(v)))

	case tokExp:
		v := ctx.numericOperand()
		runtimeCheck(v >= minExpArg && v <= maxExpArg, EEXPRANGE)
		ctx.stack.pushFloat(ctx.checkFloat(math.Exp(v)))

	case tokLn:
		v := ctx.numericOperand()
		runtimeCheck(v > 0, ELOGRANGE)
		ctx.stack.pushFloat(ctx.checkFloat(math.Log(v)))

	case tokLog:
		v := ctx.numericOperand()
		runtimeCheck(v > 0, ELOGRANGE)
		ctx.stack.pushFloat(ctx.checkFloat(math.Log10(v)))

	case tokSin:
		ctx.stack.pushFloat(ctx.checkFloat(math.Sin(ctx.numericOperand())))

	case tokCos:
		ctx.stack.pushFloat(ctx.checkFloat(math.Cos(ctx.numericOperand())))

	case tokTan:
		ctx.stack.pushFloat(ctx.checkFloat(math.Tan(ctx.numericOperand())))

	case tokAtn:
		ctx.stack.pushFloat(ctx.checkFloat(math.Atan(ctx.numericOperand())))

	case tokLen:
		ctx.evalFactor()
		item := ctx.stack.popString()
		ctx.stack.pushInt32(int32(len(item.str())))

	case tokSum:
		ctx.evalSum()
	}
}

func (ctx *evalCtx) numericOperand() float64 {

	ctx.evalFactor()

	return ctx.popScalarNumeric().toFloat()
}

//
// RND follows the classic behavior: bare RND is a random 32-bit
// integer, RND(1) a float in [0,1), RND(n) for n > 1 an integer in
// [1,n], and a negative argument reseeds the generator and echoes
// the argument back
//

func (ctx *evalCtx) evalRnd() {

	if ctx.peek() != tokLparen {
		ctx.stack.pushInt32(int32(rng.Uint32()))
		return
	}

	ctx.evalFactor()
	n := ctx.popScalarNumeric().toInt64()

	switch {
	case n < 0:
		rng = rand.New(rand.NewSource(n))
		ctx.stack.pushInt32(int32(n))

	case n <= 1:
		ctx.stack.pushFloat(rng.Float64())

	default:
		ctx.stack.pushInt32(int32(rng.Int63n(n) + 1))
	}
}

//
// SUM folds a whole array: numeric arrays sum (overflow checked),
// string arrays concatenate in element order
//

func (ctx *evalCtx) evalSum() {

	ctx.evalFactor()
	arr := ctx.stack.popArray()

	switch arr.elemKind {
	case kindFloat:
		acc := 0.0
		for off := 0; off < arr.count(); off++ {
			acc += arr.f[off]
		}
		ctx.stack.pushFloat(ctx.checkFloat(acc))

	case kindInt32, kindInt64:
		var acc int64
		for off := 0; off < arr.count(); off++ {
			acc = addInt64Checked(acc, arr.itemAt(off).ival)
		}
		ctx.stack.push(intResultItem(arr.elemKind, arr.elemKind, acc))

	case kindString:
		n := 0
		for off := 0; off < arr.count(); off++ {
			n += len(arr.s[off])
			runtimeCheck(n <= maxStringLen, ESTRINGLEN)
		}

		buf := ctx.allocStrTemp(n)
		for off := 0; off < arr.count(); off++ {
			buf = append(buf, arr.s[off]...)
		}
		ctx.stack.pushStrTemp(buf)
	}
}
