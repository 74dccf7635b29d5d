package main

import (
	"testing"
)

//
// Test scaffolding shared by the evaluator tests.  Each test builds
// a fresh context, runs source lines through the same lexer the
// shell uses, and inspects the popped result
//

func testCtx() *evalCtx {

	return newEvalCtx(defaultSettings())
}

func evalStr(t *testing.T, ctx *evalCtx, src string) stackItem {

	t.Helper()

	ctx.image = lexLine(src)
	ctx.pos = 0

	return ctx.evaluateExpression()
}

func runLine(t *testing.T, ctx *evalCtx, src string) {

	t.Helper()

	ctx.image = lexLine(src)
	ctx.pos = 0

	if ctx.peek() == tokDef {
		ctx.parseDefinition()
		return
	}

	ctx.executeLine()
}

//
// Run src expecting a fault, returning its message
//

func evalFault(t *testing.T, ctx *evalCtx, src string) string {

	t.Helper()

	var msg string

	func() {
		defer func() {
			p := recover()
			if p == nil {
				return
			}

			fault, ok := p.(*faultInfo)
			if !ok {
				t.Fatalf("%q: non-fault panic %v", src, p)
			}

			msg = fault.msg
		}()

		ctx.image = lexLine(src)
		ctx.pos = 0

		if isStatementLine(ctx.image) {
			ctx.executeLine()
		} else {
			ctx.evaluateExpression()
		}
	}()

	if msg == "" {
		t.Fatalf("%q: expected a fault", src)
	}

	return msg
}

func wantInt(t *testing.T, item stackItem, kind int, v int64) {

	t.Helper()

	if item.kind != kind {
		t.Fatalf("got kind %d, want %d", item.kind, kind)
	}

	if item.ival != v {
		t.Fatalf("got %d, want %d", item.ival, v)
	}
}

func wantFloat(t *testing.T, item stackItem, v float64) {

	t.Helper()

	if item.kind != kindFloat {
		t.Fatalf("got kind %d, want float", item.kind)
	}

	if item.fval != v {
		t.Fatalf("got %g, want %g", item.fval, v)
	}
}

func TestPrecedence(t *testing.T) {

	tests := []struct {
		src  string
		want int64
	}{
		{"2+3*4", 14},
		{"2*3+4", 10},
		{"(2+3)*4", 20},
		{"10-2-3", 5},
		{"7 MOD 4 + 1", 4},
		{"20 DIV 2 DIV 5", 2},
		{"1 << 3 + 1", 16},
		{"2+3 = 5", -1},
		{"1 = 2 OR 3 = 3", -1},
		{"NOT FALSE", -1},
	}

	for _, tc := range tests {
		ctx := testCtx()

		item := evalStr(t, ctx, tc.src)

		if item.ival != tc.want {
			t.Errorf("%q = %d, want %d", tc.src, item.ival, tc.want)
		}
	}
}

func TestComparisonDoesNotChain(t *testing.T) {

	ctx := testCtx()

	ctx.image = lexLine("1 < 2 < 3")
	ctx.pos = 0

	item := ctx.evaluateExpression()

	wantInt(t, item, kindInt32, -1)

	// The second comparison must be left for the caller

	if ctx.peek() != tokLt {
		t.Fatalf("expected the second < to be unconsumed, at %d", ctx.peek())
	}
}

func TestShiftsChainFreely(t *testing.T) {

	ctx := testCtx()

	item := evalStr(t, ctx, "1 << 4 >> 2")

	wantInt(t, item, kindInt32, 4)
}

func TestIntNarrowing(t *testing.T) {

	ctx := testCtx()

	wantInt(t, evalStr(t, ctx, "1 + 1"), kindInt32, 2)

	// int32 overflow widens instead of wrapping

	wantInt(t, evalStr(t, ctx, "2147483647 + 1"), kindInt64, 2147483648)

	// one int64 operand makes an int64 result even when small

	wantInt(t, evalStr(t, ctx, "9223372036854775807 - 9223372036854775806"),
		kindInt64, 1)
}

func TestFloatNeverDowncast(t *testing.T) {

	ctx := testCtx()

	wantFloat(t, evalStr(t, ctx, "6/2"), 3.0)
	wantFloat(t, evalStr(t, ctx, "2.0*2"), 4.0)
	wantFloat(t, evalStr(t, ctx, "2^3"), 8.0)
}

func TestArithmeticFaults(t *testing.T) {

	tests := []struct {
		src  string
		want string
	}{
		{"9223372036854775807 + 1", ENUMBERRANGE},
		{"9223372036854775807.0 DIV 1", ENUMBERRANGE},
		{"1/0", EDIVZERO},
		{"1/0.0", EDIVZERO},
		{"1 DIV 0", EDIVZERO},
		{"1 MOD 0", EDIVZERO},
		{"\"a\" + 1", ENUMBERNEEDED},
		{"1e308 * 10", ENUMBERRANGE},
	}

	for _, tc := range tests {
		ctx := testCtx()

		got := evalFault(t, ctx, tc.src)
		if got != tc.want {
			t.Errorf("%q: got %q, want %q", tc.src, got, tc.want)
		}
	}
}
