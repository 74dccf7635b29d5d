package main

import (
	"strconv"
	"strings"
	"testing"
)

func TestStringConcat(t *testing.T) {

	ctx := testCtx()

	item := evalStr(t, ctx, "\"ab\" + \"cd\"")

	if !isStringKind(item.kind) || item.str() != "abcd" {
		t.Fatalf("got %q", item.str())
	}

	item = evalStr(t, ctx, "\"a\" + \"b\" + \"c\" + \"d\"")

	if item.str() != "abcd" {
		t.Fatalf("got %q", item.str())
	}
}

func TestStringConcatTooLong(t *testing.T) {

	ctx := testCtx()

	sym := lookupOrCreateScalar(ctx, "a$")
	sym.value.s = strings.Repeat("x", 20000)

	if got := evalFault(t, ctx, "a$ + a$"); got != ESTRINGLEN {
		t.Fatalf("got %q, want %q", got, ESTRINGLEN)
	}
}

func TestStringCompare(t *testing.T) {

	tests := []struct {
		src  string
		want int64
	}{
		{"\"ab\" < \"b\"", -1},
		{"\"abc\" = \"abc\"", -1},
		{"\"abc\" = \"abd\"", 0},
		{"\"Ab\" < \"ab\"", -1},
		{"\"ab\" < \"abc\"", -1},
		{"\"b\" >= \"ab\"", -1},
	}

	for _, tc := range tests {
		ctx := testCtx()

		item := evalStr(t, ctx, tc.src)

		if item.ival != tc.want {
			t.Errorf("%q = %d, want %d", tc.src, item.ival, tc.want)
		}
	}
}

func TestShifts(t *testing.T) {

	ctx := testCtx()

	// int32 width: '<<' wraps, '>>' keeps the sign, '>>>' does not

	wantInt(t, evalStr(t, ctx, "1 << 31"), kindInt32, -2147483648)
	wantInt(t, evalStr(t, ctx, "-8 >> 1"), kindInt32, -4)
	wantInt(t, evalStr(t, ctx, "-1 >>> 28"), kindInt32, 15)

	// an int64 operand shifts in 64-bit width

	wantInt(t, evalStr(t, ctx, "&FFFFFFFFFF >> 8"), kindInt64, 4294967295)
}

func TestLogicalOps(t *testing.T) {

	ctx := testCtx()

	wantInt(t, evalStr(t, ctx, "TRUE AND FALSE"), kindInt32, 0)
	wantInt(t, evalStr(t, ctx, "TRUE OR FALSE"), kindInt32, -1)
	wantInt(t, evalStr(t, ctx, "TRUE EOR TRUE"), kindInt32, 0)
	wantInt(t, evalStr(t, ctx, "NOT TRUE"), kindInt32, 0)
}

func TestByteVariableArithmetic(t *testing.T) {

	ctx := testCtx()

	runLine(t, ctx, "b& = 200")

	// bytes promote to int32 in arithmetic

	wantInt(t, evalStr(t, ctx, "b& + 100"), kindInt32, 300)

	// byte stores wrap

	runLine(t, ctx, "b& = 300")
	wantInt(t, evalStr(t, ctx, "b&"), kindByte, 44)
}

func fillArray(t *testing.T, ctx *evalCtx, name string, vals ...string) {

	t.Helper()

	for n, v := range vals {
		runLine(t, ctx, name+"("+strconv.Itoa(n)+") = "+v)
	}
}

func TestArrayScalarBroadcast(t *testing.T) {

	ctx := testCtx()

	runLine(t, ctx, "DIM a%(2)")
	fillArray(t, ctx, "a%", "1", "2", "3")

	item := evalStr(t, ctx, "a%() * 2")

	if !isArrayKind(item.kind) || item.arr.elemKind != kindInt32 {
		t.Fatalf("bad result kind")
	}

	for n, want := range []int32{2, 4, 6} {
		if item.arr.i[n] != want {
			t.Errorf("elem %d = %d, want %d", n, item.arr.i[n], want)
		}
	}

	// scalar on the left, non-commutative

	item = evalStr(t, ctx, "10 - a%()")

	for n, want := range []int32{9, 8, 7} {
		if item.arr.i[n] != want {
			t.Errorf("elem %d = %d, want %d", n, item.arr.i[n], want)
		}
	}

	// a float scalar promotes the whole result

	item = evalStr(t, ctx, "a%() * 2.0")

	if item.arr.elemKind != kindFloat || item.arr.f[2] != 6.0 {
		t.Fatalf("expected a float array")
	}
}

func TestArrayArrayOps(t *testing.T) {

	ctx := testCtx()

	runLine(t, ctx, "DIM a%(2)")
	fillArray(t, ctx, "a%", "1", "2", "3")

	item := evalStr(t, ctx, "a%() + a%()")

	for n, want := range []int32{2, 4, 6} {
		if item.arr.i[n] != want {
			t.Errorf("elem %d = %d, want %d", n, item.arr.i[n], want)
		}
	}

	runLine(t, ctx, "DIM b%(3)")

	if got := evalFault(t, ctx, "a%() + b%()"); got != EARRAYSHAPE {
		t.Fatalf("got %q, want %q", got, EARRAYSHAPE)
	}
}

func TestArrayBadOps(t *testing.T) {

	ctx := testCtx()

	runLine(t, ctx, "DIM a%(2)")

	if got := evalFault(t, ctx, "a%() AND 1"); got != EARRAYBADOP {
		t.Fatalf("got %q, want %q", got, EARRAYBADOP)
	}

	// parenthesized so the line is a comparison, not an assignment

	if got := evalFault(t, ctx, "(a%()) = 1"); got != EARRAYBADOP {
		t.Fatalf("got %q, want %q", got, EARRAYBADOP)
	}
}

func TestArrayElementOverflow(t *testing.T) {

	ctx := testCtx()

	runLine(t, ctx, "DIM c%(0)")
	runLine(t, ctx, "c%(0) = 2147483647")

	// the int32 result array can not hold the widened element

	if got := evalFault(t, ctx, "c%() + 1"); got != ENUMBERRANGE {
		t.Fatalf("got %q, want %q", got, ENUMBERRANGE)
	}
}

func TestSum(t *testing.T) {

	ctx := testCtx()

	runLine(t, ctx, "DIM a%(2)")
	fillArray(t, ctx, "a%", "1", "2", "3")

	wantInt(t, evalStr(t, ctx, "SUM a%()"), kindInt32, 6)

	runLine(t, ctx, "DIM f(1)")
	fillArray(t, ctx, "f", "1.5", "2")

	wantFloat(t, evalStr(t, ctx, "SUM f()"), 3.5)

	runLine(t, ctx, "DIM s$(2)")
	runLine(t, ctx, "s$(0) = \"a\" : s$(1) = \"b\" : s$(2) = \"c\"")

	if item := evalStr(t, ctx, "SUM s$()"); item.str() != "abc" {
		t.Fatalf("got %q", item.str())
	}
}
