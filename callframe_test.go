package main

import (
	"strings"
	"testing"
)

func TestFnCall(t *testing.T) {

	ctx := testCtx()

	runLine(t, ctx, "DEF FNdouble(x%) = x% * 2")

	wantInt(t, evalStr(t, ctx, "FNdouble(4)"), kindInt32, 8)

	// calls nest inside expressions

	wantInt(t, evalStr(t, ctx, "FNdouble(FNdouble(3)) + 1"), kindInt32, 13)
}

func TestFnArity(t *testing.T) {

	ctx := testCtx()

	runLine(t, ctx, "DEF FNdouble(x%) = x% * 2")

	if got := evalFault(t, ctx, "FNdouble()"); got != ETOOFEWARGS {
		t.Fatalf("got %q, want %q", got, ETOOFEWARGS)
	}

	if got := evalFault(t, ctx, "FNdouble(1,2)"); got != ETOOMANYARGS {
		t.Fatalf("got %q, want %q", got, ETOOMANYARGS)
	}
}

func TestFnParamType(t *testing.T) {

	ctx := testCtx()

	runLine(t, ctx, "DEF FNdouble(x%) = x% * 2")

	got := evalFault(t, ctx, "FNdouble(\"no\")")
	if !strings.HasPrefix(got, EPARAMTYPE) {
		t.Fatalf("got %q, want a %q fault", got, EPARAMTYPE)
	}
}

func TestFnRestoresGlobals(t *testing.T) {

	ctx := testCtx()

	runLine(t, ctx, "x% = 10")
	runLine(t, ctx, "DEF FNset(x%) = x% * 2")

	wantInt(t, evalStr(t, ctx, "FNset(3)"), kindInt32, 6)

	// the formal shadowed the global during the call only

	wantInt(t, evalStr(t, ctx, "x%"), kindInt32, 10)
}

func TestFnArgumentsSeeCallerValues(t *testing.T) {

	ctx := testCtx()

	runLine(t, ctx, "x% = 7")
	runLine(t, ctx, "DEF FNecho(x%) = x%")

	// the argument expression evaluates before the formal binds

	wantInt(t, evalStr(t, ctx, "FNecho(x% + 1)"), kindInt32, 8)
}

func TestByRefParam(t *testing.T) {

	ctx := testCtx()

	runLine(t, ctx, "x% = 5")
	runLine(t, ctx, "DEF FNbump(RETURN n%) n% = n% + 1 : = n%")

	wantInt(t, evalStr(t, ctx, "FNbump(x%)"), kindInt32, 6)

	// the final value copied out to the caller's variable

	wantInt(t, evalStr(t, ctx, "x%"), kindInt32, 6)
}

func TestByRefActualNamesFormal(t *testing.T) {

	ctx := testCtx()

	runLine(t, ctx, "a = 1")
	runLine(t, ctx, "DEF PROCset(RETURN a) a = 99")
	runLine(t, ctx, "PROCset(a)")

	// Restoring the formal's old value must not undo the copy-out
	// when the actual is the formal's own variable

	wantFloat(t, evalStr(t, ctx, "a"), 99.0)
}

func TestArrayParam(t *testing.T) {

	ctx := testCtx()

	runLine(t, ctx, "DIM q%(2)")
	fillArray(t, ctx, "q%", "1", "2", "3")

	runLine(t, ctx, "DEF FNtotal(a%()) = SUM a%()")

	wantInt(t, evalStr(t, ctx, "FNtotal(q%())"), kindInt32, 6)
}

func TestProcCall(t *testing.T) {

	ctx := testCtx()

	runLine(t, ctx, "DEF PROCstash(v%) gv% = v%")
	runLine(t, ctx, "PROCstash(42)")

	wantInt(t, evalStr(t, ctx, "gv%"), kindInt32, 42)
}

func TestRecursionLimit(t *testing.T) {

	ctx := testCtx()
	ctx.maxRecursion = 50

	runLine(t, ctx, "DEF FNr(x%) = FNr(x%)")

	if got := evalFault(t, ctx, "FNr(1)"); got != ERECURSION {
		t.Fatalf("got %q, want %q", got, ERECURSION)
	}
}

func TestNoFnResult(t *testing.T) {

	ctx := testCtx()

	runLine(t, ctx, "DEF FNnores(x%) x% = 1")

	if got := evalFault(t, ctx, "FNnores(1)"); got != ENOFNRESULT {
		t.Fatalf("got %q, want %q", got, ENOFNRESULT)
	}
}

func TestErrorTrap(t *testing.T) {

	ctx := testCtx()

	runLine(t, ctx, "x% = 42")
	runLine(t, ctx, "DEF FNsafe(x%) = 100 DIV x% ERROR -1")

	wantInt(t, evalStr(t, ctx, "FNsafe(5)"), kindInt32, 20)

	// the fault lands in the ERROR clause instead of escaping

	wantInt(t, evalStr(t, ctx, "FNsafe(0)"), kindInt32, -1)

	// and the shadowed global came back first

	wantInt(t, evalStr(t, ctx, "x%"), kindInt32, 42)
}

func TestUntappedFaultRestores(t *testing.T) {

	ctx := testCtx()

	runLine(t, ctx, "x% = 42")
	runLine(t, ctx, "DEF FNbad(x%) = 100 DIV 0")

	if got := evalFault(t, ctx, "FNbad(7)"); got != EDIVZERO {
		t.Fatalf("got %q, want %q", got, EDIVZERO)
	}

	wantInt(t, evalStr(t, ctx, "x%"), kindInt32, 42)
}

func TestFnRedefinition(t *testing.T) {

	ctx := testCtx()

	runLine(t, ctx, "DEF FNf(x%) = x% + 1")

	wantInt(t, evalStr(t, ctx, "FNf(1)"), kindInt32, 2)

	// redefinition must take effect at already-cached call sites

	img := lexLine("FNf(1)")

	ctx.image = img
	ctx.pos = 0
	wantInt(t, ctx.evaluateExpression(), kindInt32, 2)

	runLine(t, ctx, "DEF FNf(x%) = x% + 100")

	ctx.image = img
	ctx.pos = 0
	wantInt(t, ctx.evaluateExpression(), kindInt32, 101)
}
