package main

import "testing"

func TestAssignmentCoercion(t *testing.T) {

	ctx := testCtx()

	// float to int truncates toward zero

	runLine(t, ctx, "i% = 2.9")
	wantInt(t, evalStr(t, ctx, "i%"), kindInt32, 2)

	runLine(t, ctx, "i% = -2.9")
	wantInt(t, evalStr(t, ctx, "i%"), kindInt32, -2)

	runLine(t, ctx, "j%% = 4000000000")
	wantInt(t, evalStr(t, ctx, "j%%"), kindInt64, 4000000000)

	runLine(t, ctx, "f = 7")
	wantFloat(t, evalStr(t, ctx, "f"), 7.0)

	runLine(t, ctx, "s$ = \"hi\"")

	if got := evalStr(t, ctx, "s$").str(); got != "hi" {
		t.Fatalf("got %q", got)
	}
}

func TestAssignmentTypeFaults(t *testing.T) {

	ctx := testCtx()

	if got := evalFault(t, ctx, "s$ = 5"); got != ESTRINGNEEDED {
		t.Fatalf("got %q, want %q", got, ESTRINGNEEDED)
	}

	if got := evalFault(t, ctx, "i% = \"x\""); got != ENUMBERNEEDED {
		t.Fatalf("got %q, want %q", got, ENUMBERNEEDED)
	}

	if got := evalFault(t, ctx, "i% = 3000000000"); got != ENUMBERRANGE {
		t.Fatalf("got %q, want %q", got, ENUMBERRANGE)
	}
}

func TestDim(t *testing.T) {

	ctx := testCtx()

	// the declared extent is the highest legal subscript

	runLine(t, ctx, "DIM a(10)")
	runLine(t, ctx, "a(10) = 1")

	wantFloat(t, evalStr(t, ctx, "a(10)"), 1.0)
	wantFloat(t, evalStr(t, ctx, "a(0)"), 0.0)

	if got := evalFault(t, ctx, "a(11)"); got != ESUBSCRIPT {
		t.Fatalf("got %q, want %q", got, ESUBSCRIPT)
	}

	if got := evalFault(t, ctx, "a(1,2)"); got != EBADDIMCOUNT {
		t.Fatalf("got %q, want %q", got, EBADDIMCOUNT)
	}

	if got := evalFault(t, ctx, "DIM a(5)"); got != EDUPDIM {
		t.Fatalf("got %q, want %q", got, EDUPDIM)
	}
}

func TestDimList(t *testing.T) {

	ctx := testCtx()

	runLine(t, ctx, "DIM m(2,3), v%(4)")

	runLine(t, ctx, "m(2,3) = 1.5")
	wantFloat(t, evalStr(t, ctx, "m(2,3)"), 1.5)

	runLine(t, ctx, "v%(4) = 9")
	wantInt(t, evalStr(t, ctx, "v%(4)"), kindInt32, 9)
}

func TestWholeArrayAssign(t *testing.T) {

	ctx := testCtx()

	runLine(t, ctx, "DIM a%(4)")

	// scalar fill

	runLine(t, ctx, "a%() = 5")
	wantInt(t, evalStr(t, ctx, "SUM a%()"), kindInt32, 25)

	// element-wise copy from a same-shaped temporary

	runLine(t, ctx, "a%() = a%() + 1")
	wantInt(t, evalStr(t, ctx, "SUM a%()"), kindInt32, 30)

	runLine(t, ctx, "DIM b%(3)")

	if got := evalFault(t, ctx, "b%() = a%()"); got != EARRAYSHAPE {
		t.Fatalf("got %q, want %q", got, EARRAYSHAPE)
	}
}

func TestIndirectStoreTruncates(t *testing.T) {

	ctx := testCtx()

	runLine(t, ctx, "?0 = 300")
	wantInt(t, evalStr(t, ctx, "?0"), kindInt32, 44)

	runLine(t, ctx, "!4 = 4000000000")
	wantInt(t, evalStr(t, ctx, "!4"), kindInt32, -294967296)
}

func TestColonChain(t *testing.T) {

	ctx := testCtx()

	runLine(t, ctx, "x% = 1 : y% = x% + 2 : x% = y% * 2")

	wantInt(t, evalStr(t, ctx, "x%"), kindInt32, 6)
	wantInt(t, evalStr(t, ctx, "y%"), kindInt32, 3)
}

func TestStatementDetection(t *testing.T) {

	tests := []struct {
		src  string
		want bool
	}{
		{"a = 1", true},
		{"a(1) = 2", true},
		{"a(i%+1, 2) = 3", true},
		{"DIM z(1)", true},
		{"PROCp", true},
		{"?5 = 1", true},
		{"$10 = \"x\"", true},
		{"a <> 1", false},
		{"1+2", false},
		{"a(1) + 2", false},
		{"FNf(1)", false},
		{"a = 1 = 2", true},
	}

	for _, tc := range tests {
		if got := isStatementLine(lexLine(tc.src)); got != tc.want {
			t.Errorf("%q: got %v, want %v", tc.src, got, tc.want)
		}
	}
}
