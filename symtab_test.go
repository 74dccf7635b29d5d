package main

import (
	"testing"

	"github.com/danswartzendruber/avl"
)

func TestSymbolTablesStartEmpty(t *testing.T) {

	ctx := testCtx()

	if lookupScalar(ctx, "a") != nil {
		t.Fatalf("scalar found in an empty table")
	}

	if lookupArray(ctx, "a") != nil {
		t.Fatalf("array found in an empty table")
	}

	if avl.AvlTreeFirstInOrder(ctx.scalars) != nil {
		t.Fatalf("walk of an empty table returned a node")
	}
}

func TestSymbolNamespaces(t *testing.T) {

	ctx := testCtx()

	// a and a() are distinct symbols

	runLine(t, ctx, "a = 1")
	runLine(t, ctx, "DIM a(3)")

	wantFloat(t, evalStr(t, ctx, "a"), 1.0)

	runLine(t, ctx, "a(2) = 5")
	wantFloat(t, evalStr(t, ctx, "a(2)"), 5.0)
	wantFloat(t, evalStr(t, ctx, "a"), 1.0)
}

func TestScalarWalkOrder(t *testing.T) {

	ctx := testCtx()

	runLine(t, ctx, "zz = 1")
	runLine(t, ctx, "mm = 2")
	runLine(t, ctx, "aa = 3")

	var names []string

	for p := avl.AvlTreeFirstInOrder(ctx.scalars); p != nil; {
		sym := p.(*symtabNode)
		names = append(names, sym.name)
		p = avl.AvlTreeNextInOrder(&sym.avl)
	}

	want := []string{"aa", "mm", "zz"}

	if len(names) != len(want) {
		t.Fatalf("got %v, want %v", names, want)
	}

	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("got %v, want %v", names, want)
		}
	}
}
