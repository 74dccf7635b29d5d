package main

import (
	"fmt"
	"strings"

	"github.com/danswartzendruber/avl"
)

//
// A complication carried over from BASIC: scalar and array variables
// may share a name (a and a() are distinct).  We keep two AVL trees
// keyed by name, one per namespace, plus a third for PROC/FN
// definitions.  On top of the trees sits a flat slot table: every
// symbol gets an index, and resolved name tokens in the program
// image are rewritten to carry that index so later evaluations skip
// the tree walk entirely
//

func initSymbolTables(ctx *evalCtx) {

	// A nil root is the empty tree

	ctx.scalars = nil
	ctx.arrays = nil
	ctx.procs = nil

	ctx.slots = nil
	ctx.procSlots = nil
}

func cmpNameKey(key any, node any) int {

	return strings.Compare(key.(string), node.(*symtabNode).name)
}

func cmpNameNode(node1, node2 any) int {

	return strings.Compare(node1.(*symtabNode).name, node2.(*symtabNode).name)
}

func cmpProcKey(key any, node any) int {

	return strings.Compare(key.(string), node.(*procDefNode).name)
}

func cmpProcNode(node1, node2 any) int {

	return strings.Compare(node1.(*procDefNode).name, node2.(*procDefNode).name)
}

//
// This function takes a variable name and returns its type, per the
// suffix convention: '%' int32, '%%' int64, '&' byte, '$' string,
// anything else float
//

func decodeVarType(name string) int {

	switch {
	case strings.HasSuffix(name, "%%"):
		return symInt64

	case strings.HasSuffix(name, "%"):
		return symInt

	case strings.HasSuffix(name, "&"):
		return symByte

	case strings.HasSuffix(name, "$"):
		return symString
	}

	return symFloat
}

func symElemKind(vType int) int {

	switch vType {
	default:
		fatalError("Bad variable type %d", vType)
		panic(nil) // avoid compiler complaint

	case symFloat:
		return kindFloat

	case symInt:
		return kindInt32

	case symInt64:
		return kindInt64

	case symString:
		return kindString
	}
}

//
// Scalar namespace
//

func lookupScalar(ctx *evalCtx, name string) *symtabNode {

	p := avl.AvlTreeLookup(ctx.scalars, name, cmpNameKey)
	if p != nil {
		return p.(*symtabNode)
	}

	return nil
}

func createScalar(ctx *evalCtx, name string) *symtabNode {

	runtimeCheck(len(name) <= maxVariableLen, ESYNTAX)

	sym := &symtabNode{name: name, vType: decodeVarType(name)}

	p := avl.AvlTreeInsert(&ctx.scalars, &sym.avl, sym, cmpNameNode)
	basicAssert(p == nil, "Symbol already defined")

	sym.index = len(ctx.slots)
	ctx.slots = append(ctx.slots, sym)

	return sym
}

func lookupOrCreateScalar(ctx *evalCtx, name string) *symtabNode {

	sym := lookupScalar(ctx, name)
	if sym == nil {
		sym = createScalar(ctx, name)
	}

	return sym
}

//
// Array namespace.  Arrays must be dimensioned before use; the
// descriptor's shape is immutable once created
//

func lookupArray(ctx *evalCtx, name string) *symtabNode {

	p := avl.AvlTreeLookup(ctx.arrays, name, cmpNameKey)
	if p != nil {
		return p.(*symtabNode)
	}

	return nil
}

func avlInsertArray(ctx *evalCtx, sym *symtabNode) any {

	p := avl.AvlTreeInsert(&ctx.arrays, &sym.avl, sym, cmpNameNode)
	if p == nil {
		sym.index = len(ctx.slots)
		ctx.slots = append(ctx.slots, sym)
	}

	return p
}

func createArray(ctx *evalCtx, name string, dims []int) *symtabNode {

	// A node may already exist without a descriptor (an array formal
	// that has never been bound); re-dimensioning a live array is the
	// actual fault

	sym := lookupArray(ctx, name)
	runtimeCheck(sym == nil || sym.arr == nil, EDUPDIM)

	for _, d := range dims {
		runtimeCheck(d > 0, EBADDIMCOUNT)
	}

	vType := decodeVarType(name)
	runtimeCheck(vType != symByte, ESYNTAX)

	inTree := sym != nil

	if sym == nil {
		sym = &symtabNode{name: name, vType: vType, isArray: true}
	}

	desc := &arrayDesc{dims: dims, elemKind: symElemKind(vType)}

	count := desc.count()
	runtimeCheck(count <= maxTempMemoryDefault/8, EARRAYMEM)

	switch desc.elemKind {
	case kindInt32:
		desc.i = make([]int32, count)

	case kindInt64:
		desc.i64 = make([]int64, count)

	case kindFloat:
		desc.f = make([]float64, count)

	case kindString:
		desc.s = make([]string, count)
	}

	sym.arr = desc

	if !inTree {
		p := avlInsertArray(ctx, sym)
		basicAssert(p == nil, "Array already defined")
	}

	return sym
}

//
// PROC/FN namespace.  Redefinition replaces the body in place so
// that inline-cached call sites stay valid
//

func lookupProc(ctx *evalCtx, name string) *procDefNode {

	p := avl.AvlTreeLookup(ctx.procs, name, cmpProcKey)
	if p != nil {
		return p.(*procDefNode)
	}

	return nil
}

func defineProc(ctx *evalCtx, def *procDefNode) {

	old := lookupProc(ctx, def.name)
	if old != nil {
		old.params = def.params
		old.body = def.body
		old.trap = def.trap
		return
	}

	p := avl.AvlTreeInsert(&ctx.procs, &def.avl, def, cmpProcNode)
	basicAssert(p == nil, "PROC/FN already defined")

	def.index = len(ctx.procSlots)
	ctx.procSlots = append(ctx.procSlots, def)
}

//
// Fetch a scalar's current value as a stack item.  Strings come
// back borrowed (kindString): they reference the variable's storage
// and are never freed by the stack
//

func fetchScalar(sym *symtabNode) stackItem {

	switch sym.vType {
	default:
		fatalError("Bad variable type %d", sym.vType)
		panic(nil) // avoid compiler complaint

	case symFloat:
		return stackItem{kind: kindFloat, fval: sym.value.f}

	case symInt:
		return stackItem{kind: kindInt32, ival: int64(sym.value.i)}

	case symInt64:
		return stackItem{kind: kindInt64, ival: sym.value.i64}

	case symByte:
		return stackItem{kind: kindByte, ival: int64(sym.value.b)}

	case symString:
		return stackItem{kind: kindString, sval: sym.value.s}
	}
}

//
// Store a value into a scalar, coercing per the assignment rules:
// numeric kinds interconvert (float to integer truncates toward
// zero, range checked; byte stores wrap), strings only accept
// strings.  The old and new values are reported when the variable
// is being traced
//

func storeScalar(sym *symtabNode, item stackItem) {

	old := sym.value

	switch sym.vType {
	default:
		fatalError("Bad variable type %d", sym.vType)

	case symFloat:
		runtimeCheck(isNumericKind(item.kind), ENUMBERNEEDED)
		sym.value.f = item.toFloat()
		traceVar(sym.name, nil, old.f, sym.value.f)

	case symInt:
		runtimeCheck(isNumericKind(item.kind), ENUMBERNEEDED)
		sym.value.i = item.toInt32()
		traceVar(sym.name, nil, old.i, sym.value.i)

	case symInt64:
		runtimeCheck(isNumericKind(item.kind), ENUMBERNEEDED)
		sym.value.i64 = item.toInt64()
		traceVar(sym.name, nil, old.i64, sym.value.i64)

	case symByte:
		runtimeCheck(isNumericKind(item.kind), ENUMBERNEEDED)
		sym.value.b = uint8(item.toInt64())
		traceVar(sym.name, nil, old.b, sym.value.b)

	case symString:
		runtimeCheck(isStringKind(item.kind), ESTRINGNEEDED)
		s := item.str()
		runtimeCheck(len(s) <= maxStringLen, ESTRINGLEN)
		sym.value.s = s
		traceVar(sym.name, nil, old.s, sym.value.s)
	}
}

//
// Array element access.  The subscript count must match the
// descriptor and every subscript must lie in [0, extent); the
// linear offset is row-major
//

func arrayOffset(desc *arrayDesc, subs []int) int {

	runtimeCheck(len(subs) == len(desc.dims), EBADDIMCOUNT)

	off := 0
	for n, sub := range subs {
		runtimeCheck(sub >= 0 && sub < desc.dims[n], ESUBSCRIPT)
		off = off*desc.dims[n] + sub
	}

	return off
}

func fetchElement(desc *arrayDesc, subs []int) stackItem {

	off := arrayOffset(desc, subs)

	switch desc.elemKind {
	default:
		fatalError("Bad array element kind %d", desc.elemKind)
		panic(nil) // avoid compiler complaint

	case kindInt32:
		return stackItem{kind: kindInt32, ival: int64(desc.i[off])}

	case kindInt64:
		return stackItem{kind: kindInt64, ival: desc.i64[off]}

	case kindFloat:
		return stackItem{kind: kindFloat, fval: desc.f[off]}

	case kindString:
		return stackItem{kind: kindString, sval: desc.s[off]}
	}
}

func storeElement(sym *symtabNode, subs []int, item stackItem) {

	desc := sym.arr
	off := arrayOffset(desc, subs)

	switch desc.elemKind {
	default:
		fatalError("Bad array element kind %d", desc.elemKind)

	case kindInt32:
		runtimeCheck(isNumericKind(item.kind), ENUMBERNEEDED)
		traceVar(sym.name, subs, desc.i[off], item.toInt32())
		desc.i[off] = item.toInt32()

	case kindInt64:
		runtimeCheck(isNumericKind(item.kind), ENUMBERNEEDED)
		traceVar(sym.name, subs, desc.i64[off], item.toInt64())
		desc.i64[off] = item.toInt64()

	case kindFloat:
		runtimeCheck(isNumericKind(item.kind), ENUMBERNEEDED)
		traceVar(sym.name, subs, desc.f[off], item.toFloat())
		desc.f[off] = item.toFloat()

	case kindString:
		runtimeCheck(isStringKind(item.kind), ESTRINGNEEDED)
		s := item.str()
		runtimeCheck(len(s) <= maxStringLen, ESTRINGLEN)
		traceVar(sym.name, subs, desc.s[off], s)
		desc.s[off] = s
	}
}

func traceVar(name string, subs []int, oval, nval any) {

	if !g.traceVars {
		return
	}

	fmt.Printf("Variable %s", name)

	if subs != nil {
		sep := "("
		for _, sub := range subs {
			fmt.Printf("%s%d", sep, sub)
			sep = ","
		}
		fmt.Printf(")")
	}

	if strings.HasSuffix(name, "$") {
		fmt.Printf(" changed from %q to %q\n", oval, nval)
	} else {
		fmt.Printf(" changed from %v to %v\n", oval, nval)
	}
}

//
// Walk both variable namespaces in name order, printing each
// symbol.  Backs the 'vars' shell command
//

func listVariables(ctx *evalCtx) {

	for p := avl.AvlTreeFirstInOrder(ctx.scalars); p != nil; {
		sym := p.(*symtabNode)

		item := fetchScalar(sym)
		fmt.Printf("%s = %s\n", sym.name, basicFormat(&item))

		p = avl.AvlTreeNextInOrder(&sym.avl)
	}

	for p := avl.AvlTreeFirstInOrder(ctx.arrays); p != nil; {
		sym := p.(*symtabNode)

		sep := "("
		line := sym.name
		for _, d := range sym.arr.dims {
			line += fmt.Sprintf("%s%d", sep, d-1)
			sep = ","
		}
		fmt.Println(line + ")")

		p = avl.AvlTreeNextInOrder(&sym.avl)
	}
}
