package main

//
// The value stack.  Scalars and borrowed references are plain
// copies; owned temporaries (kindStrTemp, kindArrayTemp) are moved:
// a pop transfers the temporary to the popping handler, which must
// either fold it into its result or let it die with the arena mark.
// Kind-checked pops treat a mismatch as a broken invariant, not a
// user error: user-level type errors are raised by the popNumeric /
// popString / popArray family before we ever get here
//

func (s *evalStack) push(item stackItem) {

	s.entries = append(s.entries, item)
}

func (s *evalStack) pop() stackItem {

	basicAssert(len(s.entries) > 0, "Value stack is empty")

	item := s.entries[len(s.entries)-1]
	s.entries = s.entries[:len(s.entries)-1]

	return item
}

func (s *evalStack) peekKind() int {

	basicAssert(len(s.entries) > 0, "Value stack is empty")

	return s.entries[len(s.entries)-1].kind
}

func (s *evalStack) depth() int {

	return len(s.entries)
}

func (s *evalStack) popKind(kind int) stackItem {

	item := s.pop()

	basicAssert(item.kind == kind, "Value stack kind mismatch")

	return item
}

//
// Type-checked pops for operator handlers.  These raise user-level
// type mismatch faults
//

func (s *evalStack) popNumeric() stackItem {

	item := s.pop()

	runtimeCheck(isNumericKind(item.kind), ENUMBERNEEDED)

	return item
}

func (s *evalStack) popString() stackItem {

	item := s.pop()

	runtimeCheck(isStringKind(item.kind), ESTRINGNEEDED)

	return item
}

func (s *evalStack) popArray() *arrayDesc {

	item := s.pop()

	runtimeCheck(isArrayKind(item.kind), EARRAYNEEDED)

	return item.arr
}

//
// Convenience pushes
//

func (s *evalStack) pushInt32(v int32) {

	s.push(stackItem{kind: kindInt32, ival: int64(v)})
}

func (s *evalStack) pushByte(v uint8) {

	s.push(stackItem{kind: kindByte, ival: int64(v)})
}

func (s *evalStack) pushInt64(v int64) {

	s.push(stackItem{kind: kindInt64, ival: v})
}

func (s *evalStack) pushFloat(v float64) {

	s.push(stackItem{kind: kindFloat, fval: v})
}

func (s *evalStack) pushString(v string) {

	s.push(stackItem{kind: kindString, sval: v})
}

func (s *evalStack) pushStrTemp(v []byte) {

	s.push(stackItem{kind: kindStrTemp, temp: v})
}

func (s *evalStack) pushBool(b bool) {

	if b {
		s.pushInt32(boolInt32True)
	} else {
		s.pushInt32(boolInt32False)
	}
}

//
// Kind predicates and scalar accessors
//

func isNumericKind(kind int) bool {

	switch kind {
	case kindInt32, kindByte, kindInt64, kindFloat:
		return true
	}

	return false
}

func isStringKind(kind int) bool {

	return kind == kindString || kind == kindStrTemp
}

func isArrayKind(kind int) bool {

	return kind == kindArray || kind == kindArrayTemp
}

//
// True when the integer kind is int32 or narrower, for the result
// narrowing rule
//

func isNarrowKind(kind int) bool {

	return kind == kindInt32 || kind == kindByte
}

func (item stackItem) str() string {

	if item.kind == kindStrTemp {
		return string(item.temp)
	}

	return item.sval
}

func (item stackItem) toFloat() float64 {

	if item.kind == kindFloat {
		return item.fval
	}

	return float64(item.ival)
}

func (item stackItem) toInt64() int64 {

	if item.kind == kindFloat {
		return floatToInt64(item.fval)
	}

	return item.ival
}

func (item stackItem) toInt32() int32 {

	v := item.toInt64()

	runtimeCheck(v >= -2147483648 && v <= 2147483647, ENUMBERRANGE)

	return int32(v)
}

//
// Arena accounting.  Temporary arrays and strings reserve against
// the ceiling on the way in; marks are taken per expression and per
// call frame, and release rolls the accounting back in LIFO order.
// The backing slices themselves are ordinary garbage-collected
// storage; the arena is what bounds how much of it one evaluation
// may hold live at once
//

func (a *arena) mark() {

	a.marks = append(a.marks, a.used)
}

func (a *arena) release() {

	basicAssert(len(a.marks) > 0, "Arena release without mark")

	a.used = a.marks[len(a.marks)-1]
	a.marks = a.marks[:len(a.marks)-1]
}

func (a *arena) reserve(nbytes int64) {

	runtimeCheck(a.used+nbytes <= a.limit, EARRAYMEM)

	a.used += nbytes
}

//
// Allocate a temporary array with the given shape and element kind,
// charged to the arena
//

func (ctx *evalCtx) allocArrayTemp(dims []int, elemKind int) *arrayDesc {

	count := int64(1)
	for _, d := range dims {
		count *= int64(d)
	}

	desc := &arrayDesc{
		dims:     append([]int(nil), dims...),
		elemKind: elemKind,
		temp:     true,
	}

	switch elemKind {
	default:
		fatalError("Bad array element kind %d", elemKind)

	case kindInt32:
		ctx.arena.reserve(count * 4)
		desc.i = make([]int32, count)

	case kindInt64:
		ctx.arena.reserve(count * 8)
		desc.i64 = make([]int64, count)

	case kindFloat:
		ctx.arena.reserve(count * 8)
		desc.f = make([]float64, count)

	case kindString:
		ctx.arena.reserve(count * 16)
		desc.s = make([]string, count)
	}

	return desc
}

func (ctx *evalCtx) allocStrTemp(capacity int) []byte {

	ctx.arena.reserve(int64(capacity))

	return make([]byte, 0, capacity)
}

//
// Array shape helpers
//

func (a *arrayDesc) count() int {

	n := 1
	for _, d := range a.dims {
		n *= d
	}

	return n
}

func sameShape(a, b *arrayDesc) bool {

	if len(a.dims) != len(b.dims) {
		return false
	}

	for i := range a.dims {
		if a.dims[i] != b.dims[i] {
			return false
		}
	}

	return true
}
