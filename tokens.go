package main

import (
	"encoding/binary"
	"math"
)

//
// Token bytes for the program image.  Constants carry their payload
// inline after the token byte, little-endian.  Name tokens carry a
// 2-byte direct-address slot (0xffff until resolved), a length byte
// and the name bytes; resolution flips the token to its cached form
// and writes the slot, leaving the layout otherwise untouched so the
// cursor advances identically over both forms
//

const (
	tokEOL byte = iota
	tokZero
	tokOne
	tokSmallConst
	tokIntConst
	tokInt64Const
	tokFloatConst
	tokStringConst

	tokName
	tokNameCached
	tokFnName
	tokFnCached
	tokProcName
	tokProcCached

	tokLparen
	tokRparen
	tokComma
	tokColon

	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokDiv
	tokMod
	tokCaret
	tokMatMul
	tokLsl
	tokAsr
	tokLsr
	tokEq
	tokNe
	tokGt
	tokLt
	tokGe
	tokLe
	tokAnd
	tokOr
	tokEor

	tokQuery
	tokPling
	tokRbracket
	tokBar
	tokDollar

	tokNot
	tokAbs
	tokSgn
	tokInt
	tokSqr
	tokExp
	tokLn
	tokLog
	tokSin
	tokCos
	tokTan
	tokAtn
	tokRnd
	tokPi
	tokTrue
	tokFalse
	tokTime
	tokLen
	tokSum

	tokDef
	tokDim
	tokReturn
	tokError
)

const nameSlotUnresolved = 0xffff

//
// Cursor primitives.  The image is always terminated by tokEOL, so
// peeking at or past the end is well defined
//

func (ctx *evalCtx) peek() byte {

	if ctx.pos >= len(ctx.image) {
		return tokEOL
	}

	return ctx.image[ctx.pos]
}

func (ctx *evalCtx) advance() {

	basicAssert(ctx.pos < len(ctx.image), "Cursor ran off the image")

	ctx.pos++
}

func (ctx *evalCtx) expect(tok byte, msg string) {

	runtimeCheck(ctx.peek() == tok, msg)

	ctx.advance()
}

//
// Embedded constant readers.  Each reads the payload at the cursor
// and advances past it
//

func (ctx *evalCtx) readByteVal() uint8 {

	v := ctx.image[ctx.pos]
	ctx.pos++

	return v
}

func (ctx *evalCtx) readInt32Val() int32 {

	v := binary.LittleEndian.Uint32(ctx.image[ctx.pos:])
	ctx.pos += 4

	return int32(v)
}

func (ctx *evalCtx) readInt64Val() int64 {

	v := binary.LittleEndian.Uint64(ctx.image[ctx.pos:])
	ctx.pos += 8

	return int64(v)
}

func (ctx *evalCtx) readFloatVal() float64 {

	v := binary.LittleEndian.Uint64(ctx.image[ctx.pos:])
	ctx.pos += 8

	return math.Float64frombits(v)
}

func (ctx *evalCtx) readStringVal() string {

	n := int(binary.LittleEndian.Uint16(ctx.image[ctx.pos:]))
	ctx.pos += 2

	s := string(ctx.image[ctx.pos : ctx.pos+n])
	ctx.pos += n

	return s
}

//
// Read a name token.  The cursor sits just past the token byte; on
// return it sits past the name.  start is the position of the token
// byte itself, needed for the in-place cache rewrite
//

func (ctx *evalCtx) readNameVal() (name string, slot int, start int) {

	start = ctx.pos - 1

	slot = int(binary.LittleEndian.Uint16(ctx.image[ctx.pos:]))
	ctx.pos += 2

	n := int(ctx.image[ctx.pos])
	ctx.pos++

	name = string(ctx.image[ctx.pos : ctx.pos+n])
	ctx.pos += n

	return name, slot, start
}

//
// Rewrite a name token in place to its cached (direct-address) form.
// This is the only mutation ever applied to the image.  The write is
// idempotent and both token forms parse identically, so a recursive
// re-evaluation of the same position is safe whichever form it sees
//

func (ctx *evalCtx) cacheNameSlot(start int, cachedTok byte, index int) {

	basicAssert(index >= 0 && index < nameSlotUnresolved, "Slot overflow")

	ctx.image[start] = cachedTok
	binary.LittleEndian.PutUint16(ctx.image[start+1:], uint16(index))
}

//
// Skip one token including its payload, returning the position of
// the next one.  Used when scanning a definition body for its ERROR
// clause without evaluating anything
//

func skipToken(image []byte, pos int) int {

	tok := image[pos]
	pos++

	switch tok {
	default:
		return pos

	case tokSmallConst:
		return pos + 1

	case tokIntConst:
		return pos + 4

	case tokInt64Const, tokFloatConst:
		return pos + 8

	case tokStringConst:
		return pos + 2 + int(binary.LittleEndian.Uint16(image[pos:]))

	case tokName, tokNameCached, tokFnName, tokFnCached,
		tokProcName, tokProcCached:
		return pos + 3 + int(image[pos+2])
	}
}

//
// Run f against a different token image (a PROC/FN body or an ERROR
// fallback), restoring the caller's image and cursor afterwards,
// unwinding included
//

func (ctx *evalCtx) withImage(image []byte, f func()) {

	savedImage, savedPos := ctx.image, ctx.pos

	defer func() {
		ctx.image, ctx.pos = savedImage, savedPos
	}()

	ctx.image = image
	ctx.pos = 0

	f()
}
