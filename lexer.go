package main

import (
	"encoding/binary"
	"math"
	"strconv"
	"strings"
)

//
// A hand lexer turning one line of input into the byte-coded image
// the evaluator consumes.  Keywords are recognized in upper case
// only, the BBC convention, which is what makes long lower-case
// variable names possible at all.  Lexing failures raise ordinary
// faults and unwind to the shell loop
//

type imageBuilder struct {
	buf []byte
}

func (b *imageBuilder) emit(tok byte) {

	b.buf = append(b.buf, tok)
}

func (b *imageBuilder) emitInt(v int64) {

	switch {
	case v == 0:
		b.emit(tokZero)

	case v == 1:
		b.emit(tokOne)

	case v >= 0 && v <= math.MaxUint8:
		b.emit(tokSmallConst)
		b.buf = append(b.buf, uint8(v))

	case v >= math.MinInt32 && v <= math.MaxInt32:
		b.emit(tokIntConst)
		b.buf = binary.LittleEndian.AppendUint32(b.buf, uint32(int32(v)))

	default:
		b.emit(tokInt64Const)
		b.buf = binary.LittleEndian.AppendUint64(b.buf, uint64(v))
	}
}

func (b *imageBuilder) emitFloat(v float64) {

	b.emit(tokFloatConst)
	b.buf = binary.LittleEndian.AppendUint64(b.buf, math.Float64bits(v))
}

func (b *imageBuilder) emitString(s string) {

	runtimeCheck(len(s) <= maxStringLen, ESTRINGLEN)

	b.emit(tokStringConst)
	b.buf = binary.LittleEndian.AppendUint16(b.buf, uint16(len(s)))
	b.buf = append(b.buf, s...)
}

//
// Name tokens reserve the 2-byte direct-address slot the evaluator
// fills in on first resolution
//

func (b *imageBuilder) emitName(tok byte, name string) {

	runtimeCheck(len(name) > 0 && len(name) <= maxVariableLen, ESYNTAX)

	b.emit(tok)
	b.buf = binary.LittleEndian.AppendUint16(b.buf, nameSlotUnresolved)
	b.buf = append(b.buf, uint8(len(name)))
	b.buf = append(b.buf, name...)
}

func initMaps() {

	errorMap = make(map[string]int16)
	errorMapRev = make(map[int16]string)

	keywordMap = map[string]byte{
		"DIV":    tokDiv,
		"MOD":    tokMod,
		"AND":    tokAnd,
		"OR":     tokOr,
		"EOR":    tokEor,
		"NOT":    tokNot,
		"ABS":    tokAbs,
		"SGN":    tokSgn,
		"INT":    tokInt,
		"SQR":    tokSqr,
		"EXP":    tokExp,
		"LN":     tokLn,
		"LOG":    tokLog,
		"SIN":    tokSin,
		"COS":    tokCos,
		"TAN":    tokTan,
		"ATN":    tokAtn,
		"RND":    tokRnd,
		"PI":     tokPi,
		"TRUE":   tokTrue,
		"FALSE":  tokFalse,
		"TIME":   tokTime,
		"LEN":    tokLen,
		"SUM":    tokSum,
		"DEF":    tokDef,
		"DIM":    tokDim,
		"RETURN": tokReturn,
		"ERROR":  tokError,
	}

	opNameMap = map[byte]string{
		tokPlus: "+", tokMinus: "-", tokStar: "*", tokSlash: "/",
		tokDiv: "DIV", tokMod: "MOD", tokCaret: "^", tokMatMul: ".",
		tokLsl: "<<", tokAsr: ">>", tokLsr: ">>>",
		tokEq: "=", tokNe: "<>", tokGt: ">", tokLt: "<",
		tokGe: ">=", tokLe: "<=",
		tokAnd: "AND", tokOr: "OR", tokEor: "EOR",
	}
}

func isNameStart(ch byte) bool {

	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isNameChar(ch byte) bool {

	return isNameStart(ch) || (ch >= '0' && ch <= '9')
}

func isDigit(ch byte) bool {

	return ch >= '0' && ch <= '9'
}

func lexLine(line string) []byte {

	var b imageBuilder

	i := 0
	for i < len(line) {
		ch := line[i]

		switch {
		case ch == ' ' || ch == '\t':
			i++

		case isDigit(ch) || (ch == '.' && i+1 < len(line) && isDigit(line[i+1])):
			i = lexNumber(&b, line, i)

		case ch == '&':
			i = lexHex(&b, line, i+1)

		case ch == '"':
			i = lexString(&b, line, i+1)

		case isNameStart(ch):
			i = lexName(&b, line, i)

		default:
			i = lexOperator(&b, line, i)
		}
	}

	b.emit(tokEOL)

	return b.buf
}

func lexNumber(b *imageBuilder, line string, i int) int {

	start := i
	isFloat := false

	for i < len(line) && isDigit(line[i]) {
		i++
	}

	if i < len(line) && line[i] == '.' {
		isFloat = true
		i++
		for i < len(line) && isDigit(line[i]) {
			i++
		}
	}

	if i < len(line) && (line[i] == 'E' || line[i] == 'e') {
		j := i + 1
		if j < len(line) && (line[j] == '+' || line[j] == '-') {
			j++
		}
		if j < len(line) && isDigit(line[j]) {
			isFloat = true
			i = j
			for i < len(line) && isDigit(line[i]) {
				i++
			}
		}
	}

	text := line[start:i]

	if !isFloat {
		if v, err := strconv.ParseInt(text, 10, 64); err == nil {
			b.emitInt(v)
			return i
		}

		//
		// Integer literal too large for int64: fall back to float
		//
	}

	v, err := strconv.ParseFloat(text, 64)
	runtimeCheck(err == nil, ESYNTAX)

	b.emitFloat(v)

	return i
}

func lexHex(b *imageBuilder, line string, i int) int {

	start := i

	for i < len(line) && (isDigit(line[i]) ||
		(line[i] >= 'A' && line[i] <= 'F') ||
		(line[i] >= 'a' && line[i] <= 'f')) {
		i++
	}

	runtimeCheck(i > start, ESYNTAX)

	v, err := strconv.ParseUint(line[start:i], 16, 64)
	runtimeCheck(err == nil, ENUMBERRANGE)

	b.emitInt(int64(v))

	return i
}

//
// String literals: a doubled quote collapses to one quote, per the
// BASIC convention.  The cooked bytes land in the image so the
// evaluator never sees the escape
//

func lexString(b *imageBuilder, line string, i int) int {

	var cooked []byte

	for i < len(line) {
		if line[i] == '"' {
			if i+1 < len(line) && line[i+1] == '"' {
				cooked = append(cooked, '"')
				i += 2
				continue
			}

			b.emitString(string(cooked))
			return i + 1
		}

		cooked = append(cooked, line[i])
		i++
	}

	runtimeError(EMISSINGQUOTE)
	panic(nil) // avoid compiler complaint
}

func lexName(b *imageBuilder, line string, i int) int {

	start := i

	for i < len(line) && isNameChar(line[i]) {
		i++
	}

	//
	// Consume the type suffix, if any.  '%%' must be checked before
	// '%'
	//

	switch {
	case strings.HasPrefix(line[i:], "%%"):
		i += 2

	case i < len(line) && (line[i] == '%' || line[i] == '&' ||
		line[i] == '$'):
		i++
	}

	name := line[start:i]

	if tok, ok := keywordMap[name]; ok {
		b.emit(tok)
		return i
	}

	switch {
	case strings.HasPrefix(name, "FN") && len(name) > 2:
		b.emitName(tokFnName, name[2:])

	case strings.HasPrefix(name, "PROC") && len(name) > 4:
		b.emitName(tokProcName, name[4:])

	default:
		b.emitName(tokName, name)
	}

	return i
}

func lexOperator(b *imageBuilder, line string, i int) int {

	switch line[i] {
	default:
		runtimeError(ESYNTAX)

	case '(':
		b.emit(tokLparen)

	case ')':
		b.emit(tokRparen)

	case ',':
		b.emit(tokComma)

	case ':':
		b.emit(tokColon)

	case '+':
		b.emit(tokPlus)

	case '-':
		b.emit(tokMinus)

	case '*':
		b.emit(tokStar)

	case '/':
		b.emit(tokSlash)

	case '^':
		b.emit(tokCaret)

	case '.':
		b.emit(tokMatMul)

	case '=':
		b.emit(tokEq)

	case '?':
		b.emit(tokQuery)

	case '!':
		b.emit(tokPling)

	case ']':
		b.emit(tokRbracket)

	case '|':
		b.emit(tokBar)

	case '$':
		b.emit(tokDollar)

	case '<':
		switch {
		case strings.HasPrefix(line[i:], "<<"):
			b.emit(tokLsl)
			return i + 2

		case strings.HasPrefix(line[i:], "<="):
			b.emit(tokLe)
			return i + 2

		case strings.HasPrefix(line[i:], "<>"):
			b.emit(tokNe)
			return i + 2

		default:
			b.emit(tokLt)
		}

	case '>':
		switch {
		case strings.HasPrefix(line[i:], ">>>"):
			b.emit(tokLsr)
			return i + 3

		case strings.HasPrefix(line[i:], ">>"):
			b.emit(tokAsr)
			return i + 2

		case strings.HasPrefix(line[i:], ">="):
			b.emit(tokGe)
			return i + 2

		default:
			b.emit(tokGt)
		}
	}

	return i + 1
}
