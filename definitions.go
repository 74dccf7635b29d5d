package main

import (
	"github.com/danswartzendruber/avl"
	"github.com/danswartzendruber/liner"
	"math"
)

//
// Constants
//

const VERSION = "1.0.0"

const myPrompt = "> "

const maxStringLen = math.MaxInt16

const maxVariableLen = 29

const maxOpStackDepth = 64

const fnRecursionDefault = 1000

const maxTempMemoryDefault = (1024 * 1024 * 1000)

const memorySizeDefault = (64 * 1024)

const minWindowCols = 40

const zoneWidth = 14

const floatingPointMode = "IEEE-754 64-bit Floating Point"

const minExpArg = -745
const maxExpArg = 709

const boolInt32False int32 = 0
const boolInt32True int32 = -1

const settingsFilename = "basic5.yaml"

//
// Stack value kinds.  The first four are scalar numerics, then the
// two string flavors (a reference borrowed from variable storage or
// the program image, and an owned temporary that may be grown in
// place), then the two array flavors (a borrowed descriptor and an
// arena-accounted temporary)
//

const (
	kindNone = iota
	kindInt32
	kindByte
	kindInt64
	kindFloat
	kindString
	kindStrTemp
	kindArray
	kindArrayTemp
)

//
// Variable types, determined by the name suffix: '%' int32, '%%'
// int64, '&' byte, '$' string, none float
//

const (
	symFloat = iota
	symInt
	symInt64
	symByte
	symString
)

//
// Type definitions
//

type stackItem struct {
	arr  *arrayDesc
	sval string
	temp []byte
	ival int64
	fval float64
	kind int
}

//
// An array descriptor.  dims holds the element count per dimension,
// so valid subscripts run [0, dims[n]).  Storage is one flat slice
// per element kind, row-major.  dims and elemKind never change once
// the array has been dimensioned
//

type arrayDesc struct {
	dims     []int
	i        []int32
	i64      []int64
	f        []float64
	s        []string
	elemKind int
	temp     bool
}

type evalStack struct {
	entries []stackItem
}

//
// The arena accounts temporary array and string storage carved out
// during an expression or call, against a hard ceiling.  Allocation
// and release are LIFO: mark() on the way in, release() on the way
// out, whether the way out is a normal return or an unwind
//

type arena struct {
	marks []int64
	used  int64
	limit int64
}

type symValue struct {
	s   string
	i64 int64
	f   float64
	i   int32
	b   uint8
}

type symtabNode struct {
	avl     avl.AvlNode
	arr     *arrayDesc
	name    string
	value   symValue
	vType   int
	index   int
	isArray bool
}

type formalParam struct {
	name    string
	vType   int
	isArray bool
	byRef   bool
}

type procDefNode struct {
	avl    avl.AvlNode
	name   string
	params []formalParam
	body   []byte
	trap   []byte
	vType  int
	index  int
	isFn   bool
}

//
// One bound formal parameter: the symbol whose storage was
// overwritten, its prior value, and (for RETURN parameters) the
// caller's variable to copy the final value back to
//

type savedParam struct {
	sym      *symtabNode
	target   *symtabNode
	value    symValue
	savedArr *arrayDesc
}

type callFrame struct {
	def   *procDefNode
	saved []savedParam
	depth int
	done  bool
}

type opStackEntry struct {
	op   byte
	prio int
}

type faultInfo struct {
	msg string
	err int16
}

type internalErrorInfo struct {
	msg  string
	file string
	line int
}

type basicMemory struct {
	data []byte
}

type settings struct {
	Prompt       string `yaml:"prompt"`
	MaxRecursion int16  `yaml:"max-recursion"`
	TempMemory   int64  `yaml:"temp-memory"`
	MemorySize   int    `yaml:"memory-size"`
	Denorm       bool   `yaml:"denorm"`
	Debug        bool   `yaml:"debug"`
}

type window struct {
	rows int
	cols int
}

//
// All evaluation state lives here and is threaded explicitly: the
// token image and cursor, the value stack, the arena, the symbol
// tables with their direct-address slot tables, the flat memory
// image behind the indirection operators, and the call depth.
// Only the component currently executing advances the cursor or
// touches the value stack
//

type evalCtx struct {
	scalars      *avl.AvlNode
	arrays       *avl.AvlNode
	procs        *avl.AvlNode
	mem          *basicMemory
	lastFault    *faultInfo
	image        []byte
	slots        []*symtabNode
	procSlots    []*procDefNode
	pos          int
	stack        evalStack
	arena        arena
	level        int16
	maxRecursion int16
	denorm       bool
}

//
// Global variables
//

//
// This structure contains the persistent state of the shell.  The
// evaluator proper never reads it except for the trace switches
//

var g struct {
	replLiner   *liner.State
	cfg         settings
	window      window
	interactive bool
	exiting     bool
	interrupted bool
	traceExec   bool
	traceVars   bool
	traceStack  bool
	traceDump   bool
}

//
// These map numeric errors to the corresponding error text and
// vice-versa
//

var errorMap map[string]int16
var errorMapRev map[int16]string

var keywordMap map[string]byte

var opNameMap map[byte]string
