package main

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

//
// Manifest constants for the error messages the evaluator can raise.
// The wording follows the BBC BASIC V manual where the error exists
// there.  NB: only messages with associated error numbers are present
// in the errorMap; anything else is not reportable through ERR-style
// machinery and just aborts the evaluation
//

const (
	ENUMBERNEEDED = "Type mismatch: number needed"
	ESTRINGNEEDED = "Type mismatch: string needed"
	EARRAYNEEDED  = "Type mismatch: array needed"
	EARRAYSHAPE   = "Array dimensions are different"
	EARRAYBADOP   = "Bad use of array"
	ENUMBERRANGE  = "Number too big"
	EDIVZERO      = "Division by zero"
	ESUBSCRIPT    = "Subscript out of range"
	EBADDIMCOUNT  = "Wrong number of subscripts"
	EMATDIM       = "Matrix dimensions do not match"
	ESTRINGLEN    = "String too long"
	ETOOFEWARGS   = "Too few arguments to PROC/FN"
	ETOOMANYARGS  = "Too many arguments to PROC/FN"
	EPARAMTYPE    = "Parameter type mismatch"
	ENOSUCHVAR    = "No such variable"
	ENOSUCHPROC   = "No such PROC/FN"
	ENODIM        = "Array has not been dimensioned"
	EDUPDIM       = "Array already dimensioned"
	EOPSTACKFULL  = "Expression too complex"
	ERECURSION    = "PROC/FN recursion too deep"
	EADDRESS      = "Address out of range"
	EARRAYMEM     = "Array or matrix too large"
	ENEGROOT      = "Negative root"
	ELOGRANGE     = "Log range"
	EEXPRANGE     = "Exp range"
	ENOFNRESULT   = "No value returned from FN"
	EESCAPE       = "Escape"
	ESYNTAX       = "Syntax error"
	EMISSINGQUOTE = "Missing \""
	EMISSINGPAREN = "Missing )"
)

//
// The numeric codes follow the BBC BASIC V assignments where one
// exists; the remainder (parameter arity, recursion, arena) get
// codes from the gap above 40, which BASIC V leaves unused
//

func initErrors() {

	errorMap[ENUMBERNEEDED] = 6
	errorMap[ESTRINGNEEDED] = 6
	errorMap[EARRAYNEEDED] = 6
	errorMap[EARRAYSHAPE] = 7
	errorMap[EARRAYBADOP] = 14
	errorMap[ESUBSCRIPT] = 15
	errorMap[EBADDIMCOUNT] = 15
	errorMap[ESYNTAX] = 16
	errorMap[EESCAPE] = 17
	errorMap[EDIVZERO] = 18
	errorMap[ESTRINGLEN] = 19
	errorMap[ENUMBERRANGE] = 20
	errorMap[ENEGROOT] = 21
	errorMap[ELOGRANGE] = 22
	errorMap[EEXPRANGE] = 24
	errorMap[ENOSUCHVAR] = 26
	errorMap[EMISSINGPAREN] = 27
	errorMap[ENODIM] = 28
	errorMap[ENOSUCHPROC] = 29
	errorMap[EDUPDIM] = 30
	errorMap[ETOOFEWARGS] = 31
	errorMap[ETOOMANYARGS] = 31
	errorMap[EPARAMTYPE] = 31
	errorMap[EMATDIM] = 41
	errorMap[EOPSTACKFULL] = 42
	errorMap[ERECURSION] = 43
	errorMap[EADDRESS] = 44
	errorMap[EARRAYMEM] = 45
	errorMap[ENOFNRESULT] = 46

	for k, v := range errorMap {
		errorMapRev[v] = k
	}
}

//
// We return -1 on a failed lookup, meaning the message carries no
// reportable code (only formatted messages end up here, and their
// base message was assigned the code at raise time)
//

func getErrorNo(msg string) int16 {

	err, ok := errorMap[msg]
	if ok {
		return err
	} else {
		return -1
	}
}

func getErrorMsg(err int16) string {

	errMsg, ok := errorMapRev[err]
	basicAssert(ok, "No error message")

	return errMsg
}

//
// Raise a fault.  Control transfers to the nearest recovery point:
// either a call frame entered under local error trapping, or the
// shell's call() wrapper.  This never returns
//

func runtimeError(msg string) {

	panic(&faultInfo{msg: strings.TrimSuffix(msg, "\n"), err: getErrorNo(msg)})
}

//
// Same, but with context appended to a base message.  The numeric
// code is looked up from the base message before formatting
//

func runtimeErrorf(msg string, f string, args ...any) {

	full := msg + ": " + fmt.Sprintf(f, args...)

	panic(&faultInfo{msg: full, err: getErrorNo(msg)})
}

func runtimeCheck(chk bool, msg string) {

	if !chk {
		runtimeError(msg)
	}
}

//
// A couple of handy 'assert' functions for states the evaluator
// believes are unreachable.  These are the broken-invariant kind:
// they are not catchable by local error trapping, and they record
// the caller's file and line
//

func basicAssert(chk bool, msg string) {

	if !chk {
		fatalError("%s", msg)
	}
}

func fatalError(f string, args ...any) {

	_, file, line, ok := runtime.Caller(2)
	if !ok {
		file, line = "?", 0
	}

	msg := strings.TrimRight(fmt.Sprintf(f, args...), "\n")

	panic(&internalErrorInfo{msg: msg, file: filepath.Base(file), line: line})
}

func unexpectedTokenError(tok byte) {

	fatalError("Unexpected token %d", tok)
}
