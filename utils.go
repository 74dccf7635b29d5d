package main

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/danswartzendruber/liner"
	"github.com/mattn/go-isatty"
	"github.com/tklauser/go-sysconf"
	"golang.org/x/term"
)

//
// Figure out whether we are talking to a terminal.  Piped input is
// fine, it just turns off line editing, history and the prompt
//

func checkTerminal() {

	g.interactive = isatty.IsTerminal(os.Stdin.Fd()) &&
		term.IsTerminal(int(os.Stdout.Fd()))
}

//
// Read terminal geometry for array printing.  Called at startup and
// again from the signal handler on SIGWINCH
//

func setupWindow() {

	cols, rows, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || cols < minWindowCols {
		cols, rows = minWindowCols, 24
	}

	g.window.cols = cols
	g.window.rows = rows
}

//
// One liner instance gives the shell editing and scrollback.  Close
// restores the terminal state, so it must run on every exit path
//

func setupLiner() {

	l := liner.NewLiner()
	l.SetMultiLineMode(true)

	g.replLiner = l
}

func cleanupLiner() {

	if g.replLiner != nil {
		g.replLiner.Close()
		g.replLiner = nil
	}
}

//
// Read one input line.  The second return value reports EOF; ^C
// just yields an empty line and a fresh prompt
//

func readLine(prompt string) (string, bool) {

	if g.replLiner == nil {
		return readLinePlain(prompt)
	}

	s, err := g.replLiner.Prompt(prompt)

	if err != nil {
		if err == liner.ErrPromptAborted {
			return "", false
		}

		return "", true
	}

	if strings.TrimSpace(s) != "" {
		g.replLiner.AppendHistory(s)
	}

	return s, false
}

func readLinePlain(prompt string) (string, bool) {

	if g.interactive {
		fmt.Print(prompt)
	}

	var buf []byte
	one := make([]byte, 1)

	for {
		n, err := os.Stdin.Read(one)
		if n == 0 || err != nil {
			return string(buf), len(buf) == 0
		}

		if one[0] == '\n' {
			return string(buf), false
		}

		buf = append(buf, one[0])
	}
}

//
// Format a scalar result to at most zoneWidth-1 characters, the
// float path trimming the mantissa rather than the exponent and
// never leaving trailing zero digits behind
//

func basicFormat(item *stackItem) string {

	w := zoneWidth - 2

	switch item.kind {
	default:
		fatalError("Bad stack kind %d", item.kind)
		panic(nil) // avoid compiler complaint

	case kindString, kindStrTemp:
		return item.str()

	case kindInt32, kindByte, kindInt64:
		return strconv.FormatInt(item.ival, 10)

	case kindFloat:
		fltStr := strconv.FormatFloat(item.fval, 'g', w, 64)
		fltParts := strings.Split(fltStr, "e")

		switch len(fltParts) {
		default:
			fatalError("strings.Split botch")
			panic(nil) // avoid compiler complaint

		case 1:
			return trimFloat(trimString(fltParts[0], w))

		case 2:
			estr := "e" + fltParts[1]
			return trimFloat(trimString(fltParts[0], w-len(estr))) + estr
		}
	}
}

func trimFloat(s string) string {

	if !strings.Contains(s, ".") {
		return s
	}

	s = strings.TrimRight(s, "0")

	return strings.TrimSuffix(s, ".")
}

func trimString(str string, maxlen int) string {

	return str[0:min(len(str), maxlen)]
}

//
// Print an expression result.  Arrays lay their elements out in
// print zones, as many per line as the window allows, one row per
// line for two-dimensional results
//

func printResult(item *stackItem) {

	if !isArrayKind(item.kind) {
		fmt.Println(basicFormat(item))
		return
	}

	arr := item.arr

	rowLen := arr.dims[len(arr.dims)-1]
	perLine := max(g.window.cols/zoneWidth, 1)

	col := 0
	for off := 0; off < arr.count(); off++ {
		e := arr.itemAt(off)

		fmt.Print(padString(basicFormat(&e), zoneWidth))

		col++
		if col == rowLen {
			fmt.Println()
			col = 0
		} else if col%perLine == 0 {
			fmt.Println()
		}
	}

	if col != 0 && col%perLine != 0 {
		fmt.Println()
	}
}

func padString(str string, minlen int) string {

	if len(str) < minlen {
		return str + strings.Repeat(" ", minlen-len(str))
	}

	return str
}

//
// Range-checked float to integer conversions, truncating toward
// zero
//

func floatToInt32(f float64) int32 {

	runtimeCheck(f >= math.MinInt32 && f <= math.MaxInt32, ENUMBERRANGE)

	return int32(f)
}

func floatToInt64(f float64) int64 {

	// The upper bound must be exclusive: 2^63 is representable as a
	// float64 but not as an int64, and converting it would wrap

	runtimeCheck(f >= math.MinInt64 && f < 9223372036854775808.0,
		ENUMBERRANGE)

	return int64(f)
}

func checkInterrupts() {

	if g.interrupted {
		g.interrupted = false
		runtimeError(EESCAPE)
	}
}

func switchSetting(b bool) string {

	if b {
		return "ON"
	}

	return "OFF"
}

//
// TIME: CPU time consumed so far in centiseconds, read from
// /proc/self/stat in clock ticks and scaled by the tick rate
//

func getCentiTicks() int32 {

	clktck, err := sysconf.Sysconf(sysconf.SC_CLK_TCK)
	if err != nil || clktck <= 0 {
		clktck = 100
	}

	contents, err := os.ReadFile("/proc/self/stat")
	if err != nil {
		return 0
	}

	fields := strings.Fields(string(contents))
	if len(fields) < 15 {
		return 0
	}

	utime, _ := strconv.ParseInt(fields[13], 10, 64)
	stime, _ := strconv.ParseInt(fields[14], 10, 64)

	return int32((utime + stime) * 100 / clktck)
}
