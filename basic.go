package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"runtime/pprof"
	"strings"
	"syscall"

	"github.com/goforj/godump"
)

//
// Tricky: init is called under the hood by the GO runtime when
// we fire up, so there are no visible calls to it!  Nothing here
// may touch the terminal, or the tests could not run
//

func init() {

	initMaps()

	initErrors()
}

func main() {

	//
	// Close the Liner instance on the way out, to make sure we end
	// up back in normal (cooked) terminal mode
	//

	defer cleanupLiner()

	g.cfg = loadSettings()

	initLogger(g.cfg.Debug)

	checkTerminal()

	setupWindow()

	if g.interactive {
		setupLiner()
		printVersionInfo()
	}

	go sigHdlr()

	ctx := newEvalCtx(g.cfg)

	//
	// Loop forever, or until we quit
	//

	for !g.exiting {
		line, eof := readLine(g.cfg.Prompt)
		if eof {
			break
		}

		if strings.TrimSpace(line) == "" {
			continue
		}

		call(func() { processLine(ctx, line) })
	}
}

func newEvalCtx(cfg settings) *evalCtx {

	ctx := &evalCtx{
		mem:          newBasicMemory(cfg.MemorySize),
		maxRecursion: cfg.MaxRecursion,
		denorm:       cfg.Denorm,
	}

	ctx.arena.limit = cfg.TempMemory

	initSymbolTables(ctx)

	return ctx
}

func printVersionInfo() {

	fmt.Printf("BASIC5 %s expression evaluator\n", VERSION)
	fmt.Println("Type 'help' for shell commands")
}

//
// Run f with panic recovery, so a fault tossed from anywhere in
// the evaluator lands back at the prompt
//

func call(f func()) {

	defer func() {
		err := recover()
		if err != nil {
			decodePanic(err)
		}
	}()

	f()
}

//
// Three cases: a user-level fault (just report it), an internal
// error raised by a failed assertion (report with source position
// and stack), or an implicit panic out of the Go runtime
//

func decodePanic(e any) {

	switch e := e.(type) {
	default:
		fmt.Printf("%v\n", e)
		debug.PrintStack()

	case *faultInfo:
		fmt.Println(e.msg)

		if g.traceStack {
			debug.PrintStack()
		}

	case *internalErrorInfo:
		fmt.Printf("%s at %s line %d\n", e.msg,
			filepath.Base(e.file), e.line)
		debug.PrintStack()
	}
}

func crash(msg string) {

	cleanupLiner()

	if msg != "" {
		fmt.Fprintln(os.Stderr, msg)
	}

	os.Exit(1)
}

func sigHdlr() {

	ch := make(chan os.Signal, 1)

	signal.Ignore(syscall.SIGTSTP)

	signal.Notify(ch, syscall.SIGQUIT)
	signal.Notify(ch, syscall.SIGINT)
	signal.Notify(ch, syscall.SIGWINCH)

	for {
		sig := <-ch

		switch sig {
		default:
			crash(fmt.Sprintf("Unexpected signal %d", sig))

		case syscall.SIGWINCH:
			setupWindow()

		case syscall.SIGQUIT:
			writeGoroutineStacks() // does not return

		case syscall.SIGINT:
			g.interrupted = true
		}
	}
}

func writeGoroutineStacks() {

	name := "goroutines-stacks"
	mode := os.O_CREATE | os.O_WRONLY

	dumpFile, err := os.OpenFile(name, mode, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to open %s (%v)\n", name, err)
		return
	}

	_ = pprof.Lookup("goroutine").WriteTo(dumpFile, 2)

	crash(fmt.Sprintf("Dumping goroutine stacks to %v and exiting", name))
}

//
// One input line: a shell command, a DEF, a statement sequence, or
// an expression to evaluate and print
//

func processLine(ctx *evalCtx, line string) {

	if shellCommand(ctx, line) {
		return
	}

	ctx.image = lexLine(line)
	ctx.pos = 0

	if ctx.peek() == tokDef {
		ctx.parseDefinition()
		ctx.expect(tokEOL, ESYNTAX)
		return
	}

	if isStatementLine(ctx.image) {
		ctx.executeLine()
		return
	}

	item := ctx.evaluateExpression()
	ctx.expect(tokEOL, ESYNTAX)

	if g.traceDump {
		godump.Dump(item)
	}

	printResult(&item)
}

//
// Shell commands are only recognized when the line can not be
// anything else: 'vars' alone is a command, 'vars = 1' assigns
//

func shellCommand(ctx *evalCtx, line string) bool {

	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	switch strings.ToLower(fields[0]) {
	case "help":
		if len(fields) == 1 {
			printHelp()
			return true
		}

	case "bye", "quit":
		if len(fields) == 1 {
			g.exiting = true
			return true
		}

	case "vars":
		if len(fields) == 1 {
			listVariables(ctx)
			return true
		}

	case "config":
		if len(fields) == 1 {
			showSettings(g.cfg)
			return true
		}

	case "denorm":
		if len(fields) == 1 {
			ctx.denorm = !ctx.denorm
			fmt.Printf("Denormalized floats are %s\n",
				switchSetting(ctx.denorm))
			return true
		}

	case "trace":
		if len(fields) == 2 {
			traceCommand(strings.ToLower(fields[1]))
			return true
		}
	}

	return false
}

//
// A line starting with DIM, a PROC, an indirection sigil, or a
// variable followed (past any subscripts) by '=' executes as a
// statement.  Anything else evaluates as an expression, so 'a = 1'
// assigns; parenthesize to compare instead
//

func isStatementLine(image []byte) bool {

	switch image[0] {
	default:
		return false

	case tokDim, tokProcName, tokProcCached,
		tokQuery, tokPling, tokRbracket, tokBar, tokDollar:
		return true

	case tokName, tokNameCached:
		pos := skipToken(image, 0)

		if image[pos] == tokEq {
			return true
		}

		if image[pos] != tokLparen {
			return false
		}

		depth := 0

		for image[pos] != tokEOL {
			switch image[pos] {
			case tokLparen:
				depth++

			case tokRparen:
				depth--
				if depth == 0 {
					return image[skipToken(image, pos)] == tokEq
				}
			}

			pos = skipToken(image, pos)
		}

		return false
	}
}
