package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

//
// Execution tracing rides on the structured logger at debug level;
// the 'trace' shell command flips the pieces on and off.  Without
// debug mode only warnings and errors get through
//

func initLogger(debug bool) {

	log.SetDefault(log.NewWithOptions(os.Stderr,
		log.Options{
			ReportCaller:    false,
			ReportTimestamp: false,
			TimeFormat:      time.RFC3339,
			Prefix:          "BASIC5",
		}))

	if debug {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.WarnLevel)
	}
}

//
// trace exec|vars|stack|dump|off
//

func traceCommand(arg string) {

	switch arg {
	default:
		fmt.Println("Usage: trace exec|vars|stack|dump|off")

	case "exec":
		g.traceExec = true
		log.SetLevel(log.DebugLevel)

	case "vars":
		g.traceVars = true

	case "stack":
		g.traceStack = true

	case "dump":
		g.traceDump = true

	case "off":
		g.traceExec = false
		g.traceVars = false
		g.traceStack = false
		g.traceDump = false

		if !g.cfg.Debug {
			log.SetLevel(log.WarnLevel)
		}
	}
}
