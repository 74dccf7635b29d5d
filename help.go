package main

import (
	"fmt"
)

func printHelp() {

	fmt.Println("bye            Exit from BASIC5")
	fmt.Println("config         Print current settings")
	fmt.Println("denorm         Toggle denormalized floating point mode")
	fmt.Println("help           Print this text")
	fmt.Println("trace <what>   Toggle a trace switch: exec, vars,")
	fmt.Println("               stack, dump or off")
	fmt.Println("vars           List all variables and arrays")
	fmt.Println()
	fmt.Println("Anything else is BASIC: an expression to evaluate and")
	fmt.Println("print, an assignment, DIM, DEF FN/PROC, or a PROC call.")
	fmt.Println("Statements may be chained with ':'")
}
