package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/temirov/vaihde/cmd/cli"
)

const (
	exitErrorTemplateConstant  = "Error: %v\n"
	interruptedMessageConstant = "Interrupted\n"
)

// main executes the vaihde command-line application.
func main() {
	executionContext, stopNotifications := signal.NotifyContext(context.Background(), os.Interrupt)
	executionError := cli.Execute(executionContext)
	exitCode := cli.ProcessExitCode(executionContext, executionError)
	stopNotifications()

	switch exitCode {
	case cli.ExitCodeSuccess:
		return
	case cli.ExitCodeInterrupted:
		fmt.Fprint(os.Stderr, interruptedMessageConstant)
	default:
		fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)
	}
	os.Exit(exitCode)
}
