package main

import (
	"os"
	"strings"

	"github.com/buildforge/compiler/cmd/forge/root"
)

// exitCoder lets a subcommand's error carry a specific process exit code
// instead of the default 1, if one ever needs to.
type exitCoder interface {
	ExitCode() int
}

func main() {
	if err := root.Execute(os.Args[1:]); err != nil {
		msg := strings.Join(strings.Fields(err.Error()), " ")
		if msg == "" {
			msg = "error"
		}
		_, _ = os.Stderr.WriteString(msg + "\n")
		code := 1
		if ec, ok := err.(exitCoder); ok {
			if c := ec.ExitCode(); c != 0 {
				code = c
			}
		}
		os.Exit(code)
	}
}
