package config

import (
	"fmt"
	"io"
	"os"
	"strings"
)

var (
	stderr io.Writer = os.Stderr
	exit             = os.Exit
)

// Exitf reports a startup failure on stderr and exits with status 1. Commands
// use it before a logger exists.
func Exitf(format string, args ...any) {
	msg := strings.TrimRight(fmt.Sprintf(format, args...), "\n")
	fmt.Fprintln(stderr, msg)
	exit(1)
}
