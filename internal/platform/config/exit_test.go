package config

import (
	"bytes"
	"testing"
)

func TestExitfWritesMessageAndExits(t *testing.T) {
	prevStderr, prevExit := stderr, exit
	t.Cleanup(func() { stderr, exit = prevStderr, prevExit })

	var buf bytes.Buffer
	var code int
	stderr, exit = &buf, func(c int) { code = c }

	Exitf("parse config: %s\n", "bad port")

	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if got := buf.String(); got != "parse config: bad port\n" {
		t.Fatalf("stderr = %q", got)
	}
}
