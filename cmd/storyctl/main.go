// Package main runs storyctl maintenance commands.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	storyctlcmd "github.com/louisbranch/talevortex/internal/cmd/storyctl"
	"github.com/louisbranch/talevortex/internal/platform/config"
)

func main() {
	cfg, err := storyctlcmd.ParseConfig()
	if err != nil {
		config.Exitf("parse config: %v", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := storyctlcmd.Run(ctx, cfg, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
