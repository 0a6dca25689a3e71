// Copyright (C) 2025 Storj Labs, Inc.
// See LICENSE for copying information.

package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/zeebo/clingy"

	"storj.io/cooldown/pkg/cooldown"
)

func main() {
	ok, err := clingy.Environment{}.Run(context.Background(), func(cmds clingy.Commands) {
		cmds.New("print", "print the falloff factor to required interval table", new(cmdPrint))
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%+v\n", err)
	}
	if !ok || err != nil {
		os.Exit(1)
	}
}

type cmdPrint struct {
	config cooldown.Config
}

func (cmd *cmdPrint) Setup(params clingy.Parameters) {
	def := cooldown.DefaultConfig()
	cmd.config.MinActionInterval = params.Flag("min-interval", "base interval in seconds", def.MinActionInterval,
		clingy.Transform(strconv.Atoi)).(int)
	cmd.config.MaxFalloffFactor = params.Flag("max-falloff", "upper bound on the falloff exponent", def.MaxFalloffFactor,
		clingy.Transform(parseFloat)).(float64)
	cmd.config.FalloffStep = params.Flag("falloff-step", "falloff exponent step per allowed run", def.FalloffStep,
		clingy.Transform(parseFloat)).(float64)
}

func (cmd *cmdPrint) Execute(ctx context.Context) error {
	manager := cooldown.New(nil, cmd.config)

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "FALLOFF\tINTERVAL")
	for _, fi := range manager.Intervals() {
		fmt.Fprintf(w, "%.2f\t%s\n", fi.Factor, fi.Interval)
	}
	return w.Flush()
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}
