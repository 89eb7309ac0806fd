package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/google/subcommands"
	"github.com/npillmayer/tracescope/hierarchy"
	"github.com/npillmayer/tracescope/parser"
	"github.com/npillmayer/tracescope/rects"
)

type rectsCmd struct {
	common
	entrySelector
	hierarchy bool
}

func (*rectsCmd) Name() string     { return "rects" }
func (*rectsCmd) Synopsis() string { return "Print the rects of a layers entry, front to back." }
func (*rectsCmd) Usage() string {
	return "tracedump rects [-index i | -at ns] [-hierarchy] files...\n"
}

func (cmd *rectsCmd) SetFlags(f *flag.FlagSet) {
	cmd.common.setFlags(f)
	cmd.entrySelector.setFlags(f)
	f.BoolVar(&cmd.hierarchy, "hierarchy", false, "print the layer hierarchy as well")
}

func (cmd *rectsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	s, err := cmd.settings()
	if err != nil {
		fmt.Println(err)
		return subcommands.ExitFailure
	}
	ts, err := cmd.load(s, f.Args())
	if err != nil {
		fmt.Println(err)
		return subcommands.ExitFailure
	}
	trace, err := selectTrace(ts, parser.SurfaceFlinger.String())
	if err != nil {
		fmt.Println(err)
		return subcommands.ExitFailure
	}
	i, err := cmd.resolve(trace, s)
	if err != nil {
		fmt.Println(err)
		return subcommands.ExitFailure
	}
	entry, err := trace.Entry(i)
	if err != nil {
		fmt.Println(err)
		return subcommands.ExitFailure
	}
	root, err := hierarchy.FromLayers(entry)
	if err != nil {
		fmt.Println(err)
		return subcommands.ExitFailure
	}
	w := cmd.writer()
	if cmd.hierarchy {
		fmt.Fprint(w, root.Dump())
	}
	printRects(w, hierarchy.MakeRects(root), s.Rects.OnlyVisible)
	return subcommands.ExitSuccess
}

func printRects(w io.Writer, rs []rects.Rect, onlyVisible bool) {
	for _, r := range rs {
		if onlyVisible && !r.IsVisible {
			continue
		}
		fmt.Fprintln(w, r)
	}
}
