package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/google/subcommands"
	"github.com/npillmayer/tracescope/parser"
	"github.com/npillmayer/tracescope/timeline"
	"github.com/npillmayer/tracescope/timestamp"
)

type timelineCmd struct {
	common
	zoomIn  int
	zoomOut int
	next    string
	steps   int
}

func (*timelineCmd) Name() string     { return "timeline" }
func (*timelineCmd) Synopsis() string { return "Print the time ranges of traces and walk the timeline." }
func (*timelineCmd) Usage() string {
	return "tracedump timeline [-zoomin n] [-zoomout n] [-next t -steps n] files...\n"
}

func (cmd *timelineCmd) SetFlags(f *flag.FlagSet) {
	cmd.common.setFlags(f)
	f.IntVar(&cmd.zoomIn, "zoomin", 0, "zoom in on the cursor n times")
	f.IntVar(&cmd.zoomOut, "zoomout", 0, "zoom out from the cursor n times, after zooming in")
	f.StringVar(&cmd.next, "next", "", "step the cursor through entries of this trace type")
	f.IntVar(&cmd.steps, "steps", 1, "number of entries to step with -next, negative to step back")
}

func (cmd *timelineCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	sources := ts.Sources()
	domain, ok := s.Domain()
	if !ok {
		domain = timeline.PreferredDomain(sources)
	}
	engine := timeline.New(s.TimelineOptions()...)
	if err = engine.Initialize(sources, domain); err != nil {
		fmt.Println(err)
		return subcommands.ExitFailure
	}
	w := cmd.writer()
	printTimeline(w, engine)
	if err = cmd.walk(w, engine); err != nil {
		fmt.Println(err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (cmd *timelineCmd) walk(w io.Writer, engine *timeline.Engine) error {
	for i := 0; i < cmd.zoomIn; i++ {
		if err := engine.ZoomInOnCursor(); err != nil {
			return err
		}
		fmt.Fprintf(w, "zoom in   %s\n", engine.ZoomRange())
	}
	for i := 0; i < cmd.zoomOut; i++ {
		if err := engine.ZoomOutOnCursor(); err != nil {
			return err
		}
		fmt.Fprintf(w, "zoom out  %s\n", engine.ZoomRange())
	}
	if cmd.next == "" {
		return nil
	}
	t, err := parser.ParseTraceType(cmd.next)
	if err != nil {
		return err
	}
	step, n := engine.NextEntry, cmd.steps
	if n < 0 {
		step, n = engine.PreviousEntry, -n
	}
	for i := 0; i < n; i++ {
		p, err := step(t)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "cursor    %s\n", p)
	}
	return nil
}

func printTimeline(w io.Writer, engine *timeline.Engine) {
	full := engine.FullRange()
	fmt.Fprintf(w, "domain    %s\n", engine.Domain())
	fmt.Fprintf(w, "range     %s (%s)\n", full, timestamp.FromInt64(timestamp.Elapsed, 0).PlusNanos(full.Width()).Format())
	fmt.Fprintf(w, "traces    %v\n", engine.Traces())
	fmt.Fprintf(w, "cursor    %s\n", engine.CurrentPosition())
}
