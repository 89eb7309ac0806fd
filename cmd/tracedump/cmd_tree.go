package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
	"github.com/npillmayer/tracescope/parser"
	"github.com/npillmayer/tracescope/traces"
)

type treeCmd struct {
	common
	entrySelector
	traceType string
}

func (*treeCmd) Name() string     { return "tree" }
func (*treeCmd) Synopsis() string { return "Print the property tree of a trace entry." }
func (*treeCmd) Usage() string {
	return "tracedump tree [-type t] [-index i | -at ns] files...\n"
}

func (cmd *treeCmd) SetFlags(f *flag.FlagSet) {
	cmd.common.setFlags(f)
	cmd.entrySelector.setFlags(f)
	f.StringVar(&cmd.traceType, "type", "", "trace type, defaults to the first loaded trace")
}

func (cmd *treeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	trace, err := selectTrace(ts, cmd.traceType)
	if err != nil {
		fmt.Println(err)
		return subcommands.ExitFailure
	}
	i, err := cmd.resolve(trace, s)
	if err != nil {
		fmt.Println(err)
		return subcommands.ExitFailure
	}
	root, err := trace.Entry(i)
	if err != nil {
		fmt.Println(err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(cmd.writer(), "%s entry #%d\n%s", trace.TraceType(), i, root.Dump())
	return subcommands.ExitSuccess
}

// selectTrace returns the trace of a named type, or the first one loaded.
func selectTrace(ts *traces.Traces, name string) (*traces.Trace, error) {
	if name == "" {
		var first *traces.Trace
		ts.ForEach(func(t *traces.Trace) bool {
			first = t
			return false
		})
		return first, nil
	}
	t, err := parser.ParseTraceType(name)
	if err != nil {
		return nil, err
	}
	trace, ok := ts.Get(t)
	if !ok {
		return nil, fmt.Errorf("no %s trace loaded", t)
	}
	return trace, nil
}
