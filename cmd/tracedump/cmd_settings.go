package main

import (
	"context"
	"flag"
	"fmt"
	"strconv"

	"github.com/google/subcommands"
	"github.com/npillmayer/tracescope/settings"
)

type settingsCmd struct {
	common
	priority bool
}

func (*settingsCmd) Name() string     { return "settings" }
func (*settingsCmd) Synopsis() string { return "Print or update the stored settings." }
func (*settingsCmd) Usage() string {
	return `tracedump settings                  print the settings
tracedump settings key value        update a leaf, e.g. timeline.zoomin 0.5
tracedump settings -priority i t    put trace type t at position i of timeline.priority
`
}

func (cmd *settingsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&cmd.dir, "settings", defaultSettingsDir(), "directory of the settings file")
	f.BoolVar(&cmd.priority, "priority", false, "update an element of the trace priority")
}

func (cmd *settingsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	p, err := settings.Open(settings.DirStore{Dir: cmd.dir}, settingsKey, settings.Defaults())
	if err != nil {
		fmt.Println(err)
		return subcommands.ExitFailure
	}
	switch {
	case f.NArg() == 0:
	case f.NArg() == 2 && cmd.priority:
		i, err := strconv.Atoi(f.Arg(0))
		if err == nil {
			err = p.SetPriorityAt(i, f.Arg(1))
		}
		if err != nil {
			fmt.Println(err)
			return subcommands.ExitFailure
		}
	case f.NArg() == 2:
		if err = p.Set(f.Arg(0), f.Arg(1)); err != nil {
			fmt.Println(err)
			return subcommands.ExitFailure
		}
	default:
		f.Usage()
		return subcommands.ExitUsageError
	}
	data, err := p.Settings().Encode()
	if err != nil {
		fmt.Println(err)
		return subcommands.ExitFailure
	}
	fmt.Fprint(cmd.writer(), string(data))
	return subcommands.ExitSuccess
}
