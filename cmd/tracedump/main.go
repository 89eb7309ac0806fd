/*
Command tracedump inspects capture files from the command line.

	tracedump tree     [-type t] [-index i | -at ns] files...           print the property tree of an entry
	tracedump timeline [-zoomin n] [-zoomout n] [-next t -steps n] files...  print ranges, zoom and step the cursor
	tracedump rects    [-index i | -at ns] [-hierarchy] files...         print the rects of a layers entry
	tracedump settings [key value | -priority i t]                      print or update persisted settings

Settings are kept in a YAML file below -settings. Flags -set key=value
override stored settings for a single run; rects.onlyvisible restricts rects
output to visible rects.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(&treeCmd{}, "")
	subcommands.Register(&timelineCmd{}, "")
	subcommands.Register(&rectsCmd{}, "")
	subcommands.Register(&settingsCmd{}, "")

	flag.Parse()
	ctx := context.Background()
	os.Exit(int(subcommands.Execute(ctx)))
}
