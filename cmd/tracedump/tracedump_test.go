package main

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/subcommands"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/tracescope/parser"
	"github.com/npillmayer/tracescope/schema"
	"github.com/npillmayer/tracescope/tracetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type command interface {
	subcommands.Command
	setOutput(*bytes.Buffer)
}

func (c *common) setOutput(b *bytes.Buffer) { c.out = b }

func run(t *testing.T, cmd command, args ...string) (subcommands.ExitStatus, string) {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	cmd.SetFlags(fs)
	require.NoError(t, fs.Parse(args))
	var out bytes.Buffer
	cmd.setOutput(&out)
	status := cmd.Execute(context.Background(), fs)
	return status, out.String()
}

func writeLayersTrace(t *testing.T) (dir, path string) {
	dir = t.TempDir()
	buf := tracetest.File(parser.SurfaceFlingerFormat, 0,
		tracetest.LayersEntry(100,
			[]schema.Object{tracetest.Display(1, "Built-in", 0, 1080, 2400, 420)},
			tracetest.WithBounds(tracetest.Layer(1, -1, 0, "root"), 0, 0, 1080, 2400),
			tracetest.WithBounds(tracetest.Layer(2, 1, 1, "status"), 0, 0, 1080, 80),
		),
		tracetest.LayersEntry(200,
			[]schema.Object{tracetest.Display(1, "Built-in", 0, 1080, 2400, 420)},
			tracetest.WithBounds(tracetest.Layer(1, -1, 0, "root"), 0, 0, 1080, 2400),
		),
	)
	path = filepath.Join(dir, "layers_trace.winscope")
	require.NoError(t, os.WriteFile(path, buf, 0o644))
	return dir, path
}

func TestTreeCommand(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tracescope.traces")
	defer teardown()
	//
	dir, path := writeLayersTrace(t)
	status, out := run(t, &treeCmd{}, "-settings", dir, "-index", "1", path)
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.True(t, strings.HasPrefix(out, "surfaceflinger entry #1"), out)
	assert.Contains(t, out, "activeDisplayCount")
	//
	status, _ = run(t, &treeCmd{}, "-settings", dir, "-type", "windowmanager", path)
	assert.Equal(t, subcommands.ExitFailure, status)
	status, _ = run(t, &treeCmd{}, "-settings", dir)
	assert.Equal(t, subcommands.ExitUsageError, status)
}

func TestRectsCommand(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tracescope.hierarchy")
	defer teardown()
	//
	dir, path := writeLayersTrace(t)
	status, out := run(t, &rectsCmd{}, "-settings", dir, "-at", "150", path)
	require.Equal(t, subcommands.ExitSuccess, status)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3, out)
	assert.True(t, strings.HasPrefix(lines[0], `"2 status"`), "status bar is in front: %s", out)
	assert.True(t, strings.HasPrefix(lines[1], `"1 root"`), out)
}

func TestTimelineCommand(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tracescope.timeline")
	defer teardown()
	//
	dir, path := writeLayersTrace(t)
	status, out := run(t, &timelineCmd{}, "-settings", dir, "-next", "surfaceflinger", "-zoomin", "1", path)
	require.Equal(t, subcommands.ExitSuccess, status, out)
	assert.Contains(t, out, "domain    elapsed")
	assert.Contains(t, out, "range     [elapsed:100ns, elapsed:200ns]")
	assert.Contains(t, out, "(surfaceflinger #1)")
	//
	status, _ = run(t, &timelineCmd{}, "-settings", dir, "-set", "timeline.zoomin=2", path)
	assert.Equal(t, subcommands.ExitFailure, status)
}

func TestSettingsCommand(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tracescope.settings")
	defer teardown()
	//
	dir := t.TempDir()
	status, out := run(t, &settingsCmd{}, "-settings", dir, "timeline.zoomin", "0.5")
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, out, "zoomin: 0.5")
	status, out = run(t, &settingsCmd{}, "-settings", dir, "-priority", "0", "accessibility")
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, out, "zoomin: 0.5", "earlier updates are persisted")
	assert.Contains(t, out, "- accessibility")
	status, _ = run(t, &settingsCmd{}, "-settings", dir, "timeline", "x")
	assert.Equal(t, subcommands.ExitFailure, status)
}
