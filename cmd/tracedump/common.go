package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/tracescope/settings"
	"github.com/npillmayer/tracescope/timestamp"
	"github.com/npillmayer/tracescope/traces"
	"go.uber.org/multierr"
)

// settingsKey names the settings file within the settings directory.
const settingsKey = "tracescope"

var traceScopes = []string{
	"tracescope.timestamp", "tracescope.schema", "tracescope.parser",
	"tracescope.tree", "tracescope.properties", "tracescope.operations",
	"tracescope.traces", "tracescope.timeline", "tracescope.rects",
	"tracescope.hierarchy", "tracescope.settings",
}

// overrides collects repeated -set key=value flags.
type overrides []string

func (o *overrides) String() string { return strings.Join(*o, ",") }

func (o *overrides) Set(kv string) error {
	if !strings.Contains(kv, "=") {
		return fmt.Errorf("expected key=value, got %q", kv)
	}
	*o = append(*o, kv)
	return nil
}

// common holds the flags shared by all commands working on capture files.
type common struct {
	dir  string
	sets overrides
	out  io.Writer
}

func defaultSettingsDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "tracescope")
	}
	return ".tracescope"
}

func (c *common) setFlags(f *flag.FlagSet) {
	f.StringVar(&c.dir, "settings", defaultSettingsDir(), "directory of the settings file")
	f.Var(&c.sets, "set", "override a setting for this run, as key=value (repeatable)")
}

func (c *common) writer() io.Writer {
	if c.out == nil {
		return os.Stdout
	}
	return c.out
}

// settings opens the stored settings and applies the -set overrides, which
// are not saved.
func (c *common) settings() (settings.Settings, error) {
	p, err := settings.Open(settings.DirStore{Dir: c.dir}, settingsKey, settings.Defaults())
	if err != nil {
		return settings.Defaults(), err
	}
	s := p.Settings()
	for _, kv := range c.sets {
		parts := strings.SplitN(kv, "=", 2)
		if err := s.Set(parts[0], parts[1]); err != nil {
			return s, err
		}
	}
	configureTracing(s.Tracing.Level)
	return s, nil
}

func traceLevel(name string) tracing.TraceLevel {
	switch strings.ToLower(name) {
	case "debug":
		return tracing.LevelDebug
	case "info":
		return tracing.LevelInfo
	}
	return tracing.LevelError
}

func configureTracing(level string) {
	l := traceLevel(level)
	for _, scope := range traceScopes {
		tracing.Select(scope).SetTraceLevel(l)
	}
}

// load reads and decodes capture files. Files failing to load are reported
// on stderr; load fails only if no trace could be loaded at all.
func (c *common) load(s settings.Settings, paths []string) (*traces.Traces, error) {
	files := make([]traces.File, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		files = append(files, traces.File{Name: filepath.Base(path), Data: data})
	}
	ts, err := traces.Loader{CacheSize: s.Cache.Entries}.Load(files)
	for _, e := range multierr.Errors(err) {
		fmt.Fprintln(os.Stderr, e)
	}
	if ts.Len() == 0 {
		return nil, fmt.Errorf("no trace could be loaded")
	}
	return ts, nil
}

// entrySelector selects an entry of a trace by index or by timestamp.
type entrySelector struct {
	index int
	at    string
}

func (sel *entrySelector) setFlags(f *flag.FlagSet) {
	f.IntVar(&sel.index, "index", 0, "entry index")
	f.StringVar(&sel.at, "at", "", "select the last entry at or before this timestamp (ns), overrides -index")
}

func (sel *entrySelector) resolve(trace *traces.Trace, s settings.Settings) (int, error) {
	if sel.at == "" {
		return sel.index, nil
	}
	d, ok := s.Domain()
	if !ok || !trace.SupportsDomain(d) {
		d = timestamp.Elapsed
		if trace.SupportsDomain(timestamp.Real) {
			d = timestamp.Real
		}
	}
	ts, err := timestamp.Parse(d, sel.at)
	if err != nil {
		return 0, err
	}
	return trace.IndexAt(ts)
}
