package settings

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/npillmayer/schuko"
	"github.com/npillmayer/tracescope"
	"github.com/npillmayer/tracescope/parser"
	"github.com/npillmayer/tracescope/timeline"
	"github.com/npillmayer/tracescope/timestamp"
	"gopkg.in/yaml.v3"
)

// ErrNotLeaf is returned for updates of keys which do not denote a leaf.
var ErrNotLeaf = errors.New("can only update leaf keys")

// ErrInvalid is returned for values out of their valid range.
var ErrInvalid = errors.New("invalid setting")

// Settings is the complete configuration.
type Settings struct {
	Timeline Timeline `yaml:"timeline"`
	Cache    Cache    `yaml:"cache"`
	Rects    Rects    `yaml:"rects"`
	Tracing  Tracing  `yaml:"tracing"`
}

// Timeline configures the timeline engine.
type Timeline struct {
	ZoomInFactor  float64  `yaml:"zoomin"`
	ZoomOutFactor float64  `yaml:"zoomout"`
	Domain        string   `yaml:"domain"`   // "real", "elapsed" or empty for the preferred domain
	TracePriority []string `yaml:"priority"` // trace type names
}

// Cache configures entry tree caching.
type Cache struct {
	Entries int `yaml:"entries"`
}

// Rects configures rect extraction.
type Rects struct {
	OnlyVisible bool `yaml:"onlyvisible"`
}

// Tracing configures diagnostic output.
type Tracing struct {
	Level string `yaml:"level"`
}

// Leaf keys of Settings.
const (
	KeyZoomIn      = "timeline.zoomin"
	KeyZoomOut     = "timeline.zoomout"
	KeyDomain      = "timeline.domain"
	KeyPriority    = "timeline.priority"
	KeyCache       = "cache.entries"
	KeyOnlyVisible = "rects.onlyvisible"
	KeyTraceLevel  = "tracing.level"
)

// Defaults returns the default settings.
func Defaults() Settings {
	prio := make([]string, len(parser.AllTraceTypes))
	for i, t := range parser.AllTraceTypes {
		prio[i] = t.String()
	}
	return Settings{
		Timeline: Timeline{ZoomInFactor: 6.0 / 7.0, ZoomOutFactor: 8.0 / 7.0, TracePriority: prio},
		Cache:    Cache{Entries: 64},
		Tracing:  Tracing{Level: "Error"},
	}
}

// Clone returns a deep copy of s.
func (s Settings) Clone() Settings {
	c := s
	c.Timeline.TracePriority = append([]string(nil), s.Timeline.TracePriority...)
	return c
}

// Validate checks all values for their valid range.
func (s Settings) Validate() error {
	t := s.Timeline
	switch {
	case !(t.ZoomInFactor > 0 && t.ZoomInFactor < 1):
		return fmt.Errorf("%w: %s must be in (0,1), is %g", ErrInvalid, KeyZoomIn, t.ZoomInFactor)
	case !(t.ZoomOutFactor > 1):
		return fmt.Errorf("%w: %s must be above 1, is %g", ErrInvalid, KeyZoomOut, t.ZoomOutFactor)
	case s.Cache.Entries <= 0:
		return fmt.Errorf("%w: %s must be positive, is %d", ErrInvalid, KeyCache, s.Cache.Entries)
	}
	if t.Domain != "" {
		if _, err := timestamp.ParseDomain(t.Domain); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalid, KeyDomain, err)
		}
	}
	for _, name := range t.TracePriority {
		if _, err := parser.ParseTraceType(name); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalid, KeyPriority, err)
		}
	}
	switch strings.ToLower(s.Tracing.Level) {
	case "error", "info", "debug":
	default:
		return fmt.Errorf("%w: %s must be one of Error, Info, Debug, is %q", ErrInvalid, KeyTraceLevel, s.Tracing.Level)
	}
	return nil
}

// Set updates the leaf at a dotted key, parsing value. Keys of interior nodes
// and arrays are rejected with ErrNotLeaf, invalid values with ErrInvalid.
// A failed update leaves s unchanged.
func (s *Settings) Set(key, value string) error {
	next := s.Clone()
	var err error
	switch key {
	case KeyZoomIn:
		next.Timeline.ZoomInFactor, err = strconv.ParseFloat(value, 64)
	case KeyZoomOut:
		next.Timeline.ZoomOutFactor, err = strconv.ParseFloat(value, 64)
	case KeyDomain:
		next.Timeline.Domain = value
	case KeyCache:
		next.Cache.Entries, err = strconv.Atoi(value)
	case KeyOnlyVisible:
		next.Rects.OnlyVisible, err = strconv.ParseBool(value)
	case KeyTraceLevel:
		next.Tracing.Level = value
	case KeyPriority, "timeline", "cache", "rects", "tracing", "":
		return fmt.Errorf("%w: %q", ErrNotLeaf, key)
	default:
		return fmt.Errorf("%w: unknown key %q", ErrNotLeaf, key)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalid, key, err)
	}
	if err = next.Validate(); err != nil {
		return err
	}
	*s = next
	tracer().P("key", key).Debugf("set to %q", value)
	return nil
}

// SetPriorityAt replaces element i of the trace priority list.
func (s *Settings) SetPriorityAt(i int, name string) error {
	prio := s.Timeline.TracePriority
	if i < 0 || i >= len(prio) {
		return fmt.Errorf("%w: %s[%d], length is %d", tracescope.ErrIndex, KeyPriority, i, len(prio))
	}
	if _, err := parser.ParseTraceType(name); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalid, KeyPriority, err)
	}
	next := s.Clone()
	next.Timeline.TracePriority[i] = name
	*s = next
	return nil
}

// FromConfiguration overlays the keys set in conf onto defaults.
// Priorities are given as a comma separated list of trace type names.
func FromConfiguration(conf schuko.Configuration, defaults Settings) (Settings, error) {
	s := defaults.Clone()
	for _, key := range []string{KeyZoomIn, KeyZoomOut, KeyDomain, KeyCache, KeyOnlyVisible, KeyTraceLevel} {
		if !conf.IsSet(key) {
			continue
		}
		if err := s.Set(key, conf.GetString(key)); err != nil {
			return defaults, err
		}
	}
	if conf.IsSet(KeyPriority) {
		var prio []string
		for _, name := range strings.Split(conf.GetString(KeyPriority), ",") {
			if name = strings.TrimSpace(name); name != "" {
				prio = append(prio, name)
			}
		}
		s.Timeline.TracePriority = prio
		if err := s.Validate(); err != nil {
			return defaults, err
		}
	}
	return s, nil
}

// TimelineOptions returns the options for a timeline engine.
func (s Settings) TimelineOptions() []timeline.Option {
	var prio []parser.TraceType
	for _, name := range s.Timeline.TracePriority {
		if t, err := parser.ParseTraceType(name); err == nil {
			prio = append(prio, t)
		}
	}
	return []timeline.Option{
		timeline.WithPriority(prio...),
		timeline.WithZoomFactors(s.Timeline.ZoomInFactor, s.Timeline.ZoomOutFactor),
	}
}

// Domain returns the configured time domain, if any.
func (s Settings) Domain() (timestamp.Domain, bool) {
	if s.Timeline.Domain == "" {
		return timestamp.Elapsed, false
	}
	d, err := timestamp.ParseDomain(s.Timeline.Domain)
	return d, err == nil
}

// Encode serializes s as YAML.
func (s Settings) Encode() ([]byte, error) {
	return yaml.Marshal(s)
}
