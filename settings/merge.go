package settings

import (
	"fmt"

	"github.com/npillmayer/tracescope"
	"gopkg.in/yaml.v3"
)

// Partial is a stored settings state. Nil leaves are absent and keep their
// default on Merge. Unknown keys of a stored state are ignored.
type Partial struct {
	Timeline *PartialTimeline `yaml:"timeline,omitempty"`
	Cache    *PartialCache    `yaml:"cache,omitempty"`
	Rects    *PartialRects    `yaml:"rects,omitempty"`
	Tracing  *PartialTracing  `yaml:"tracing,omitempty"`
}

// PartialTimeline is the stored state of Timeline.
type PartialTimeline struct {
	ZoomInFactor  *float64 `yaml:"zoomin,omitempty"`
	ZoomOutFactor *float64 `yaml:"zoomout,omitempty"`
	Domain        *string  `yaml:"domain,omitempty"`
	TracePriority []string `yaml:"priority,omitempty"`
}

// PartialCache is the stored state of Cache.
type PartialCache struct {
	Entries *int `yaml:"entries,omitempty"`
}

// PartialRects is the stored state of Rects.
type PartialRects struct {
	OnlyVisible *bool `yaml:"onlyvisible,omitempty"`
}

// PartialTracing is the stored state of Tracing.
type PartialTracing struct {
	Level *string `yaml:"level,omitempty"`
}

// Decode parses a stored YAML state. Empty data is an empty state.
func Decode(data []byte) (Partial, error) {
	var p Partial
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Partial{}, fmt.Errorf("%w: settings: %v", tracescope.ErrDecode, err)
	}
	return p, nil
}

// Merge overlays stored onto defaults. Leaves present in stored win; a stored
// array replaces the default array as a whole, elements are never merged.
// defaults is not modified.
func Merge(defaults Settings, stored Partial) Settings {
	s := defaults.Clone()
	if t := stored.Timeline; t != nil {
		setIf(&s.Timeline.ZoomInFactor, t.ZoomInFactor)
		setIf(&s.Timeline.ZoomOutFactor, t.ZoomOutFactor)
		setIf(&s.Timeline.Domain, t.Domain)
		if t.TracePriority != nil {
			s.Timeline.TracePriority = append([]string(nil), t.TracePriority...)
		}
	}
	if c := stored.Cache; c != nil {
		setIf(&s.Cache.Entries, c.Entries)
	}
	if r := stored.Rects; r != nil {
		setIf(&s.Rects.OnlyVisible, r.OnlyVisible)
	}
	if t := stored.Tracing; t != nil {
		setIf(&s.Tracing.Level, t.Level)
	}
	return s
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// Load decodes a stored state and merges it into defaults. The result is
// validated; on error defaults are returned.
func Load(defaults Settings, data []byte) (Settings, error) {
	stored, err := Decode(data)
	if err != nil {
		return defaults, err
	}
	s := Merge(defaults, stored)
	if err = s.Validate(); err != nil {
		return defaults, err
	}
	return s, nil
}
