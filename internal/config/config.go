// Package config loads YAML title descriptions: the scheduler phases, the
// media table of contents and the actors to spawn with their authored
// property values.
package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/lantern/actor"
	"github.com/plus3/lantern/mediaref"
	"github.com/plus3/lantern/props"
	"github.com/plus3/lantern/scheduler"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid title config")

// Title describes a runnable title.
type Title struct {
	Name         string                `yaml:"name"`
	LogLevel     string                `yaml:"log_level"`
	TickInterval time.Duration         `yaml:"tick_interval"`
	Duration     time.Duration         `yaml:"duration"`
	Phases       []string              `yaml:"phases"`
	Media        []mediaref.TableEntry `yaml:"media"`
	Actors       []ActorConfig         `yaml:"actors"`
}

// ActorConfig describes one actor and its authored properties, keyed by
// property name.
type ActorConfig struct {
	Name            string                    `yaml:"name"`
	Kind            string                    `yaml:"kind"`
	RequireGeometry bool                      `yaml:"require_geometry"`
	Properties      map[string]PropertyConfig `yaml:"properties"`
}

// PropertyConfig is an authored property value. Type "raw" takes either
// floats (3 for position and scale, 4 for orientation in x, y, z, w order)
// or base64 data; type "mediaref" takes an index.
type PropertyConfig struct {
	Type   string    `yaml:"type"`
	Floats []float32 `yaml:"floats,omitempty"`
	Data   string    `yaml:"data,omitempty"`
	Index  *int      `yaml:"index,omitempty"`
}

// Load reads, defaults and validates a title file.
func Load(path string) (Title, error) {
	f, err := os.Open(path)
	if err != nil {
		return Title{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	defer f.Close()

	title, err := Decode(f)
	if err != nil {
		return Title{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	return title, nil
}

// Decode parses, defaults and validates a title document.
func Decode(r io.Reader) (Title, error) {
	var title Title
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&title); err != nil && err != io.EOF {
		return Title{}, fmt.Errorf("config parse failed: %w", err)
	}

	title.applyDefaults()
	if err := Validate(title); err != nil {
		return Title{}, err
	}
	return title, nil
}

func (t *Title) applyDefaults() {
	if t.Name == "" {
		t.Name = "title"
	}
	if t.LogLevel == "" {
		t.LogLevel = "info"
	}
	if t.TickInterval == 0 {
		t.TickInterval = 16 * time.Millisecond
	}
	if t.Duration == 0 {
		t.Duration = 5 * time.Second
	}
	if len(t.Phases) == 0 {
		t.Phases = append([]string(nil), scheduler.DefaultPhases...)
	}
	for i := range t.Actors {
		if t.Actors[i].Name == "" {
			t.Actors[i].Name = fmt.Sprintf("%s-%d", t.Actors[i].Kind, i)
		}
	}
}

// Validate checks that every phase, actor kind and property can be built.
func Validate(t Title) error {
	if t.TickInterval < 0 {
		return fmt.Errorf("%w: negative tick_interval", ErrInvalidConfig)
	}
	if t.Duration < 0 {
		return fmt.Errorf("%w: negative duration", ErrInvalidConfig)
	}

	seen := make(map[string]bool, len(t.Phases))
	hasActorPhase := false
	for _, phase := range t.Phases {
		if phase == "" {
			return fmt.Errorf("%w: empty phase name", ErrInvalidConfig)
		}
		if seen[phase] {
			return fmt.Errorf("%w: duplicate phase %q", ErrInvalidConfig, phase)
		}
		seen[phase] = true
		hasActorPhase = hasActorPhase || phase == scheduler.ActorPhase
	}
	if len(t.Actors) > 0 && !hasActorPhase {
		return fmt.Errorf("%w: actors need the %q phase", ErrInvalidConfig, scheduler.ActorPhase)
	}

	names := make(map[string]bool, len(t.Actors))
	for _, a := range t.Actors {
		if names[a.Name] {
			return fmt.Errorf("%w: duplicate actor %q", ErrInvalidConfig, a.Name)
		}
		names[a.Name] = true

		kind, err := actor.LookupKind(a.Kind)
		if err != nil {
			return fmt.Errorf("%w: actor %q: %w", ErrInvalidConfig, a.Name, err)
		}
		for propName, p := range a.Properties {
			name, err := props.ParseName(propName)
			if err != nil {
				return fmt.Errorf("%w: actor %q: %w", ErrInvalidConfig, a.Name, err)
			}
			if !kind.Has(name) {
				return fmt.Errorf("%w: actor %q: %s has no property %s", ErrInvalidConfig, a.Name, kind.Name, name)
			}
			if _, err := p.Stream(name); err != nil {
				return fmt.Errorf("%w: actor %q: %s: %w", ErrInvalidConfig, a.Name, name, err)
			}
		}
	}
	return nil
}

// Streams returns the actor's property streams in property declaration order.
func (a ActorConfig) Streams() ([]props.Name, []props.Stream, error) {
	var names []props.Name
	var streams []props.Stream
	for _, name := range props.Names {
		p, ok := a.Properties[name.String()]
		if !ok {
			continue
		}
		s, err := p.Stream(name)
		if err != nil {
			return nil, nil, fmt.Errorf("actor %q: %s: %w", a.Name, name, err)
		}
		names = append(names, name)
		streams = append(streams, s)
	}
	return names, streams, nil
}

// Stream encodes the authored value into the property wire format for name.
func (p PropertyConfig) Stream(name props.Name) (props.Stream, error) {
	switch p.Type {
	case "mediaref":
		if name.Transform() {
			return props.Stream{}, fmt.Errorf("%s cannot be a media reference", name)
		}
		if p.Index == nil {
			return props.Stream{}, errors.New("mediaref property needs an index")
		}
		if *p.Index < 0 {
			return props.Stream{}, fmt.Errorf("negative media index %d", *p.Index)
		}
		return props.NewStream(props.StreamMediaRefIndex, props.EncodeIndex(*p.Index)), nil
	case "raw", "":
		if p.Data != "" {
			data, err := base64.StdEncoding.DecodeString(p.Data)
			if err != nil {
				return props.Stream{}, err
			}
			if size := wireSize(name); size > 0 && len(data) != size {
				return props.Stream{}, fmt.Errorf("raw %s needs %d bytes, got %d", name, size, len(data))
			}
			return props.NewStream(props.StreamRaw, data), nil
		}
		f := p.Floats
		switch {
		case name == props.Orientation && len(f) == 4:
			q := mgl32.Quat{W: f[3], V: mgl32.Vec3{f[0], f[1], f[2]}}
			return props.NewStream(props.StreamRaw, props.EncodeQuat(q)), nil
		case (name == props.Position || name == props.Scale) && len(f) == 3:
			return props.NewStream(props.StreamRaw, props.EncodeVec3(mgl32.Vec3{f[0], f[1], f[2]})), nil
		default:
			return props.Stream{}, fmt.Errorf("raw %s cannot be built from %d floats", name, len(f))
		}
	default:
		return props.Stream{}, fmt.Errorf("unknown property type %q", p.Type)
	}
}

// wireSize is the encoded size of a transform property, or 0 for media.
func wireSize(name props.Name) int {
	switch name {
	case props.Position, props.Scale:
		return 12
	case props.Orientation:
		return 16
	default:
		return 0
	}
}
