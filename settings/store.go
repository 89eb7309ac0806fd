package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// Store persists settings states by key.
type Store interface {
	Load(key string) ([]byte, error) // nil data if nothing is stored
	Save(key string, data []byte) error
}

// MemoryStore keeps states in memory.
type MemoryStore struct {
	mx     sync.Mutex
	states map[string][]byte
}

// Load is part of interface Store.
func (m *MemoryStore) Load(key string) ([]byte, error) {
	m.mx.Lock()
	defer m.mx.Unlock()
	return append([]byte(nil), m.states[key]...), nil
}

// Save is part of interface Store.
func (m *MemoryStore) Save(key string, data []byte) error {
	m.mx.Lock()
	defer m.mx.Unlock()
	if m.states == nil {
		m.states = make(map[string][]byte)
	}
	m.states[key] = append([]byte(nil), data...)
	return nil
}

// DirStore keeps every state in a YAML file "<key>.yaml" of a directory.
type DirStore struct {
	Dir string
}

func (d DirStore) path(key string) string {
	return filepath.Join(d.Dir, key+".yaml")
}

// Load is part of interface Store.
func (d DirStore) Load(key string) ([]byte, error) {
	data, err := os.ReadFile(d.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return data, err
}

// Save is part of interface Store.
func (d DirStore) Save(key string, data []byte) error {
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(d.path(key), data, 0o644)
}

// Persistent is a settings state saved to a store after every update.
type Persistent struct {
	store   Store
	key     string
	current Settings
}

// Open loads the state stored under key and merges it into defaults.
func Open(store Store, key string, defaults Settings) (*Persistent, error) {
	data, err := store.Load(key)
	if err != nil {
		return nil, fmt.Errorf("loading settings %q: %w", key, err)
	}
	s, err := Load(defaults, data)
	if err != nil {
		return nil, err
	}
	return &Persistent{store: store, key: key, current: s}, nil
}

// Settings returns a copy of the current settings.
func (p *Persistent) Settings() Settings {
	return p.current.Clone()
}

// Set updates a leaf and saves the state.
func (p *Persistent) Set(key, value string) error {
	next := p.current.Clone()
	if err := next.Set(key, value); err != nil {
		return err
	}
	return p.save(next)
}

// SetPriorityAt updates element i of the trace priority and saves the state.
func (p *Persistent) SetPriorityAt(i int, name string) error {
	next := p.current.Clone()
	if err := next.SetPriorityAt(i, name); err != nil {
		return err
	}
	return p.save(next)
}

func (p *Persistent) save(next Settings) error {
	data, err := next.Encode()
	if err != nil {
		return err
	}
	if err = p.store.Save(p.key, data); err != nil {
		return fmt.Errorf("saving settings %q: %w", p.key, err)
	}
	p.current = next
	tracer().P("key", p.key).Debugf("settings saved")
	return nil
}
