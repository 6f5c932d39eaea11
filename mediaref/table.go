package mediaref

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"github.com/kamstrup/intmap"
	"gopkg.in/yaml.v3"
)

// TableEntry describes one media asset in a table of contents.
// Exactly one of Path or Data must be set; Data is base64 encoded.
type TableEntry struct {
	Index int    `yaml:"index"`
	Name  string `yaml:"name"`
	Kind  string `yaml:"kind"`
	Path  string `yaml:"path,omitempty"`
	Data  string `yaml:"data,omitempty"`
}

type tableDocument struct {
	Media []TableEntry `yaml:"media"`
}

// Table is an in-memory table of contents implementing Loader.
// Files named by entries are read on first resolution and cached.
type Table struct {
	baseDir string
	entries *intmap.Map[int, TableEntry]
	cache   *intmap.Map[int, *MediaRef]
}

// NewTable builds a table from entries. Relative paths resolve against baseDir.
func NewTable(baseDir string, entries ...TableEntry) (*Table, error) {
	t := &Table{
		baseDir: baseDir,
		entries: intmap.New[int, TableEntry](len(entries)),
		cache:   intmap.New[int, *MediaRef](len(entries)),
	}
	for _, entry := range entries {
		if err := t.Add(entry); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// LoadTable decodes a YAML document with a top-level `media` list.
func LoadTable(r io.Reader, baseDir string) (*Table, error) {
	var doc tableDocument
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("mediaref: decode table: %w", err)
	}
	return NewTable(baseDir, doc.Media...)
}

// Add registers an entry. Duplicate indices are rejected.
func (t *Table) Add(entry TableEntry) error {
	if entry.Index < 0 {
		return fmt.Errorf("mediaref: entry %q: negative index %d", entry.Name, entry.Index)
	}
	if _, err := ParseKind(entry.Kind); err != nil {
		return fmt.Errorf("mediaref: entry %d: %w", entry.Index, err)
	}
	if (entry.Path == "") == (entry.Data == "") {
		return fmt.Errorf("mediaref: entry %d: exactly one of path or data is required", entry.Index)
	}
	if t.entries.Has(entry.Index) {
		return fmt.Errorf("mediaref: duplicate index %d", entry.Index)
	}
	t.entries.Put(entry.Index, entry)
	return nil
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return t.entries.Len()
}

// ResolveByIndex implements Loader.
func (t *Table) ResolveByIndex(index int) (*MediaRef, error) {
	if ref, ok := t.cache.Get(index); ok {
		return ref, nil
	}

	entry, ok := t.entries.Get(index)
	if !ok {
		return nil, fmt.Errorf("%w: index %d", ErrNotFound, index)
	}

	data, err := t.read(entry)
	if err != nil {
		return nil, err
	}

	// Add validated the kind
	kind, _ := ParseKind(entry.Kind)
	ref := &MediaRef{
		Kind:   kind,
		Index:  entry.Index,
		Name:   entry.Name,
		Data:   data,
		Digest: xxhash.Sum64(data),
	}
	t.cache.Put(index, ref)
	return ref, nil
}

func (t *Table) read(entry TableEntry) ([]byte, error) {
	if entry.Data != "" {
		data, err := base64.StdEncoding.DecodeString(entry.Data)
		if err != nil {
			return nil, fmt.Errorf("mediaref: entry %d: %w", entry.Index, err)
		}
		return data, nil
	}

	path := entry.Path
	if !filepath.IsAbs(path) {
		path = filepath.Join(t.baseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: index %d: %v", ErrNotFound, entry.Index, err)
		}
		return nil, fmt.Errorf("mediaref: entry %d: %w", entry.Index, err)
	}
	return data, nil
}
