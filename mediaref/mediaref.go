// Package mediaref provides handles to media assets bound to actor properties:
// model geometry and texture maps. A reference is either built in memory from
// raw bytes or resolved by index through a Loader.
package mediaref

import (
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

var (
	ErrNotFound    = errors.New("mediaref: not found")
	ErrInvalidKind = errors.New("mediaref: invalid kind")
)

// Kind identifies what a media reference points to.
type Kind int

const (
	KindModel Kind = iota + 1
	KindTextureMap
)

func (k Kind) String() string {
	switch k {
	case KindModel:
		return "model"
	case KindTextureMap:
		return "texture"
	default:
		return "unknown"
	}
}

// ParseKind maps a kind name back to its Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "model":
		return KindModel, nil
	case "texture", "texturemap":
		return KindTextureMap, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidKind, s)
	}
}

// MediaRef is a handle to one media asset.
type MediaRef struct {
	Kind Kind
	// Index is the table-of-contents index, or -1 for references built from raw bytes.
	Index int
	Name  string
	Data  []byte
	// Digest is the xxhash of Data, used by roles to share loaded assets.
	Digest uint64
}

// NewRaw builds a reference directly from data without going through a Loader.
// The bytes are copied; the caller may reuse data afterwards.
func NewRaw(kind Kind, data []byte) *MediaRef {
	return Register(kind, 0, len(data), data)
}

// Register builds a reference from data[offset:offset+length].
func Register(kind Kind, offset, length int, data []byte) *MediaRef {
	buf := make([]byte, length)
	copy(buf, data[offset:offset+length])
	return &MediaRef{
		Kind:   kind,
		Index:  -1,
		Data:   buf,
		Digest: xxhash.Sum64(buf),
	}
}

// Raw reports whether the reference was built from inline bytes.
func (m *MediaRef) Raw() bool {
	return m.Index < 0
}

func (m *MediaRef) String() string {
	if m.Raw() {
		return fmt.Sprintf("%s(raw %d bytes %016x)", m.Kind, len(m.Data), m.Digest)
	}
	return fmt.Sprintf("%s(#%d %s)", m.Kind, m.Index, m.Name)
}

// Loader resolves table-of-contents indices into media references.
type Loader interface {
	ResolveByIndex(index int) (*MediaRef, error)
}
