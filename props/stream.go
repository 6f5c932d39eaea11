package props

import (
	"bytes"
	"io"
)

// StreamType tags how a property stream's bytes are interpreted.
type StreamType int

const (
	// StreamRaw carries the value bytes directly.
	StreamRaw StreamType = iota
	// StreamMediaRefIndex carries the ASCII decimal index of a media reference.
	StreamMediaRefIndex
)

func (t StreamType) String() string {
	switch t {
	case StreamRaw:
		return "raw"
	case StreamMediaRefIndex:
		return "mediaref"
	default:
		return "unknown"
	}
}

// Stream is a typed, length-prefixed property blob.
type Stream struct {
	Type   StreamType
	Length int
	Body   io.Reader
}

// NewStream wraps data in a stream whose declared length is len(data).
func NewStream(typ StreamType, data []byte) Stream {
	return Stream{
		Type:   typ,
		Length: len(data),
		Body:   bytes.NewReader(data),
	}
}
