package props

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/lantern/mediaref"
)

const (
	vec3Size = 3 * 4
	quatSize = 4 * 4
)

// Decode reads exactly one property value for name from s.
//
// A body shorter than the declared length fails with io.ErrUnexpectedEOF.
// Media references carried by index are resolved through loader; a nil loader
// resolves nothing.
func Decode(name Name, s Stream, loader mediaref.Loader) (Value, error) {
	switch name {
	case Position:
		v, err := decodeVec3(s)
		if err != nil {
			return nil, err
		}
		return Translation{V: v}, nil
	case Scale:
		v, err := decodeVec3(s)
		if err != nil {
			return nil, err
		}
		return NonuniformScale{V: v}, nil
	case Orientation:
		q, err := decodeQuat(s)
		if err != nil {
			return nil, err
		}
		return Rotation{Q: q}, nil
	case Model:
		ref, err := decodeMediaRef(s, mediaref.KindModel, loader)
		if err != nil {
			return nil, err
		}
		return ModelRef{Ref: ref}, nil
	case Texture:
		ref, err := decodeMediaRef(s, mediaref.KindTextureMap, loader)
		if err != nil {
			return nil, err
		}
		return TextureRef{Ref: ref}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProperty, name)
	}
}

func readBody(s Stream) ([]byte, error) {
	if s.Length < 0 {
		return nil, fmt.Errorf("%w: negative length %d", ErrMalformedPropertyData, s.Length)
	}
	if s.Body == nil {
		if s.Length == 0 {
			return nil, nil
		}
		return nil, io.ErrUnexpectedEOF
	}
	// The declared length is untrusted; the buffer only grows as bytes arrive
	data, err := io.ReadAll(io.LimitReader(s.Body, int64(s.Length)))
	if err != nil {
		return nil, err
	}
	if len(data) < s.Length {
		return nil, io.ErrUnexpectedEOF
	}
	return data, nil
}

func decodeVec3(s Stream) (mgl32.Vec3, error) {
	if s.Length != vec3Size {
		return mgl32.Vec3{}, fmt.Errorf("%w: vector needs %d bytes, got %d", ErrMalformedPropertyData, vec3Size, s.Length)
	}
	data, err := readBody(s)
	if err != nil {
		return mgl32.Vec3{}, err
	}
	return mgl32.Vec3{
		readFloat(data, 0),
		readFloat(data, 4),
		readFloat(data, 8),
	}, nil
}

func decodeQuat(s Stream) (mgl32.Quat, error) {
	if s.Length != quatSize {
		return mgl32.Quat{}, fmt.Errorf("%w: quaternion needs %d bytes, got %d", ErrMalformedPropertyData, quatSize, s.Length)
	}
	data, err := readBody(s)
	if err != nil {
		return mgl32.Quat{}, err
	}
	return mgl32.Quat{
		V: mgl32.Vec3{readFloat(data, 0), readFloat(data, 4), readFloat(data, 8)},
		W: readFloat(data, 12),
	}, nil
}

func decodeMediaRef(s Stream, kind mediaref.Kind, loader mediaref.Loader) (*mediaref.MediaRef, error) {
	data, err := readBody(s)
	if err != nil {
		return nil, err
	}

	switch s.Type {
	case StreamRaw:
		return mediaref.NewRaw(kind, data), nil
	case StreamMediaRefIndex:
		index, err := parseIndex(data)
		if err != nil {
			return nil, err
		}
		if loader == nil {
			return nil, fmt.Errorf("%w: index %d: no loader", ErrMediaRefNotFound, index)
		}
		ref, err := loader.ResolveByIndex(index)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMediaRefNotFound, err)
		}
		if ref.Kind != kind {
			return nil, fmt.Errorf("%w: index %d is a %s, want %s", ErrMalformedPropertyData, index, ref.Kind, kind)
		}
		return ref, nil
	default:
		return nil, fmt.Errorf("%w: stream type %d", ErrMalformedPropertyData, int(s.Type))
	}
}

func parseIndex(data []byte) (int, error) {
	text := strings.TrimSpace(string(data))
	index, err := strconv.Atoi(text)
	if err != nil || index < 0 {
		return 0, fmt.Errorf("%w: media index %q", ErrMalformedPropertyData, text)
	}
	return index, nil
}

func readFloat(data []byte, offset int) float32 {
	return math.Float32frombits(binary.BigEndian.Uint32(data[offset:]))
}
