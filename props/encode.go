package props

import (
	"encoding/binary"
	"math"
	"strconv"

	"github.com/go-gl/mathgl/mgl32"
)

// EncodeVec3 returns the 12-byte wire form of v.
func EncodeVec3(v mgl32.Vec3) []byte {
	data := make([]byte, vec3Size)
	for i := 0; i < 3; i++ {
		binary.BigEndian.PutUint32(data[i*4:], math.Float32bits(v[i]))
	}
	return data
}

// EncodeQuat returns the 16-byte wire form of q in x, y, z, w order.
func EncodeQuat(q mgl32.Quat) []byte {
	data := make([]byte, quatSize)
	binary.BigEndian.PutUint32(data[0:], math.Float32bits(q.V[0]))
	binary.BigEndian.PutUint32(data[4:], math.Float32bits(q.V[1]))
	binary.BigEndian.PutUint32(data[8:], math.Float32bits(q.V[2]))
	binary.BigEndian.PutUint32(data[12:], math.Float32bits(q.W))
	return data
}

// EncodeIndex returns the ASCII decimal form of a media index.
func EncodeIndex(index int) []byte {
	return []byte(strconv.Itoa(index))
}
