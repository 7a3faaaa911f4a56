package ckd

import (
	"bytes"
	"encoding/binary"
)

var riffTag = []byte("RIFF")

// IsRIFF reports whether b starts with a RIFF tag.
func IsRIFF(b []byte) bool {
	return bytes.HasPrefix(b, riffTag)
}

// ExtractPayload returns the encoded audio held by an encoder's output.
// RIFF files yield the contents of their first "data" chunk; anything else
// is assumed to be a raw bitstream and is returned as is.
func ExtractPayload(encoded []byte) ([]byte, error) {
	if !IsRIFF(encoded) {
		return encoded, nil
	}

	offset := bytes.Index(encoded, dataTag)
	if offset == -1 {
		return nil, formatErrorf(-1, "'data' chunk not found in RIFF file")
	}
	start := offset + 8
	if start > len(encoded) {
		return nil, formatErrorf(offset, "'data' chunk size field is truncated")
	}

	size := binary.LittleEndian.Uint32(encoded[offset+4 : start])
	if uint64(start)+uint64(size) > uint64(len(encoded)) {
		return nil, formatErrorf(offset, "'data' size %d goes past end of file (%d bytes)", size, len(encoded))
	}

	return encoded[start : start+int(size)], nil
}
