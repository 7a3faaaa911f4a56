package ckd

import (
	"bytes"
	"encoding/binary"
	"math"
)

const (
	// HeaderSizeOffset is where the big-endian header length lives.
	HeaderSizeOffset = 0x14

	// dataFieldsSize covers the tag, the chunk header size and the audio size.
	dataFieldsSize = 12
)

var dataTag = []byte("data")

// Header describes the parts of a container header that recooking cares about.
type Header struct {
	// Size is the length of the header region.
	Size uint32
	// DataOffset is the offset of the "data" tag inside the header.
	DataOffset int
	// ChunkHeaderSize is the header length as recorded after the "data" tag.
	ChunkHeaderSize uint32
	// AudioSize is the payload length recorded in the header.
	AudioSize uint32
}

// SizeMismatch reports whether the two recorded header lengths disagree.
// Some containers ship like this, so it is not treated as an error.
func (h Header) SizeMismatch() bool {
	return h.ChunkHeaderSize != h.Size
}

func (h Header) audioSizeOffset() int {
	return h.DataOffset + 8
}

// ReadHeader locates the header region and its "data" chunk in a container.
func ReadHeader(container []byte) (Header, error) {
	if len(container) < HeaderSizeOffset+4 {
		return Header{}, formatErrorf(-1, "file is %d bytes, too short to hold a header size", len(container))
	}

	size := binary.BigEndian.Uint32(container[HeaderSizeOffset : HeaderSizeOffset+4])
	if uint64(size) > uint64(len(container)) {
		return Header{}, formatErrorf(HeaderSizeOffset, "header size %d exceeds file length %d", size, len(container))
	}
	header := container[:size]

	offset := bytes.Index(header, dataTag)
	if offset == -1 {
		return Header{}, formatErrorf(-1, "'data' tag not found in %d byte header", size)
	}
	if offset+dataFieldsSize > len(header) {
		return Header{}, formatErrorf(offset, "'data' tag too close to end of %d byte header", size)
	}

	return Header{
		Size:            size,
		DataOffset:      offset,
		ChunkHeaderSize: binary.BigEndian.Uint32(header[offset+4 : offset+8]),
		AudioSize:       binary.BigEndian.Uint32(header[offset+8 : offset+12]),
	}, nil
}

// Patch is the result of recooking a template with a new payload.
type Patch struct {
	// Header is the template header as read, before patching.
	Header       Header
	NewAudioSize uint32
	Container    []byte
}

// PatchHeader builds a new container from the header of template followed by
// payload, with the recorded audio size set to len(payload).
// The template is not modified.
func PatchHeader(template, payload []byte) (*Patch, error) {
	h, err := ReadHeader(template)
	if err != nil {
		return nil, err
	}
	if uint64(len(payload)) > math.MaxUint32 {
		return nil, formatErrorf(-1, "payload of %d bytes does not fit a 32-bit size field", len(payload))
	}
	newSize := uint32(len(payload))

	out := make([]byte, int(h.Size)+len(payload))
	copy(out, template[:h.Size])
	binary.BigEndian.PutUint32(out[h.audioSizeOffset():h.audioSizeOffset()+4], newSize)
	copy(out[h.Size:], payload)

	return &Patch{
		Header:       h,
		NewAudioSize: newSize,
		Container:    out,
	}, nil
}
