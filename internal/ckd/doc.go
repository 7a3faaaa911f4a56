// Package ckd reads and rebuilds cooked audio containers (".wav.ckd").
//
// A container is a fixed-size header followed by the raw compressed audio.
// The header length is a big-endian uint32 at offset 0x14. Somewhere inside
// the header sits a "data" tag followed by two big-endian uint32 values: the
// header length again and the length of the audio that follows the header.
//
// Recooking keeps the template header byte for byte, rewrites the audio
// length and appends the new payload. Nothing else in the header is touched.
package ckd
