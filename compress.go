// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

package mpq

import (
	"bytes"
	"compress/bzip2"
	"compress/zlib"
	"io"

	"github.com/JoshVarga/blast"
)

// Per-sector compression bits (§6). A sector's first payload byte is a
// bitmask naming every codec applied when it was written; a stored
// sector (compressed_size == uncompressed_size) carries no mask byte at
// all and is returned verbatim.
const (
	compressionHuffman   = 0x01 // Huffman, WAVE audio only
	compressionZlib      = 0x02
	compressionPKWare    = 0x08 // PKWARE Data Compression Library ("explode")
	compressionBzip2     = 0x10
	compressionSparse    = 0x20
	compressionADPCMMono = 0x40
	compressionADPCM     = 0x80 // ADPCM stereo
)

// decodeSector reverses whatever codecs were applied to one sector's
// raw bytes, per §4.G. Multiple bits chain in a fixed order: zlib
// first, then PKWARE explode, then bzip2 — the reverse of the order
// those codecs are layered on write. The decoded length must equal
// uncompressedSize; anything else is reported as KindCorrupted.
func decodeSector(op, name string, data []byte, uncompressedSize uint32) ([]byte, error) {
	if uint32(len(data)) == uncompressedSize {
		return data, nil
	}
	if len(data) == 0 {
		return nil, newErr(KindCorrupted, op, name, nil)
	}

	mask := data[0]
	payload := data[1:]

	if bit, bitName := firstUnsupportedBit(mask); bit != 0 {
		return nil, &UnsupportedCompressionError{Op: op, Name: name, Bit: bitName}
	}

	result := payload
	var err error

	if mask&compressionZlib != 0 {
		result, err = decompressZlib(result, uncompressedSize)
		if err != nil {
			return nil, newErr(KindCorrupted, op, name, err)
		}
	}
	if mask&compressionPKWare != 0 {
		result, err = decompressPKWare(result, uncompressedSize)
		if err != nil {
			return nil, newErr(KindCorrupted, op, name, err)
		}
	}
	if mask&compressionBzip2 != 0 {
		result, err = decompressBzip2(result, uncompressedSize)
		if err != nil {
			return nil, newErr(KindCorrupted, op, name, err)
		}
	}

	if mask&(compressionZlib|compressionPKWare|compressionBzip2) == 0 {
		return nil, newErr(KindCorrupted, op, name, nil)
	}
	if uint32(len(result)) != uncompressedSize {
		return nil, newErr(KindCorrupted, op, name, nil)
	}

	return result, nil
}

// firstUnsupportedBit reports the first compression bit this reader
// cannot decode (Huffman, Sparse/RLE, and either ADPCM flavor), along
// with a human name for the error message.
func firstUnsupportedBit(mask byte) (byte, string) {
	switch {
	case mask&compressionHuffman != 0:
		return compressionHuffman, "huffman"
	case mask&compressionSparse != 0:
		return compressionSparse, "sparse"
	case mask&compressionADPCMMono != 0:
		return compressionADPCMMono, "adpcm-mono"
	case mask&compressionADPCM != 0:
		return compressionADPCM, "adpcm-stereo"
	}
	return 0, ""
}

func decompressZlib(data []byte, uncompressedSize uint32) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()

	result := make([]byte, uncompressedSize)
	n, err := io.ReadFull(r, result)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, err
	}
	return result[:n], nil
}

func decompressBzip2(data []byte, uncompressedSize uint32) ([]byte, error) {
	r := bzip2.NewReader(bytes.NewReader(data))

	result := make([]byte, uncompressedSize)
	n, err := io.ReadFull(r, result)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, err
	}
	return result[:n], nil
}

// decompressPKWare inflates PKWARE Data Compression Library ("implode")
// streams via blast, Mark Adler's reference decoder port. blast writes
// its whole output in one pass; output past uncompressedSize is dropped
// here, and a short output is reported as corruption by decodeSector's
// length check.
func decompressPKWare(data []byte, uncompressedSize uint32) ([]byte, error) {
	var out bytes.Buffer
	if err := blast.Blast(bytes.NewReader(data), &out); err != nil {
		return nil, err
	}
	result := out.Bytes()
	if uint32(len(result)) > uncompressedSize {
		result = result[:uncompressedSize]
	}
	return result, nil
}
