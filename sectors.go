// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

package mpq

import "encoding/binary"

// sectorCount returns the number of sectors a file of uncompressedSize
// bytes is split into, given sectorSize. Zero-length files still occupy
// exactly one sector.
func sectorCount(uncompressedSize, sectorSize uint32) uint32 {
	if uncompressedSize == 0 {
		return 1
	}
	n := (uncompressedSize + sectorSize - 1) / sectorSize
	if n == 0 {
		n = 1
	}
	return n
}

// sectorOffsets is the parsed sector-offset vector for one non-single-unit
// file: offsets[i]..offsets[i+1] bounds the compressed bytes of sector i,
// relative to the start of the file's data. The vector always has
// sectorCount+1 entries, the last being the end of the final sector (no
// greater than the block's compressed size).
type sectorOffsets struct {
	offsets []uint32
}

// loadSectorOffsets reads the count+1 little-endian offsets at
// dataStart, decrypting with key-1 when the file is encrypted (the
// offset table uses the block's key minus one, per the format), and
// validates the two invariants the table must hold: monotonically
// non-decreasing, and a final entry no greater than compressedSize (a
// final offset strictly below compressedSize is valid — some archives
// carry trailing per-sector data, such as CRCs, after the last sector).
func loadSectorOffsets(c *cursor, dataStart uint64, count uint32, encrypted bool, key, compressedSize uint32) (*sectorOffsets, error) {
	raw, err := c.readAt("ReadFile", dataStart, uint64(count+1)*4)
	if err != nil {
		return nil, err
	}

	if encrypted {
		decryptBytes(raw, key-1)
	}

	offsets := make([]uint32, count+1)
	for i := range offsets {
		offsets[i] = binary.LittleEndian.Uint32(raw[i*4 : i*4+4])
	}

	for i := 1; i < len(offsets); i++ {
		if offsets[i] < offsets[i-1] {
			return nil, newErr(KindCorrupted, "ReadFile", "", nil)
		}
	}
	if offsets[len(offsets)-1] > compressedSize {
		return nil, newErr(KindCorrupted, "ReadFile", "", nil)
	}

	return &sectorOffsets{offsets: offsets}, nil
}

// count returns the number of sectors described by the table.
func (s *sectorOffsets) count() uint32 {
	return uint32(len(s.offsets)) - 1
}

// one returns the [start,end) byte range of sector i within the file's
// compressed data region.
func (s *sectorOffsets) one(i uint32) (start, end uint32, ok bool) {
	if i+1 >= uint32(len(s.offsets)) {
		return 0, 0, false
	}
	return s.offsets[i], s.offsets[i+1], true
}

// all returns the byte range of the whole payload, relative to the
// file's data start: offset is where sector 0 begins, and length spans
// every sector up through the table's trailing sentinel.
func (s *sectorOffsets) all() (offset, length uint32) {
	offset = s.offsets[0]
	length = s.offsets[len(s.offsets)-1] - offset
	return offset, length
}
