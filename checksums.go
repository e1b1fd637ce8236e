// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

package mpq

import (
	"hash/adler32"
	"hash/crc32"

	"github.com/cespare/xxhash/v2"
)

// sectorAdler32 and blockCRC32 are read-side checksum helpers carried
// over from this format's archive-writing tooling: this reader does not
// enforce either on reads
// (the format-mandated checks this reader does honor are the
// sector-offset monotonicity/bounds checks in §4.F, not these). Both
// are unexported: blockCRC32 backs Archive.VerifyCRC32's cross-check
// against the (attributes) file, and sectorAdler32 is not called
// anywhere in the package.
func sectorAdler32(data []byte) uint32 {
	return adler32.Checksum(data)
}

func blockCRC32(data []byte) uint32 {
	return crc32.ChecksumIEEE(data)
}

// QuickDigest returns a fast, non-cryptographic 64-bit digest of data,
// useful for cheaply comparing large extracted files across repeated
// reads without re-hashing with CRC32/Adler32. It has no on-wire
// meaning in the archive format itself.
func QuickDigest(data []byte) uint64 {
	return xxhash.Sum64(data)
}
