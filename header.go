// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

package mpq

import (
	"bytes"
	"encoding/binary"
)

const maxHeaderScanBytes = 512 * 1024 * 1024 // sanity bound on shunt/scan distance

// locateHeader scans c for the MPQ header magic on 512-byte boundaries,
// honoring an optional MPQ\x1B user-data shunt that redirects the scan
// to an explicit offset, and returns the parsed Descriptor.
func locateHeader(c *cursor) (Descriptor, error) {
	offset := uint64(0)

	for scanned := uint64(0); scanned < maxHeaderScanBytes; scanned += sectorBoundary {
		magicBuf, atEOF, err := c.tryReadAt("Open", offset, 4)
		if err != nil {
			return Descriptor{}, err
		}
		if atEOF {
			return Descriptor{}, newErr(KindNotAnArchive, "Open", "", nil)
		}
		magic := binary.LittleEndian.Uint32(magicBuf)

		switch magic {
		case userDataMagic:
			rest, err := c.readAt("Open", offset+4, 8)
			if err != nil {
				return Descriptor{}, err
			}
			u, _ := readRawUserData(bytes.NewReader(rest))
			offset = uint64(u.HeaderOffset)
			continue

		case headerMagic:
			return parseHeaderAt(c, offset)
		}

		offset += sectorBoundary
	}

	return Descriptor{}, newErr(KindNotAnArchive, "Open", "", nil)
}

func parseHeaderAt(c *cursor, headerOffset uint64) (Descriptor, error) {
	raw, err := c.readAt("Open", headerOffset, headerSize)
	if err != nil {
		return Descriptor{}, err
	}

	h, err := readRawHeader(bytes.NewReader(raw))
	if err != nil {
		return Descriptor{}, newErr(KindCorrupted, "Open", "", err)
	}
	if h.Magic != headerMagic {
		return Descriptor{}, newErr(KindNotAnArchive, "Open", "", nil)
	}

	sectorSize := uint32(512) << h.SectorSizeShift
	if sectorSize < 512 || sectorSize&(sectorSize-1) != 0 {
		return Descriptor{}, newErr(KindCorrupted, "Open", "", nil)
	}
	if !isPowerOfTwo(h.HashTableEntries) {
		return Descriptor{}, newErr(KindCorrupted, "Open", "", nil)
	}

	d := Descriptor{
		HeaderOffset:     headerOffset,
		ArchiveSize:      uint64(h.ArchiveSize),
		SectorSize:       sectorSize,
		FormatVersion:    h.FormatVersion,
		HashTableOffset:  headerOffset + uint64(h.HashTableOffset),
		HashTableCount:   h.HashTableEntries,
		BlockTableOffset: headerOffset + uint64(h.BlockTableOffset),
		BlockTableCount:  h.BlockTableEntries,
	}
	return d, nil
}
