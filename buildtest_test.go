// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

package mpq

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
)

// sectorPlan picks, for one file, how sector i of n should be encoded:
// "store" writes it verbatim (triggers the stored-sector short circuit
// in decodeSector), "zlib" deflates it behind a 0x02 mask byte.
type sectorPlan func(i, n int) string

func storeAll(int, int) string { return "store" }

// fixtureSpec describes one file to embed in a synthetic archive built
// by buildArchive, for use by tests that need a real, readable MPQ byte
// stream without a writer implementation in scope.
type fixtureSpec struct {
	name        string
	data        []byte
	encrypted   bool
	keyAdjusted bool
	plan        sectorPlan
}

// fixtureSectorSize must match the sector_size the header below encodes
// (block_size_shift = 0 -> 512 << 0).
const fixtureSectorSize = 512

// buildArchive lays out a minimal, valid V1 archive: header, hash
// table, block table, then each file's sector-offsets vector and
// sectors back to back. Table sizes are fixed at 16 slots, which is
// comfortably a power of two above any fixture file count used here.
func buildArchive(files []fixtureSpec) []byte {
	const tableSlots = 16

	hashEntries := make([]rawHashEntry, tableSlots)
	for i := range hashEntries {
		hashEntries[i].BlockIndex = hashSlotNeverUsed
	}
	blockEntries := make([]rawBlockEntry, len(files))

	// file_pos is relative to header_offset, which covers the header and
	// both tables preceding the payload region; both table sizes are
	// fixed up front so this prefix is known before laying out files.
	prefixLen := uint32(headerSize) + uint32(tableSlots*entrySize) + uint32(len(files)*entrySize)

	var payload bytes.Buffer
	for fi, f := range files {
		n := int(sectorCount(uint32(len(f.data)), fixtureSectorSize))
		plan := f.plan
		if plan == nil {
			plan = storeAll
		}

		sectorBytes := make([][]byte, n)
		for i := 0; i < n; i++ {
			start := i * fixtureSectorSize
			end := start + fixtureSectorSize
			if end > len(f.data) {
				end = len(f.data)
			}
			plain := f.data[start:end]

			var raw []byte
			switch plan(i, n) {
			case "zlib":
				var buf bytes.Buffer
				buf.WriteByte(compressionZlib)
				w := zlib.NewWriter(&buf)
				w.Write(plain)
				w.Close()
				raw = buf.Bytes()
				if len(raw) >= len(plain) {
					raw = append([]byte{}, plain...)
				}
			default:
				raw = append([]byte{}, plain...)
			}
			sectorBytes[i] = raw
		}

		// file_pos is assigned before keyAdjust is folded in, matching
		// §4.A: the key is derived, then file_pos/uncompressed_size are
		// mixed in only when KEY_ADJUSTED is set.
		filePos := prefixLen + uint32(payload.Len())
		uncompressedSize := uint32(len(f.data))

		var fileKeyVal uint32
		if f.encrypted {
			fileKeyVal = fileKey(f.name, filePos, uncompressedSize, f.keyAdjusted)
		}

		offsetBytes := make([]byte, (n+1)*4)

		// Offsets are relative to file_pos, i.e. to the start of the
		// offset vector itself, so the first entry is the vector's own
		// size rather than zero.
		offsets := make([]uint32, n+1)
		cursor := uint32(len(offsetBytes))
		for i, s := range sectorBytes {
			offsets[i] = cursor
			cursor += uint32(len(s))
		}
		offsets[n] = cursor
		for i, o := range offsets {
			binary.LittleEndian.PutUint32(offsetBytes[i*4:i*4+4], o)
		}
		if f.encrypted {
			encryptBytes(offsetBytes, fileKeyVal-1)
		}

		for i, s := range sectorBytes {
			if f.encrypted {
				encryptBytes(s, fileKeyVal+uint32(i))
			}
			sectorBytes[i] = s
		}

		payload.Write(offsetBytes)
		for _, s := range sectorBytes {
			payload.Write(s)
		}

		flags := uint32(flagExists)
		if f.encrypted {
			flags |= flagEncrypted
		}
		if f.keyAdjusted {
			flags |= flagKeyAdjusted
		}
		flags |= flagCompressed

		blockEntries[fi] = rawBlockEntry{
			FilePos:          filePos,
			CompressedSize:   cursor,
			UncompressedSize: uncompressedSize,
			Flags:            flags,
		}

		placeHashEntry(hashEntries, f.name, uint32(fi))
	}

	hashTableBytes := make([]byte, tableSlots*entrySize)
	for i, e := range hashEntries {
		b := hashTableBytes[i*entrySize : i*entrySize+entrySize]
		binary.LittleEndian.PutUint32(b[0:4], e.HashA)
		binary.LittleEndian.PutUint32(b[4:8], e.HashB)
		binary.LittleEndian.PutUint16(b[8:10], e.Locale)
		binary.LittleEndian.PutUint16(b[10:12], e.Platform)
		binary.LittleEndian.PutUint32(b[12:16], e.BlockIndex)
	}
	encryptBytes(hashTableBytes, hashString("(hash table)", HashFileKey))

	blockTableBytes := make([]byte, len(blockEntries)*entrySize)
	for i, e := range blockEntries {
		b := blockTableBytes[i*entrySize : i*entrySize+entrySize]
		binary.LittleEndian.PutUint32(b[0:4], e.FilePos)
		binary.LittleEndian.PutUint32(b[4:8], e.CompressedSize)
		binary.LittleEndian.PutUint32(b[8:12], e.UncompressedSize)
		binary.LittleEndian.PutUint32(b[12:16], e.Flags)
	}
	encryptBytes(blockTableBytes, hashString("(block table)", HashFileKey))

	header := make([]byte, headerSize)
	binary.LittleEndian.PutUint32(header[0:4], headerMagic)
	binary.LittleEndian.PutUint32(header[4:8], headerSize)
	hashTableOffset := uint32(headerSize)
	blockTableOffset := hashTableOffset + uint32(len(hashTableBytes))
	archiveSize := blockTableOffset + uint32(len(blockTableBytes)) + uint32(payload.Len())
	binary.LittleEndian.PutUint32(header[8:12], archiveSize)
	binary.LittleEndian.PutUint16(header[12:14], 0) // format version
	binary.LittleEndian.PutUint16(header[14:16], 0) // sector size shift -> 512<<0 == 512
	binary.LittleEndian.PutUint32(header[16:20], hashTableOffset)
	binary.LittleEndian.PutUint32(header[20:24], blockTableOffset)
	binary.LittleEndian.PutUint32(header[24:28], uint32(tableSlots))
	binary.LittleEndian.PutUint32(header[28:32], uint32(len(blockEntries)))

	var out bytes.Buffer
	out.Write(header)
	out.Write(hashTableBytes)
	out.Write(blockTableBytes)
	out.Write(payload.Bytes())
	return out.Bytes()
}

// placeHashEntry inserts name at its home slot (or the next free slot
// found by linear probing), matching the scan order hashTable.find
// uses so the fixture is resolvable.
func placeHashEntry(entries []rawHashEntry, name string, blockIndex uint32) {
	mask := uint32(len(entries)) - 1
	start := hashString(name, HashTableOffset) & mask
	for i := uint32(0); i <= mask; i++ {
		idx := (start + i) & mask
		if entries[idx].BlockIndex == hashSlotNeverUsed {
			entries[idx] = rawHashEntry{
				HashA:      hashString(name, HashNameA),
				HashB:      hashString(name, HashNameB),
				BlockIndex: blockIndex,
			}
			return
		}
	}
}
