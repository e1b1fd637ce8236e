// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

package mpq

// blockTable is the decrypted, parsed block table: index -> file
// location, sizes and flags. Built once at Open, never mutated.
type blockTable struct {
	entries []rawBlockEntry
}

func loadBlockTable(c *cursor, d Descriptor) (*blockTable, error) {
	raw, err := c.readAt("Open", d.BlockTableOffset, uint64(d.BlockTableCount)*entrySize)
	if err != nil {
		return nil, err
	}

	key := hashString("(block table)", HashFileKey)
	decryptBytes(raw, key)

	entries := decodeBlockEntries(raw, d.BlockTableCount)
	return &blockTable{entries: entries}, nil
}

// blockEntry is the public, typed view of one block table slot.
type blockEntry struct {
	FilePos          uint32
	CompressedSize   uint32
	UncompressedSize uint32
	Flags            uint32
}

func (b blockEntry) isExists() bool       { return b.Flags&flagExists != 0 }
func (b blockEntry) isEncrypted() bool    { return b.Flags&flagEncrypted != 0 }
func (b blockEntry) isKeyAdjusted() bool  { return b.Flags&flagKeyAdjusted != 0 }
func (b blockEntry) isSingleUnit() bool   { return b.Flags&flagSingleUnit != 0 }
func (b blockEntry) isCompressed() bool   { return b.Flags&flagCompressed != 0 }
func (b blockEntry) isImploded() bool     { return b.Flags&flagImploded != 0 }
func (b blockEntry) isPatchFile() bool    { return b.Flags&flagPatchFile != 0 }
func (b blockEntry) isDeleteMarker() bool { return b.Flags&flagDeleteMarker != 0 }

// get returns the entry at i, or (zero, false) if i is out of range.
func (t *blockTable) get(i uint32) (blockEntry, bool) {
	if i >= uint32(len(t.entries)) {
		return blockEntry{}, false
	}
	e := t.entries[i]
	return blockEntry{
		FilePos:          e.FilePos,
		CompressedSize:   e.CompressedSize,
		UncompressedSize: e.UncompressedSize,
		Flags:            e.Flags,
	}, true
}
