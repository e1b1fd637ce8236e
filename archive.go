// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

package mpq

import (
	"io"
	"os"
	"strings"
	"unicode/utf8"
)

// Archive is a read-only handle on one opened MPQ archive. Its methods
// are safe for concurrent use: see the cursor type for the concurrency
// model.
type Archive struct {
	c          *cursor
	hashes     *hashTable
	blocks     *blockTable
	desc       Descriptor
	ownedFile  *os.File // non-nil only when Open (not OpenReaderAt) was used
}

// Open opens the archive at path. The returned *Archive owns the
// underlying file and Close closes it.
func Open(path string) (*Archive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, newErr(KindIO, "Open", path, err)
	}
	a, err := OpenReaderAt(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	a.ownedFile = f
	return a, nil
}

// OpenReaderAt opens an archive already held open by the caller. The
// caller retains ownership of ra; Close on the returned *Archive is a
// no-op.
func OpenReaderAt(ra io.ReaderAt) (*Archive, error) {
	return openWith(newCursorReaderAt(ra))
}

// OpenReadSeeker is like OpenReaderAt but accepts an io.ReadSeeker whose
// position is not otherwise shared with the caller; every read is
// serialized internally.
func OpenReadSeeker(rs io.ReadSeeker) (*Archive, error) {
	return openWith(newCursorReadSeeker(rs))
}

func openWith(c *cursor) (*Archive, error) {
	desc, err := locateHeader(c)
	if err != nil {
		return nil, err
	}
	c.setInfo(desc)

	hashes, err := loadHashTable(c, desc)
	if err != nil {
		return nil, err
	}
	blocks, err := loadBlockTable(c, desc)
	if err != nil {
		return nil, err
	}

	return &Archive{c: c, hashes: hashes, blocks: blocks, desc: desc}, nil
}

// Close releases resources opened by Open. It is a no-op for archives
// opened with OpenReaderAt or OpenReadSeeker.
func (a *Archive) Close() error {
	if a.ownedFile != nil {
		return a.ownedFile.Close()
	}
	return nil
}

// Start returns the absolute offset of the MPQ header within the
// underlying stream (non-zero when the archive was preceded by a
// user-data shunt, or embedded inside a larger file).
func (a *Archive) Start() uint64 { return a.desc.HeaderOffset }

// End returns the absolute offset one past the end of the archive.
func (a *Archive) End() uint64 { return a.desc.HeaderOffset + a.desc.ArchiveSize }

// Size returns the archive's declared size in bytes.
func (a *Archive) Size() uint64 { return a.desc.ArchiveSize }

// resolve looks up name in the hash table and returns its block entry.
// Deleted slots, missing-file slots and entries for indices beyond the
// block table all report KindFileNotFound, mirroring the fact that a
// caller cannot distinguish those cases from "never existed".
func (a *Archive) resolve(op, name string) (blockEntry, error) {
	_, e, err := a.resolveIndex(op, name)
	return e, err
}

// resolveIndex is resolve plus the block index, needed by callers that
// must line a file up against a parallel per-block array (the
// attributes file's CRC32/timestamp/MD5/patch-bit slices).
func (a *Archive) resolveIndex(op, name string) (uint32, blockEntry, error) {
	idx, ok := a.hashes.find(name)
	if !ok {
		return 0, blockEntry{}, newErr(KindFileNotFound, op, name, nil)
	}
	e, ok := a.blocks.get(idx)
	if !ok || !e.isExists() {
		return 0, blockEntry{}, newErr(KindFileNotFound, op, name, nil)
	}
	return idx, e, nil
}

// ReadFile reads and fully decrypts/decompresses the named file. Name
// lookups are not slash-normalized: "a/b" and "a\\b" hash differently
// and must be passed exactly as stored in the archive.
func (a *Archive) ReadFile(name string) ([]byte, error) {
	const op = "ReadFile"

	e, err := a.resolve(op, name)
	if err != nil {
		return nil, err
	}
	if e.isSingleUnit() {
		return nil, newErr(KindUnsupportedFeature, op, name, nil)
	}

	dataStart := a.desc.HeaderOffset + uint64(e.FilePos)

	var key uint32
	if e.isEncrypted() {
		key = fileKey(name, e.FilePos, e.UncompressedSize, e.isKeyAdjusted())
	}

	n := sectorCount(e.UncompressedSize, a.desc.SectorSize)

	// The sector-offsets vector is part of the file payload's wire
	// layout unconditionally (§6); the uncompressed-file fast path that
	// would skip it is explicitly out of scope here.
	sectors, err := loadSectorOffsets(a.c, dataStart, n, e.isEncrypted(), key, e.CompressedSize)
	if err != nil {
		return nil, err
	}

	payloadOffset, payloadLength := sectors.all()
	payload, err := a.c.readAt(op, dataStart+uint64(payloadOffset), uint64(payloadLength))
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, e.UncompressedSize)

	for i := uint32(0); i < n; i++ {
		remaining := e.UncompressedSize - i*a.desc.SectorSize
		want := a.desc.SectorSize
		if remaining < want {
			want = remaining
		}

		start, end, ok := sectors.one(i)
		if !ok {
			return nil, newErr(KindCorrupted, op, name, nil)
		}
		if start < payloadOffset || end-payloadOffset > uint32(len(payload)) {
			return nil, newErr(KindCorrupted, op, name, nil)
		}
		raw := payload[start-payloadOffset : end-payloadOffset]

		if e.isEncrypted() {
			decryptBytes(raw, key+i)
		}

		plain, err := decodeSector(op, name, raw, want)
		if err != nil {
			return nil, err
		}

		out = append(out, plain...)
	}

	return out, nil
}

// HasFile reports whether name resolves to a block entry with the
// EXISTS flag set. Patch-file and deletion-marker entries count as
// present; IsPatchFile and IsDeleteMarker tell them apart.
func (a *Archive) HasFile(name string) bool {
	_, err := a.resolve("HasFile", name)
	return err == nil
}

// IsPatchFile reports whether name resolves to an entry flagged as a
// patch file. Resolving the underlying patch chain is out of scope;
// callers that need the base file must do so themselves.
func (a *Archive) IsPatchFile(name string) (bool, error) {
	e, err := a.resolve("IsPatchFile", name)
	if err != nil {
		return false, err
	}
	return e.isPatchFile(), nil
}

// IsDeleteMarker reports whether name resolves to a deletion marker
// left behind by a patch archive.
func (a *Archive) IsDeleteMarker(name string) (bool, error) {
	e, err := a.resolve("IsDeleteMarker", name)
	if err != nil {
		return false, err
	}
	return e.isDeleteMarker(), nil
}

// Files returns the archive's file list, parsed from the (listfile)
// special file, and true if one was present. Archives built without a
// listfile (rare, but valid) return (nil, false): their contents can
// still be read by exact name, just not enumerated.
func (a *Archive) Files() ([]string, bool) {
	data, err := a.ReadFile("(listfile)")
	if err != nil {
		return nil, false
	}
	lines := strings.FieldsFunc(string(data), func(r rune) bool { return r == '\r' || r == '\n' })
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if !utf8.ValidString(l) {
			continue
		}
		out = append(out, l)
	}
	return out, true
}
