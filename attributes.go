// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

package mpq

import "encoding/binary"

// Attribute flags, in the fixed field order the (attributes) file lays
// them out: version, then flags, then one flat array per set bit.
const (
	attrFlagCRC32     = 0x00000001
	attrFlagTimestamp = 0x00000002
	attrFlagMD5       = 0x00000004
	attrFlagPatchBit  = 0x00000008
)

// Attributes is the parsed contents of the optional "(attributes)"
// special file: per-block metadata recorded in the same order as the
// block table, one slice per attribute the archive's author chose to
// record. A nil slice means that attribute was not recorded.
type Attributes struct {
	Version   uint32
	CRC32     []uint32
	Timestamp []uint64
	MD5       [][16]byte
	PatchBit  []bool
}

// readAttributes parses data read from "(attributes)". It is lenient
// about trailing short reads (some archives ship an attributes file one
// entry short of the block table) but rejects a header that is too
// small to contain version+flags.
func readAttributes(data []byte, blockCount uint32) (*Attributes, error) {
	const op = "Attributes"
	if len(data) < 8 {
		return nil, newErr(KindCorrupted, op, "(attributes)", nil)
	}

	a := &Attributes{
		Version: binary.LittleEndian.Uint32(data[0:4]),
	}
	flags := binary.LittleEndian.Uint32(data[4:8])
	off := 8
	n := int(blockCount)

	if flags&attrFlagCRC32 != 0 {
		a.CRC32 = make([]uint32, n)
		for i := 0; i < n && off+4 <= len(data); i++ {
			a.CRC32[i] = binary.LittleEndian.Uint32(data[off : off+4])
			off += 4
		}
	}
	if flags&attrFlagTimestamp != 0 {
		a.Timestamp = make([]uint64, n)
		for i := 0; i < n && off+8 <= len(data); i++ {
			a.Timestamp[i] = binary.LittleEndian.Uint64(data[off : off+8])
			off += 8
		}
	}
	if flags&attrFlagMD5 != 0 {
		a.MD5 = make([][16]byte, n)
		for i := 0; i < n && off+16 <= len(data); i++ {
			copy(a.MD5[i][:], data[off:off+16])
			off += 16
		}
	}
	if flags&attrFlagPatchBit != 0 {
		a.PatchBit = make([]bool, n)
		for i := 0; i < n; i++ {
			byteOff := off + i/8
			if byteOff >= len(data) {
				break
			}
			a.PatchBit[i] = data[byteOff]&(1<<uint(i%8)) != 0
		}
	}

	return a, nil
}

// Attributes reads and parses the archive's (attributes) special file,
// if present. It returns (nil, nil) when the file is absent, since
// recording attributes is optional.
func (a *Archive) Attributes() (*Attributes, error) {
	data, err := a.ReadFile("(attributes)")
	if err != nil {
		if e, ok := err.(*Error); ok && e.Kind == KindFileNotFound {
			return nil, nil
		}
		return nil, err
	}
	return readAttributes(data, a.desc.BlockTableCount)
}

// VerifyCRC32 reads name, then cross-checks it against the matching
// entry of the archive's (attributes) file, if both the file and a
// recorded CRC32 column exist. The second return value reports whether
// a recorded checksum was available to check against at all; ok==false
// means the caller learned nothing (no (attributes) file, or no CRC32
// column in it), not that verification failed.
func (a *Archive) VerifyCRC32(name string) (matches bool, ok bool, err error) {
	const op = "VerifyCRC32"

	idx, _, err := a.resolveIndex(op, name)
	if err != nil {
		return false, false, err
	}

	attrs, err := a.Attributes()
	if err != nil {
		return false, false, err
	}
	if attrs == nil || attrs.CRC32 == nil || int(idx) >= len(attrs.CRC32) {
		return false, false, nil
	}

	data, err := a.ReadFile(name)
	if err != nil {
		return false, false, err
	}
	return blockCRC32(data) == attrs.CRC32[idx], true, nil
}

// ContentDigest returns a fast, non-format xxhash digest of name's
// extracted bytes, for callers who want to key a content-addressed
// cache off what this archive actually contains rather than off name
// or block position (which a repack can change without changing the
// bytes).
func (a *Archive) ContentDigest(name string) (uint64, error) {
	data, err := a.ReadFile(name)
	if err != nil {
		return 0, err
	}
	return QuickDigest(data), nil
}
