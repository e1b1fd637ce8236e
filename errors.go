// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

package mpq

import "fmt"

// Kind classifies the way an archive operation failed.
type Kind int

const (
	// KindNotAnArchive means no MPQ header magic was found in the stream.
	KindNotAnArchive Kind = iota
	// KindCorrupted means a table or sector was structurally invalid:
	// out-of-bounds offsets, non-monotonic sector offsets, or a
	// decompression status other than Ok.
	KindCorrupted
	// KindFileNotFound means the name did not resolve in the hash table,
	// or resolved to a block index that does not exist or is not a file.
	KindFileNotFound
	// KindUnsupportedFeature means the entry uses a feature this reader
	// does not implement (single-unit files).
	KindUnsupportedFeature
	// KindUnsupportedCompression means a sector's compression bitmask set
	// a bit this reader cannot decode (Huffman, ADPCM mono/stereo).
	KindUnsupportedCompression
	// KindIO means the underlying reader returned an error.
	KindIO
	// KindPoisonedLock means the cursor's internal guard is unusable
	// because a previous operation panicked while holding it.
	KindPoisonedLock
)

func (k Kind) String() string {
	switch k {
	case KindNotAnArchive:
		return "not an archive"
	case KindCorrupted:
		return "corrupted"
	case KindFileNotFound:
		return "file not found"
	case KindUnsupportedFeature:
		return "unsupported feature"
	case KindUnsupportedCompression:
		return "unsupported compression"
	case KindIO:
		return "i/o error"
	case KindPoisonedLock:
		return "poisoned lock"
	default:
		return "unknown error"
	}
}

// Error is the error type returned by this package's operations, except
// that a sector using a compression bit this reader cannot decode is
// reported as *UnsupportedCompressionError. Callers should branch on
// Kind, not on the message text.
type Error struct {
	Kind Kind
	Op   string // operation that failed, e.g. "Open", "ReadFile"
	Name string // file or table name involved, if any
	Err  error  // wrapped cause, if any
}

func (e *Error) Error() string {
	msg := e.Op
	if e.Name != "" {
		msg += " " + e.Name
	}
	msg += ": " + e.Kind.String()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error with the same Kind, so callers
// can write errors.Is(err, mpq.ErrFileNotFound).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func newErr(kind Kind, op, name string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Name: name, Err: cause}
}

// Sentinel errors usable with errors.Is. Only Kind is compared, so the
// Op/Name/Err fields of these sentinels are never inspected.
var (
	ErrNotAnArchive           = &Error{Kind: KindNotAnArchive}
	ErrCorrupted              = &Error{Kind: KindCorrupted}
	ErrFileNotFound           = &Error{Kind: KindFileNotFound}
	ErrUnsupportedFeature     = &Error{Kind: KindUnsupportedFeature}
	ErrUnsupportedCompression = &Error{Kind: KindUnsupportedCompression}
	ErrIO                     = &Error{Kind: KindIO}
	ErrPoisonedLock           = &Error{Kind: KindPoisonedLock}
)

// UnsupportedCompressionError reports which compression bit could not be
// decoded; it satisfies errors.Is(err, ErrUnsupportedCompression).
type UnsupportedCompressionError struct {
	Op   string
	Name string
	Bit  string
}

func (e *UnsupportedCompressionError) Error() string {
	return fmt.Sprintf("%s %s: unsupported compression: %s", e.Op, e.Name, e.Bit)
}

func (e *UnsupportedCompressionError) Is(target error) bool {
	return target == ErrUnsupportedCompression
}
