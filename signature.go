// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

package mpq

import "encoding/binary"

// SignatureInfo is the parsed contents of the optional "(signature)"
// special file: a version tag and the raw signature bytes. Verifying
// the signature against a public key is outside this reader's scope;
// callers that need verification extract Signature and do it
// themselves.
type SignatureInfo struct {
	Version   uint32
	Signature []byte
}

// Signature reads and parses the archive's (signature) special file, if
// present. It returns (nil, nil) when the file is absent, since weak
// and strong signatures are both optional.
func (a *Archive) Signature() (*SignatureInfo, error) {
	const op = "Signature"

	data, err := a.ReadFile("(signature)")
	if err != nil {
		if e, ok := err.(*Error); ok && e.Kind == KindFileNotFound {
			return nil, nil
		}
		return nil, err
	}

	if len(data) < 8 {
		return nil, newErr(KindCorrupted, op, "(signature)", nil)
	}

	version := binary.LittleEndian.Uint32(data[0:4])
	sigLen := binary.LittleEndian.Uint32(data[4:8])
	if uint64(8+sigLen) > uint64(len(data)) {
		return nil, newErr(KindCorrupted, op, "(signature)", nil)
	}

	sig := make([]byte, sigLen)
	copy(sig, data[8:8+sigLen])

	return &SignatureInfo{Version: version, Signature: sig}, nil
}
