// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

/*
Package mpq provides pure Go support for reading MPQ (Mo'PaQ) archives.

MPQ is an archive format created by Blizzard Entertainment, used in games
like Diablo, StarCraft, and World of Warcraft. This package locates an
archive's control tables, resolves filenames, and returns decrypted,
decompressed file contents. It does not create or modify archives.

# Basic Usage

	archive, err := mpq.Open("game.mpq")
	if err != nil {
		log.Fatal(err)
	}
	defer archive.Close()

	if archive.HasFile(`Data\file.txt`) {
		data, err := archive.ReadFile(`Data\file.txt`)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(len(data))
	}

# Path Conventions

MPQ archives use backslash (\) as the path separator. Unlike many ports of
this format, this package does NOT fold forward slashes into backslashes
before hashing: `Data/file.txt` and `Data\file.txt` are different names.
Callers must pass names exactly as the archive's author stored them.

# Limitations

This package focuses on the read path:

  - No support for writing or repairing archives
  - No support for single-unit (non-sectored) files
  - No support for Huffman or ADPCM audio compression
  - No resolution of patch-archive chains (individual patch/delete-marker
    entries are still reported via [Archive.IsPatchFile] and
    [Archive.IsDeleteMarker])
*/
package mpq
