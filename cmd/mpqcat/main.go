// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

// Command mpqcat lists or extracts files from an MPQ archive.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/stormreader/mpq"
)

func main() {
	listFlag := flag.Bool("list", false, "list the archive's (listfile) entries instead of extracting")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [-list] archive.mpq [file-to-extract]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	archivePath := flag.Arg(0)

	a, err := mpq.Open(archivePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mpqcat: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	if *listFlag {
		if err := list(a); err != nil {
			fmt.Fprintf(os.Stderr, "mpqcat: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if flag.NArg() < 2 {
		flag.Usage()
		os.Exit(2)
	}

	if err := extract(a, flag.Arg(1), os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "mpqcat: %v\n", err)
		os.Exit(1)
	}
}

func list(a *mpq.Archive) error {
	names, ok := a.Files()
	if !ok {
		return fmt.Errorf("archive has no (listfile)")
	}
	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}

func extract(a *mpq.Archive, name string, w io.Writer) error {
	data, err := a.ReadFile(name)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
