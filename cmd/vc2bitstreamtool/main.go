// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Command vc2bitstreamtool round-trips a VC-2 bitstream through
// deserialisation and back, for manual inspection during development.
//
// Example usage:
//	$ vc2bitstreamtool -mode dump -in sequence.vc2
//	$ vc2bitstreamtool -mode roundtrip -in sequence.vc2 -out out.vc2
package main

import (
	"bytes"
	"flag"
	"io"
	"io/ioutil"
	"log"
	"os"

	"github.com/bbc/vc2-conformance-sub004/bitio"
	"github.com/bbc/vc2-conformance-sub004/serdes"
	"github.com/bbc/vc2-conformance-sub004/vc2bitstream"
	"github.com/bbc/vc2-conformance-sub004/vc2defaults"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("vc2bitstreamtool: ")

	mode := flag.String("mode", "dump", "one of: dump, roundtrip")
	inPath := flag.String("in", "-", "input bitstream path, or - for stdin")
	outPath := flag.String("out", "-", "output path for roundtrip mode, or - for stdout")
	padTruncate := flag.Bool("normalize", false, "pass the decoded tree through PadTruncate before re-serialising")
	flag.Parse()

	if err := run(*mode, *inPath, *outPath, *padTruncate); err != nil {
		log.Fatal(err)
	}
}

func run(mode, inPath, outPath string, normalize bool) error {
	data, err := readAll(inPath)
	if err != nil {
		return err
	}

	d := serdes.NewDeserialiser(bitio.NewReader(bytes.NewReader(data)), vc2bitstream.StreamType)
	stream := d.Context()
	if err := vc2bitstream.ParseStream(d, func() *vc2bitstream.State {
		return vc2bitstream.NewState(nil)
	}); err != nil {
		return err
	}
	if err := d.VerifyComplete(); err != nil {
		return err
	}

	if normalize {
		p := serdes.NewPadTruncate(stream, vc2bitstream.StreamType)
		if err := vc2bitstream.ParseStream(p, func() *vc2bitstream.State {
			return vc2bitstream.NewState(nil)
		}); err != nil {
			return err
		}
	}

	switch mode {
	case "dump":
		_, err := os.Stdout.WriteString(stream.String() + "\n")
		return err
	case "roundtrip":
		out := &memSeeker{}
		wr := bitio.NewWriter(out)
		s := serdes.NewSerialiser(wr, stream, vc2defaults.DefaultValues)
		if err := vc2bitstream.ParseStream(s, func() *vc2bitstream.State {
			return vc2bitstream.NewState(nil)
		}); err != nil {
			return err
		}
		if err := wr.Flush(); err != nil {
			return err
		}
		if err := s.VerifyComplete(); err != nil {
			return err
		}
		return writeAll(outPath, out.buf)
	default:
		return Error("unknown -mode " + mode)
	}
}

func readAll(path string) ([]byte, error) {
	if path == "-" {
		return ioutil.ReadAll(os.Stdin)
	}
	return ioutil.ReadFile(path)
}

func writeAll(path string, data []byte) error {
	if path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return ioutil.WriteFile(path, data, 0644)
}

// Error is the wrapper type for errors specific to this command.
type Error string

func (e Error) Error() string { return string(e) }

// memSeeker adapts an in-memory byte slice into an io.WriteSeeker, since
// the bitio.Writer's seek-and-patch use (autofill's parse-offset finalize
// pass) needs random access that os.Stdout and a pipe can't provide.
type memSeeker struct {
	buf []byte
	off int64
}

func (m *memSeeker) Write(p []byte) (int, error) {
	end := m.off + int64(len(p))
	if end > int64(len(m.buf)) {
		m.buf = append(m.buf, make([]byte, end-int64(len(m.buf)))...)
	}
	copy(m.buf[m.off:end], p)
	m.off = end
	return len(p), nil
}

func (m *memSeeker) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		m.off = offset
	case io.SeekCurrent:
		m.off += offset
	case io.SeekEnd:
		m.off = int64(len(m.buf)) + offset
	}
	return m.off, nil
}
