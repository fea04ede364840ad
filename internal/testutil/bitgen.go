// Copyright 2016, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package testutil

import (
	"bytes"
	"encoding/hex"
	"errors"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/bbc/vc2-conformance-sub004/bitio"
)

var (
	reBin = regexp.MustCompile("^[01]{1,64}$")
	reDec = regexp.MustCompile("^D[0-9]+:[0-9]+$")
	reHex = regexp.MustCompile("^H[0-9]+:[0-9a-fA-F]{1,16}$")
	reRaw = regexp.MustCompile("^X:[0-9a-fA-F]+$")
	reQnt = regexp.MustCompile("[*][0-9]+$")
)

// DecodeBitGen decodes a BitGen formatted string into the literal bytes it
// describes, packed MSB-first as every VC-2 bitstream is.
//
// The format allows a bit-stream to be written as a series of tokens
// separated by white space of any kind, designed for scripting test
// bitstreams by hand. The '#' character starts a comment that runs to the
// end of the line.
//
// A token of the pattern "[01]{1,64}" forms a bit-string (e.g. 11010),
// written most-significant bit first.
//
// A token of the pattern "D[0-9]+:[0-9]+" or "H[0-9]+:[0-9a-fA-F]{1,16}"
// represents a decimal or hexadecimal value respectively, written as an
// unsigned binary number whose bit-length is given by the first number.
// The bit-length must be wide enough to hold the value.
//
// A token of the pattern "X:[0-9a-fA-F]+" represents literal bytes in
// hexadecimal, written directly to the stream. This token may only be used
// when the stream is already byte-aligned.
//
// A token decorator of the pattern "[*][0-9]+" may trail any token, and
// repeats it that many times.
//
// If the resulting bit-stream does not end on a byte boundary, it is
// padded with 0 bits up to the next byte, mirroring the padding fields
// VC-2 records carry for exactly this purpose.
//
// Example BitGen string, one parse_info header and a zero-length payload:
//	H32:42424344    # parse_info_prefix
//	H8:10           # parse_code: end of sequence
//	H32:0           # next_parse_offset
//	H32:d           # previous_parse_offset
func DecodeBitGen(str string) ([]byte, error) {
	var toks []string
	for _, s := range strings.Split(str, "\n") {
		if i := strings.IndexByte(s, '#'); i >= 0 {
			s = s[:i]
		}
		for _, t := range strings.Split(s, " ") {
			t = strings.TrimSpace(t)
			if len(t) > 0 {
				toks = append(toks, t)
			}
		}
	}

	buf := &byteSink{}
	bw := bitio.NewWriter(buf)
	for _, t := range toks {
		rep := 1
		if reQnt.MatchString(t) {
			i := strings.LastIndexByte(t, '*')
			tt, tn := t[:i], t[i+1:]
			n, err := strconv.Atoi(tn)
			if err != nil {
				return nil, errors.New("testutil: invalid quantified token: " + t)
			}
			t, rep = tt, n
		}

		switch {
		case reBin.MatchString(t):
			var v uint64
			for _, b := range t {
				v <<= 1
				v |= uint64(b - '0')
			}
			for i := 0; i < rep; i++ {
				if err := bw.WriteBitsBE64(len(t), v); err != nil {
					return nil, err
				}
			}
		case reDec.MatchString(t) || reHex.MatchString(t):
			i := strings.IndexByte(t, ':')
			tb, tn, tv := t[0], t[1:i], t[i+1:]

			base := 10
			if tb == 'H' {
				base = 16
			}

			n, err1 := strconv.Atoi(tn)
			v, err2 := strconv.ParseUint(tv, base, 64)
			if err1 != nil || err2 != nil || n > 64 {
				return nil, errors.New("testutil: invalid numeric token: " + t)
			}
			if n < 64 && v&((1<<uint(n))-1) != v {
				return nil, errors.New("testutil: integer overflow on token: " + t)
			}
			for i := 0; i < rep; i++ {
				if err := bw.WriteBitsBE64(n, v); err != nil {
					return nil, err
				}
			}
		case reRaw.MatchString(t):
			tx := t[2:]
			b, err := hex.DecodeString(tx)
			if err != nil {
				return nil, errors.New("testutil: invalid raw bytes token: " + t)
			}
			b = bytes.Repeat(b, rep)
			if err := bw.WriteBytes(len(b), b); err != nil {
				return nil, err
			}
		default:
			return nil, errors.New("testutil: invalid token: " + t)
		}
	}

	if err := bw.Flush(); err != nil {
		return nil, err
	}
	return buf.b, nil
}

// byteSink adapts a growable byte slice into an io.WriteSeeker, since
// bitio.Writer needs random access: its Flush seeks back to the start of
// the final partial byte it has just written.
type byteSink struct {
	b   []byte
	off int64
}

func (s *byteSink) Write(p []byte) (int, error) {
	end := s.off + int64(len(p))
	if end > int64(len(s.b)) {
		s.b = append(s.b, make([]byte, end-int64(len(s.b)))...)
	}
	copy(s.b[s.off:end], p)
	s.off = end
	return len(p), nil
}

func (s *byteSink) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		s.off = offset
	case io.SeekCurrent:
		s.off += offset
	case io.SeekEnd:
		s.off = int64(len(s.b)) + offset
	}
	return s.off, nil
}
