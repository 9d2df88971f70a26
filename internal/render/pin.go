// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
)

// The canvas PDF writer stamps the info dictionary and the head table of
// every embedded font program with the wall clock. pinTimestamps rewrites
// both to fixed values and rebuilds the cross-reference table.

var (
	creationDateRe = regexp.MustCompile(`/CreationDate\((?:[^()\\]|\\.)*\)`)
	streamLengthRe = regexp.MustCompile(`/Length \d+`)
	xrefEntryRe    = regexp.MustCompile(`(?m)^(\d{10}) (\d{5}) ([nf])`)
)

var errMalformedPDF = errors.New("malformed PDF")

// sfnt versions: TrueType, OpenType CFF ("OTTO"), and Apple TrueType ("true").
const (
	sfntTrueType = 0x00010000
	sfntCFF      = 0x4F54544F
	sfntApple    = 0x74727565
)

func pdfDate() string {
	return "D:" + epoch.Format("20060102150405") + "Z"
}

func pinTimestamps(data []byte) ([]byte, error) {
	xrefAt, err := startXref(data)
	if err != nil {
		return nil, err
	}
	trailerAt := bytes.Index(data[xrefAt:], []byte("trailer"))
	if trailerAt < 0 {
		return nil, fmt.Errorf("%w: no trailer", errMalformedPDF)
	}
	trailerAt += xrefAt
	startxrefAt := bytes.LastIndex(data, []byte("startxref"))

	// Entry i is object i+1; the leading free entry is skipped.
	var offsets []int
	for _, m := range xrefEntryRe.FindAllSubmatch(data[xrefAt:trailerAt], -1) {
		if string(m[3]) == "f" {
			continue
		}
		off, _ := strconv.Atoi(string(m[1]))
		if off >= xrefAt {
			return nil, fmt.Errorf("%w: object offset %d past xref", errMalformedPDF, off)
		}
		offsets = append(offsets, off)
	}

	var spans []int
	for _, off := range offsets {
		if off > 0 {
			spans = append(spans, off)
		}
	}
	if len(spans) == 0 {
		return nil, fmt.Errorf("%w: no objects", errMalformedPDF)
	}
	sort.Ints(spans)

	var out bytes.Buffer
	out.Write(data[:spans[0]])
	moved := make(map[int]int, len(spans))
	for i, off := range spans {
		end := xrefAt
		if i+1 < len(spans) {
			end = spans[i+1]
		}
		obj, err := pinObject(data[off:end])
		if err != nil {
			return nil, err
		}
		moved[off] = out.Len()
		out.Write(obj)
	}

	newXref := out.Len()
	fmt.Fprintf(&out, "xref\n0 %d\n0000000000 65535 f \n", len(offsets)+1)
	for _, off := range offsets {
		fmt.Fprintf(&out, "%010d 00000 n \n", moved[off])
	}
	out.Write(data[trailerAt:startxrefAt])
	fmt.Fprintf(&out, "startxref\n%d\n%%%%EOF\n", newXref)
	return out.Bytes(), nil
}

func startXref(data []byte) (int, error) {
	at := bytes.LastIndex(data, []byte("startxref"))
	if at < 0 {
		return 0, fmt.Errorf("%w: no startxref", errMalformedPDF)
	}
	fields := bytes.Fields(data[at+len("startxref"):])
	if len(fields) == 0 {
		return 0, fmt.Errorf("%w: empty startxref", errMalformedPDF)
	}
	off, err := strconv.Atoi(string(fields[0]))
	if err != nil || off <= 0 || off >= at {
		return 0, fmt.Errorf("%w: bad startxref %q", errMalformedPDF, fields[0])
	}
	return off, nil
}

// pinObject fixes the creation date of an info dictionary or the head
// table of a font program. Other objects pass through unchanged.
func pinObject(obj []byte) ([]byte, error) {
	start := bytes.Index(obj, []byte("stream\n"))
	end := bytes.LastIndex(obj, []byte("\nendstream"))
	if start < 0 || end < start {
		return creationDateRe.ReplaceAllLiteral(obj, []byte("/CreationDate("+pdfDate()+")")), nil
	}

	dict := obj[:start]
	if !bytes.Contains(dict, []byte("/FlateDecode")) {
		return obj, nil
	}
	program, err := inflate(obj[start+len("stream\n") : end])
	if err != nil {
		return nil, fmt.Errorf("inflating stream: %w", err)
	}
	if !pinFontModified(program) {
		return obj, nil
	}
	packed, err := deflate(program)
	if err != nil {
		return nil, fmt.Errorf("deflating font program: %w", err)
	}

	var out bytes.Buffer
	out.Write(streamLengthRe.ReplaceAllLiteral(dict, []byte("/Length "+strconv.Itoa(len(packed)))))
	out.WriteString("stream\n")
	out.Write(packed)
	out.Write(obj[end:])
	return out.Bytes(), nil
}

// pinFontModified sets head.modified to head.created and recomputes the
// head checksum and checksumAdjustment. It reports false when font is not
// an sfnt with a head table.
func pinFontModified(font []byte) bool {
	if len(font) < 12 {
		return false
	}
	switch binary.BigEndian.Uint32(font) {
	case sfntTrueType, sfntCFF, sfntApple:
	default:
		return false
	}

	numTables := int(binary.BigEndian.Uint16(font[4:]))
	for i := 0; i < numTables; i++ {
		rec := 12 + 16*i
		if rec+16 > len(font) {
			return false
		}
		if string(font[rec:rec+4]) != "head" {
			continue
		}
		off := int(binary.BigEndian.Uint32(font[rec+8:]))
		length := int(binary.BigEndian.Uint32(font[rec+12:]))
		if length < 36 || off+length > len(font) {
			return false
		}

		head := font[off : off+length]
		copy(head[28:36], head[20:28])
		binary.BigEndian.PutUint32(head[8:], 0)
		padded := font[off:min(len(font), off+(length+3)&^3)]
		binary.BigEndian.PutUint32(font[rec+4:], sfntChecksum(padded))
		binary.BigEndian.PutUint32(head[8:], 0xB1B0AFBA-sfntChecksum(font))
		return true
	}
	return false
}

func sfntChecksum(b []byte) uint32 {
	var sum uint32
	for i := 0; i < len(b); i += 4 {
		var word [4]byte
		copy(word[:], b[i:])
		sum += binary.BigEndian.Uint32(word[:])
	}
	return sum
}

func inflate(b []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

func deflate(b []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(b); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
