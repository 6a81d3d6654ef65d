// Package oggtest frames synthetic Ogg pages for tests and generator
// tools. Built pages carry valid checksums unless one is set explicitly.
package oggtest

import (
	"encoding/binary"

	"github.com/zsiec/oggscope/internal/checksum"
)

// PageSpec describes one page to frame.
type PageSpec struct {
	Flags    byte
	Granule  uint64
	Serial   uint32
	Sequence uint32
	Segments []byte // lacing values; nil derives them from Packets
	Packets  [][]byte
	Payload  []byte // used verbatim when Segments is set

	// Checksum overrides the computed value when non-zero.
	Checksum uint32
}

// Lacing returns the lacing values for a complete packet of length n.
func Lacing(n int) []byte {
	segs := make([]byte, 0, n/255+1)
	for n >= 255 {
		segs = append(segs, 255)
		n -= 255
	}
	return append(segs, byte(n))
}

// Build frames the page described by s.
func Build(s PageSpec) []byte {
	segs := s.Segments
	payload := s.Payload
	if segs == nil {
		payload = nil
		for _, pkt := range s.Packets {
			segs = append(segs, Lacing(len(pkt))...)
			payload = append(payload, pkt...)
		}
	}
	if len(segs) > 255 {
		panic("oggtest: more than 255 lacing values")
	}

	buf := make([]byte, 27+len(segs)+len(payload))
	copy(buf, "OggS")
	buf[4] = 0
	buf[5] = s.Flags
	binary.LittleEndian.PutUint64(buf[6:14], s.Granule)
	binary.LittleEndian.PutUint32(buf[14:18], s.Serial)
	binary.LittleEndian.PutUint32(buf[18:22], s.Sequence)
	buf[26] = byte(len(segs))
	copy(buf[27:], segs)
	copy(buf[27+len(segs):], payload)

	crc := s.Checksum
	if crc == 0 {
		crc = checksum.Page(buf)
	}
	binary.LittleEndian.PutUint32(buf[checksum.FieldOffset:], crc)
	return buf
}

// Concat frames each spec and joins the pages into one buffer.
func Concat(specs ...PageSpec) []byte {
	var out []byte
	for _, s := range specs {
		out = append(out, Build(s)...)
	}
	return out
}

// Fill returns n bytes counting up from start, wrapping at 256.
func Fill(n int, start byte) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = start + byte(i)
	}
	return b
}
