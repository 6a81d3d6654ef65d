// Package ogg decodes Ogg page framing from an in-memory buffer and
// demultiplexes the pages into logical bitstreams keyed by serial number.
//
// [Decode] reads one page from a [cursor.Cursor]. [Index] owns a cursor and
// decodes pages lazily, in order, as they are requested. Payload and
// granule views alias the source buffer, which must stay unmodified for as
// long as any Page is reachable. Checksums are exposed but never verified
// during decoding; see [Page.VerifyChecksum].
package ogg

// CaptureSignature is "OggS" read as a big-endian uint32.
const CaptureSignature uint32 = 0x4f676753

// Version is the only stream structure version this package decodes.
const Version uint8 = 0

// Header flag bits.
const (
	FlagContinued = 0x01
	FlagBOS       = 0x02
	FlagEOS       = 0x04
)

const (
	headerSize     = 27
	granuleSize    = 8
	maxSegmentSize = 255
)

// MaxPageSize is the largest possible framed page: header, a full
// segment table, and 255 segments of 255 bytes.
const MaxPageSize = headerSize + maxSegmentSize + maxSegmentSize*maxSegmentSize

// Page is one decoded Ogg page. Slices alias the source buffer.
type Page struct {
	Index  int // position in decode order
	Offset int // absolute byte offset of the capture signature

	Signature  uint32
	Version    uint8
	HeaderType uint8
	Continued  bool
	BOS        bool
	EOS        bool

	// GranulePosition is the raw 8-byte field. Its meaning is codec-specific.
	GranulePosition []byte

	SerialNumber   uint32
	SequenceNumber uint32
	Checksum       uint32

	Segments []byte // lacing values
	Payload  []byte

	// Raw is the whole framed page: header, segment table and payload.
	Raw []byte
}

// SegmentCount returns the number of lacing values.
func (p *Page) SegmentCount() int {
	return len(p.Segments)
}

// SegmentSize returns the i-th lacing value.
func (p *Page) SegmentSize(i int) int {
	return int(p.Segments[i])
}

// PayloadSize returns the payload length, the sum of the lacing values.
func (p *Page) PayloadSize() int {
	return len(p.Payload)
}

// Size returns the total framed size of the page in bytes.
func (p *Page) Size() int {
	return headerSize + len(p.Segments) + len(p.Payload)
}
