package ogg

import (
	"github.com/zsiec/oggscope/internal/checksum"
	"github.com/zsiec/oggscope/internal/cursor"
)

// Decode reads one page starting at the cursor's position and assigns it
// the given index. Cursor errors are returned unchanged. The cursor only
// moves past the page on success; on any error it is left where it was.
func Decode(c *cursor.Cursor, index int) (*Page, error) {
	d := c.Clone()
	p, err := decode(d, index)
	if err != nil {
		return nil, err
	}
	*c = *d
	return p, nil
}

func decode(c *cursor.Cursor, index int) (*Page, error) {
	start := c.Position()

	sig, err := c.ReadUint(4, cursor.BigEndian)
	if err != nil {
		return nil, err
	}
	if sig != CaptureSignature {
		return nil, &HeaderError{
			Field:    "capture signature",
			Expected: CaptureSignature,
			Actual:   sig,
			Offset:   start,
			kind:     ErrMalformedHeader,
		}
	}

	version, err := c.ReadByte()
	if err != nil {
		return nil, err
	}
	if version != Version {
		return nil, &HeaderError{
			Field:    "version",
			Expected: uint32(Version),
			Actual:   uint32(version),
			Offset:   c.Position() - 1,
			kind:     ErrUnsupportedVersion,
		}
	}

	flags, err := c.ReadByte()
	if err != nil {
		return nil, err
	}

	p := &Page{
		Index:      index,
		Offset:     start,
		Signature:  sig,
		Version:    version,
		HeaderType: flags,
		Continued:  flags&FlagContinued != 0,
		BOS:        flags&FlagBOS != 0,
		EOS:        flags&FlagEOS != 0,
	}

	if p.GranulePosition, err = c.ReadView(granuleSize); err != nil {
		return nil, err
	}
	if p.SerialNumber, err = c.ReadUint(4, cursor.LittleEndian); err != nil {
		return nil, err
	}
	if p.SequenceNumber, err = c.ReadUint(4, cursor.LittleEndian); err != nil {
		return nil, err
	}
	if p.Checksum, err = c.ReadUint(4, cursor.LittleEndian); err != nil {
		return nil, err
	}

	count, err := c.ReadByte()
	if err != nil {
		return nil, err
	}
	if p.Segments, err = c.ReadView(int(count)); err != nil {
		return nil, err
	}
	payloadLen := 0
	for _, lv := range p.Segments {
		payloadLen += int(lv)
	}
	if p.Payload, err = c.ReadView(payloadLen); err != nil {
		return nil, err
	}

	p.Raw = c.Since(start)
	return p, nil
}

// VerifyChecksum recomputes the page checksum over Raw and compares it
// with the stored value. Decoding never calls this.
func (p *Page) VerifyChecksum() error {
	computed := checksum.Page(p.Raw)
	if computed != p.Checksum {
		return &ChecksumError{Index: p.Index, Stored: p.Checksum, Computed: computed}
	}
	return nil
}
