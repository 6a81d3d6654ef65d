// Package cursor provides a forward-only reader over an in-memory byte
// buffer. It knows nothing about container formats; it only tracks an
// absolute offset and hands out integers and zero-copy views.
package cursor

// ByteOrder selects how ReadUint composes multi-byte integers.
type ByteOrder int

// Supported byte orders.
const (
	LittleEndian ByteOrder = iota
	BigEndian
)

func (o ByteOrder) String() string {
	if o == BigEndian {
		return "big-endian"
	}
	return "little-endian"
}

// maxUintBytes is the widest integer ReadUint will compose.
const maxUintBytes = 4

// Cursor reads sequentially from a borrowed byte slice. It never copies
// the buffer; views returned by ReadView and Since alias it. A failed read
// leaves the position unchanged.
type Cursor struct {
	buf []byte
	pos int
}

// New creates a Cursor positioned at the start of buf.
func New(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Position returns the absolute offset of the next byte to be read.
func (c *Cursor) Position() int {
	return c.pos
}

// Len returns the total length of the underlying buffer.
func (c *Cursor) Len() int {
	return len(c.buf)
}

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int {
	return len(c.buf) - c.pos
}

// HasMore reports whether at least one byte remains.
func (c *Cursor) HasMore() bool {
	return c.pos < len(c.buf)
}

func (c *Cursor) require(n int) error {
	if c.Remaining() < n {
		return &BoundsError{Offset: c.pos, Want: n, Remaining: c.Remaining()}
	}
	return nil
}

// ReadByte returns the next byte and advances by one.
func (c *Cursor) ReadByte() (byte, error) {
	if err := c.require(1); err != nil {
		return 0, err
	}
	b := c.buf[c.pos]
	c.pos++
	return b, nil
}

// ReadUint reads n bytes (1 to 4) and composes them into an unsigned
// integer using the given byte order.
func (c *Cursor) ReadUint(n int, order ByteOrder) (uint32, error) {
	if n < 1 || n > maxUintBytes {
		return 0, &ArgumentError{Op: "ReadUint", N: n}
	}
	if err := c.require(n); err != nil {
		return 0, err
	}

	bs := c.buf[c.pos : c.pos+n]
	var v uint32
	if order == BigEndian {
		for _, b := range bs {
			v = v<<8 | uint32(b)
		}
	} else {
		for i, b := range bs {
			v |= uint32(b) << (8 * uint(i))
		}
	}
	c.pos += n
	return v, nil
}

// ReadView returns a view of the next n bytes without copying and
// advances past them. The view is capacity-limited so appends to it
// cannot overwrite the bytes that follow.
func (c *Cursor) ReadView(n int) ([]byte, error) {
	if n < 0 {
		return nil, &ArgumentError{Op: "ReadView", N: n}
	}
	if err := c.require(n); err != nil {
		return nil, err
	}
	v := c.buf[c.pos : c.pos+n : c.pos+n]
	c.pos += n
	return v, nil
}

// Since returns a view of the bytes consumed between start and the
// current position. It never exposes unread bytes.
func (c *Cursor) Since(start int) []byte {
	if start < 0 {
		start = 0
	}
	if start > c.pos {
		start = c.pos
	}
	return c.buf[start:c.pos:c.pos]
}

// Clone returns an independent cursor over the same buffer at the same
// position. Reads on the clone do not move c.
func (c *Cursor) Clone() *Cursor {
	return &Cursor{buf: c.buf, pos: c.pos}
}
