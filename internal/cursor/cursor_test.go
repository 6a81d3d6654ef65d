package cursor

import (
	"errors"
	"testing"
)

func TestNewStartsAtZero(t *testing.T) {
	t.Parallel()
	c := New(make([]byte, 10))
	if c.Position() != 0 {
		t.Errorf("Position = %d, want 0", c.Position())
	}
	if c.Len() != 10 {
		t.Errorf("Len = %d, want 10", c.Len())
	}
	if !c.HasMore() {
		t.Error("HasMore should be true for non-empty buffer")
	}
}

func TestHasMoreEmpty(t *testing.T) {
	t.Parallel()
	c := New(nil)
	if c.HasMore() {
		t.Error("HasMore should be false for empty buffer")
	}
	if _, err := c.ReadByte(); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("ReadByte on empty: got %v, want ErrOutOfBounds", err)
	}
}

func TestReadByte(t *testing.T) {
	t.Parallel()
	c := New([]byte{0, 1, 2})
	for want := byte(0); want < 3; want++ {
		b, err := c.ReadByte()
		if err != nil {
			t.Fatal(err)
		}
		if b != want {
			t.Errorf("ReadByte = %d, want %d", b, want)
		}
	}
	if c.HasMore() {
		t.Error("HasMore should be false after consuming all bytes")
	}
}

func TestReadUintByteOrder(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		n     int
		order ByteOrder
		want  uint32
	}{
		{"le2", 2, LittleEndian, 0x1234},
		{"be2", 2, BigEndian, 0x3412},
		{"le1", 1, LittleEndian, 0x34},
		{"be1", 1, BigEndian, 0x34},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := New([]byte{0x34, 0x12})
			got, err := c.ReadUint(tt.n, tt.order)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("ReadUint(%d, %v) = 0x%X, want 0x%X", tt.n, tt.order, got, tt.want)
			}
		})
	}
}

func TestReadUintSequence(t *testing.T) {
	t.Parallel()
	buf := []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}

	c := New(buf)
	wantBE := []struct {
		n   int
		val uint32
		pos int
	}{
		{2, 0x0001, 2},
		{3, 0x020304, 5},
		{4, 0x05060708, 9},
		{1, 0x09, 10},
	}
	for _, w := range wantBE {
		v, err := c.ReadUint(w.n, BigEndian)
		if err != nil {
			t.Fatal(err)
		}
		if v != w.val {
			t.Errorf("BE ReadUint(%d) = 0x%X, want 0x%X", w.n, v, w.val)
		}
		if c.Position() != w.pos {
			t.Errorf("Position = %d, want %d", c.Position(), w.pos)
		}
	}

	c = New(buf)
	wantLE := []uint32{0x0100, 0x040302, 0x08070605, 0x09}
	for i, n := range []int{2, 3, 4, 1} {
		v, err := c.ReadUint(n, LittleEndian)
		if err != nil {
			t.Fatal(err)
		}
		if v != wantLE[i] {
			t.Errorf("LE ReadUint(%d) = 0x%X, want 0x%X", n, v, wantLE[i])
		}
	}
}

func TestReadUintInvalidWidth(t *testing.T) {
	t.Parallel()
	for _, n := range []int{0, -1, 5, 8} {
		c := New(make([]byte, 16))
		_, err := c.ReadUint(n, LittleEndian)
		if !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("ReadUint(%d): got %v, want ErrInvalidArgument", n, err)
		}
		var ae *ArgumentError
		if !errors.As(err, &ae) || ae.N != n {
			t.Errorf("ReadUint(%d): expected ArgumentError with N=%d, got %v", n, n, err)
		}
		if c.Position() != 0 {
			t.Errorf("ReadUint(%d) moved position to %d", n, c.Position())
		}
	}
}

func TestReadFailureLeavesPosition(t *testing.T) {
	t.Parallel()
	c := New([]byte{1, 2, 3})
	if _, err := c.ReadByte(); err != nil {
		t.Fatal(err)
	}

	_, err := c.ReadUint(4, LittleEndian)
	if !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("got %v, want ErrOutOfBounds", err)
	}
	var be *BoundsError
	if !errors.As(err, &be) {
		t.Fatalf("expected BoundsError, got %T", err)
	}
	if be.Offset != 1 || be.Want != 4 || be.Remaining != 2 {
		t.Errorf("BoundsError = %+v, want offset 1 want 4 remaining 2", *be)
	}
	if c.Position() != 1 {
		t.Errorf("Position after failed ReadUint = %d, want 1", c.Position())
	}

	// Failure is idempotent.
	if _, err := c.ReadView(3); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("ReadView(3): got %v, want ErrOutOfBounds", err)
	}
	if _, err := c.ReadView(3); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("second ReadView(3): got %v, want ErrOutOfBounds", err)
	}
	if c.Position() != 1 {
		t.Errorf("Position after failed ReadView = %d, want 1", c.Position())
	}
}

func TestReadViewNegativeLength(t *testing.T) {
	t.Parallel()
	c := New([]byte{1, 2, 3})
	c.ReadByte()

	_, err := c.ReadView(-1)
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("got %v, want ErrInvalidArgument", err)
	}
	if errors.Is(err, ErrOutOfBounds) {
		t.Error("negative length should not match ErrOutOfBounds")
	}
	var ae *ArgumentError
	if !errors.As(err, &ae) || ae.Op != "ReadView" || ae.N != -1 {
		t.Errorf("expected ArgumentError{ReadView, -1}, got %v", err)
	}
	if c.Position() != 1 {
		t.Errorf("Position after ReadView(-1) = %d, want 1", c.Position())
	}
}

func TestReadViewZeroCopy(t *testing.T) {
	t.Parallel()
	buf := []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	c := New(buf)

	offset := 0
	for _, n := range []int{1, 2, 3, 4} {
		v, err := c.ReadView(n)
		if err != nil {
			t.Fatal(err)
		}
		if len(v) != n {
			t.Errorf("len(view) = %d, want %d", len(v), n)
		}
		if &v[0] != &buf[offset] {
			t.Errorf("view of %d bytes does not alias buffer at offset %d", n, offset)
		}
		if cap(v) != n {
			t.Errorf("cap(view) = %d, want %d", cap(v), n)
		}
		offset += n
		if c.Position() != offset {
			t.Errorf("Position = %d, want %d", c.Position(), offset)
		}
	}
}

func TestReadViewZeroLength(t *testing.T) {
	t.Parallel()
	c := New([]byte{1})
	c.ReadByte()
	v, err := c.ReadView(0)
	if err != nil {
		t.Fatalf("ReadView(0) at end: %v", err)
	}
	if len(v) != 0 {
		t.Errorf("len = %d, want 0", len(v))
	}
}

func TestPositionIsSumOfReads(t *testing.T) {
	t.Parallel()
	buf := make([]byte, 64)
	c := New(buf)
	sizes := []int{1, 4, 8, 3, 2, 0, 16}
	sum := 0
	for _, s := range sizes {
		var err error
		switch {
		case s == 1:
			_, err = c.ReadByte()
		case s >= 1 && s <= 4:
			_, err = c.ReadUint(s, BigEndian)
		default:
			_, err = c.ReadView(s)
		}
		if err != nil {
			t.Fatal(err)
		}
		sum += s
		if c.Position() != sum {
			t.Fatalf("Position = %d, want %d", c.Position(), sum)
		}
	}
	if c.Remaining() != len(buf)-sum {
		t.Errorf("Remaining = %d, want %d", c.Remaining(), len(buf)-sum)
	}
}

func TestCloneIndependent(t *testing.T) {
	t.Parallel()
	c := New([]byte{1, 2, 3, 4})
	c.ReadByte()

	cl := c.Clone()
	if cl.Position() != 1 {
		t.Fatalf("clone Position = %d, want 1", cl.Position())
	}
	cl.ReadView(2)
	if c.Position() != 1 {
		t.Errorf("original moved to %d after reading clone", c.Position())
	}
	if cl.Position() != 3 {
		t.Errorf("clone Position = %d, want 3", cl.Position())
	}
}

func TestSince(t *testing.T) {
	t.Parallel()
	buf := []byte{9, 8, 7, 6, 5}
	c := New(buf)
	c.ReadView(3)

	got := c.Since(1)
	if len(got) != 2 || got[0] != 8 || got[1] != 7 {
		t.Errorf("Since(1) = %v, want [8 7]", got)
	}
	if len(c.Since(10)) != 0 {
		t.Error("Since beyond position should be empty")
	}
	if len(c.Since(-5)) != 3 {
		t.Error("Since(-5) should clamp to start")
	}
}
