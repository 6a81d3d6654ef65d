package ogg

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/elliotchance/orderedmap/v3"

	"github.com/zsiec/oggscope/internal/cursor"
)

// Index decodes pages from a buffer on demand and groups them by serial
// number. Pages are decoded strictly in order from a single cursor, so
// requesting page n decodes every page before it first. An Index is not
// safe for concurrent use.
type Index struct {
	log     *slog.Logger
	cur     *cursor.Cursor
	pages   []*Page
	streams *orderedmap.OrderedMap[uint32, []*Page]
}

// NewIndex creates an Index over buf. No pages are decoded until asked for.
func NewIndex(buf []byte, opts ...func(*Index)) *Index {
	x := &Index{
		cur:     cursor.New(buf),
		streams: orderedmap.NewOrderedMap[uint32, []*Page](),
	}
	for _, opt := range opts {
		opt(x)
	}
	if x.log == nil {
		x.log = slog.Default()
	}
	x.log = x.log.With("component", "ogg-index")
	return x
}

// IndexOptLogger sets the logger used for decode diagnostics.
func IndexOptLogger(log *slog.Logger) func(*Index) {
	return func(x *Index) {
		x.log = log
	}
}

// EnsureLoaded decodes forward until page i is loaded or the buffer is
// exhausted. Pages decoded before a failure stay loaded; the failing page
// is not recorded and the cursor stays at its start.
func (x *Index) EnsureLoaded(i int) error {
	for len(x.pages) <= i && x.cur.HasMore() {
		if err := x.loadNext(); err != nil {
			return err
		}
	}
	return nil
}

// loadNext decodes one page and records it in both the page list and its
// stream group. Decode leaves the cursor untouched on failure.
func (x *Index) loadNext() error {
	p, err := Decode(x.cur, len(x.pages))
	if err != nil {
		x.log.Warn("page decode failed",
			"index", len(x.pages),
			"offset", x.cur.Position(),
			"error", err,
		)
		return err
	}

	group, _ := x.streams.Get(p.SerialNumber)
	x.streams.Set(p.SerialNumber, append(group, p))
	x.pages = append(x.pages, p)

	x.log.Debug("page decoded",
		"index", p.Index,
		"serial", p.SerialNumber,
		"sequence", p.SequenceNumber,
		"offset", p.Offset,
		"size", p.Size(),
	)
	return nil
}

// Page returns page i, decoding up to it if needed. It returns
// ErrNotFound if the buffer holds fewer than i+1 pages.
func (x *Index) Page(i int) (*Page, error) {
	if i < 0 {
		return nil, fmt.Errorf("%w: index %d", ErrNotFound, i)
	}
	if err := x.EnsureLoaded(i); err != nil {
		return nil, err
	}
	if i >= len(x.pages) {
		return nil, fmt.Errorf("%w: index %d, buffer holds %d pages", ErrNotFound, i, len(x.pages))
	}
	return x.pages[i], nil
}

// LoadAll decodes every remaining page.
func (x *Index) LoadAll() error {
	for x.cur.HasMore() {
		if err := x.EnsureLoaded(len(x.pages)); err != nil {
			return err
		}
	}
	return nil
}

// Stream returns the loaded pages with the given serial number in decode
// order. It only sees pages decoded so far; call LoadAll first for the
// complete logical bitstream.
func (x *Index) Stream(serial uint32) []*Page {
	group, _ := x.streams.Get(serial)
	return slices.Clone(group)
}

// Serials returns the serial numbers seen so far in order of first
// appearance.
func (x *Index) Serials() []uint32 {
	return slices.Collect(x.streams.Keys())
}

// Len returns the number of pages decoded so far.
func (x *Index) Len() int {
	return len(x.pages)
}

// Pages returns a snapshot of the pages decoded so far.
func (x *Index) Pages() []*Page {
	return slices.Clone(x.pages)
}

// Exhausted reports whether every byte of the buffer has been decoded.
func (x *Index) Exhausted() bool {
	return !x.cur.HasMore()
}

// Position returns the offset of the first byte not yet decoded.
func (x *Index) Position() int {
	return x.cur.Position()
}

// Size returns the length of the underlying buffer.
func (x *Index) Size() int {
	return x.cur.Len()
}
