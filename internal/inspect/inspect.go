// Package inspect walks an opened Ogg session page by page and summarizes
// it per logical bitstream. Walking is incremental, so a cancelled context
// or a page limit stops decoding early.
package inspect

import (
	"context"
	"encoding/hex"
	"errors"
	"log/slog"
	"time"

	"github.com/zsiec/oggscope/internal/ogg"
	"github.com/zsiec/oggscope/internal/session"
)

// Options controls how much of a source is decoded and reported.
type Options struct {
	MaxPages        int  // stop after this many pages; 0 means all
	VerifyChecksums bool // recompute each page checksum
	Pages           bool // include a row per page in the report
	Logger          *slog.Logger
}

// StreamReport summarizes one logical bitstream.
type StreamReport struct {
	Serial           uint32 `json:"serial"`
	Pages            int    `json:"pages"`
	FirstPage        int    `json:"firstPage"`
	LastPage         int    `json:"lastPage"`
	BOS              bool   `json:"bos"`
	EOS              bool   `json:"eos"`
	PayloadBytes     int64  `json:"payloadBytes"`
	Packets          int    `json:"packets"`
	SequenceGaps     int    `json:"sequenceGaps"`
	ChecksumFailures int    `json:"checksumFailures,omitempty"`
	FirstGranule     string `json:"firstGranule"`
	LastGranule      string `json:"lastGranule"`
}

// PageRow describes a single page.
type PageRow struct {
	Index        int    `json:"index"`
	Offset       int    `json:"offset"`
	Serial       uint32 `json:"serial"`
	Sequence     uint32 `json:"sequence"`
	Flags        string `json:"flags"`
	Segments     int    `json:"segments"`
	PayloadBytes int    `json:"payloadBytes"`
	Granule      string `json:"granule"`
	Checksum     uint32 `json:"checksum"`
	ChecksumOK   *bool  `json:"checksumOk,omitempty"`
}

// Report is the JSON-serializable result of inspecting one source.
type Report struct {
	Key          string         `json:"key"`
	Size         int            `json:"size"`
	Pages        int            `json:"pages"`
	DecodedBytes int            `json:"decodedBytes"`
	Complete     bool           `json:"complete"`
	Streams      []StreamReport `json:"streams"`
	PageRows     []PageRow      `json:"pageRows,omitempty"`
	Error        string         `json:"error,omitempty"`
	DurationMs   int64          `json:"durationMs"`
}

// Run decodes s according to opts and builds its report. If decoding
// stops on an error, the report still covers every page decoded before it
// and the error is returned alongside.
func Run(ctx context.Context, s *session.Session, opts Options) (*Report, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	log = log.With("component", "inspect", "source", s.Key)

	start := time.Now()
	r := &Report{Key: s.Key, Size: s.Size}

	var walkErr error
	s.Do(func(x *ogg.Index) error {
		walkErr = walk(ctx, x, opts.MaxPages)
		r.build(x, opts)
		return nil
	})
	r.DurationMs = time.Since(start).Milliseconds()

	if walkErr != nil {
		r.Error = walkErr.Error()
		if errors.Is(walkErr, context.Canceled) || errors.Is(walkErr, context.DeadlineExceeded) {
			log.Info("inspection cancelled", "pages", r.Pages)
		} else {
			log.Warn("inspection stopped on decode error", "pages", r.Pages, "error", walkErr)
		}
		return r, walkErr
	}

	log.Info("inspection finished",
		"pages", r.Pages,
		"streams", len(r.Streams),
		"complete", r.Complete,
		"duration_ms", r.DurationMs,
	)
	return r, nil
}

// walk requests one page at a time so cancellation is checked between
// pages rather than after the whole buffer.
func walk(ctx context.Context, x *ogg.Index, maxPages int) error {
	for i := 0; maxPages <= 0 || i < maxPages; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := x.EnsureLoaded(i); err != nil {
			return err
		}
		if i >= x.Len() {
			return nil
		}
	}
	return nil
}

func (r *Report) build(x *ogg.Index, opts Options) {
	r.Pages = x.Len()
	r.DecodedBytes = x.Position()
	r.Complete = x.Exhausted()

	var failed map[int]bool
	if opts.VerifyChecksums {
		failed = make(map[int]bool)
		for _, p := range x.Pages() {
			if p.VerifyChecksum() != nil {
				failed[p.Index] = true
			}
		}
	}

	for _, serial := range x.Serials() {
		r.Streams = append(r.Streams, summarize(serial, x.Stream(serial), failed))
	}

	if opts.Pages {
		for _, p := range x.Pages() {
			row := PageRow{
				Index:        p.Index,
				Offset:       p.Offset,
				Serial:       p.SerialNumber,
				Sequence:     p.SequenceNumber,
				Flags:        FlagString(p),
				Segments:     p.SegmentCount(),
				PayloadBytes: p.PayloadSize(),
				Granule:      hex.EncodeToString(p.GranulePosition),
				Checksum:     p.Checksum,
			}
			if failed != nil {
				ok := !failed[p.Index]
				row.ChecksumOK = &ok
			}
			r.PageRows = append(r.PageRows, row)
		}
	}
}

func summarize(serial uint32, pages []*ogg.Page, failed map[int]bool) StreamReport {
	first, last := pages[0], pages[len(pages)-1]
	sr := StreamReport{
		Serial:       serial,
		Pages:        len(pages),
		FirstPage:    first.Index,
		LastPage:     last.Index,
		BOS:          first.BOS,
		EOS:          last.EOS,
		FirstGranule: hex.EncodeToString(first.GranulePosition),
		LastGranule:  hex.EncodeToString(last.GranulePosition),
	}
	for i, p := range pages {
		sr.PayloadBytes += int64(p.PayloadSize())
		sr.Packets += len(p.PacketLengths())
		if i > 0 && p.SequenceNumber != pages[i-1].SequenceNumber+1 {
			sr.SequenceGaps++
		}
		if failed[p.Index] {
			sr.ChecksumFailures++
		}
	}
	return sr
}

// FlagString renders the header flags as three characters: c for
// continued, b for beginning of stream, e for end of stream, with '-'
// for unset bits.
func FlagString(p *ogg.Page) string {
	b := []byte("---")
	if p.Continued {
		b[0] = 'c'
	}
	if p.BOS {
		b[1] = 'b'
	}
	if p.EOS {
		b[2] = 'e'
	}
	return string(b)
}
