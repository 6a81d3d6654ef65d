// gen-ogg writes a synthetic multiplexed Ogg file for exercising oggscope
// and the demux-split example. Streams are interleaved round-robin; payload
// bytes are filler, not real codec data.
//
// Usage:
//
//	go run ./test/tools/gen-ogg -streams 3 -pages 20 -out muxed.ogg
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"

	"github.com/zsiec/oggscope/internal/ogg"
	"github.com/zsiec/oggscope/internal/oggtest"
)

func main() {
	var (
		streams = flag.Int("streams", 2, "number of logical bitstreams")
		pages   = flag.Int("pages", 10, "pages per bitstream")
		maxPkt  = flag.Int("max-packet", 1500, "largest packet size in bytes")
		out     = flag.String("out", "synthetic.ogg", "output file")
		seed    = flag.Int64("seed", 1, "random seed")
		corrupt = flag.Bool("corrupt-tail", false, "truncate the final page")
	)
	flag.Parse()

	if *streams < 1 || *pages < 1 || *maxPkt < 1 {
		fatal("streams, pages and max-packet must be positive")
	}
	// Three packets of this size must fit in one 255-entry segment table.
	if *maxPkt > 20000 {
		fatal("max-packet must be at most 20000")
	}

	rng := rand.New(rand.NewSource(*seed))
	serials := make([]uint32, *streams)
	granules := make([]uint64, *streams)
	for i := range serials {
		serials[i] = rng.Uint32()
	}

	var specs []oggtest.PageSpec
	for seq := 0; seq < *pages; seq++ {
		for i, serial := range serials {
			var flags byte
			if seq == 0 {
				flags |= ogg.FlagBOS
			}
			if seq == *pages-1 {
				flags |= ogg.FlagEOS
			}

			var pkts [][]byte
			for n := 1 + rng.Intn(3); n > 0; n-- {
				pkts = append(pkts, oggtest.Fill(1+rng.Intn(*maxPkt), byte(rng.Intn(256))))
			}
			granules[i] += uint64(960 * len(pkts))

			specs = append(specs, oggtest.PageSpec{
				Flags:    flags,
				Granule:  granules[i],
				Serial:   serial,
				Sequence: uint32(seq),
				Packets:  pkts,
			})
		}
	}

	data := oggtest.Concat(specs...)
	if *corrupt {
		data = data[:len(data)-1]
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		fatal("write: %v", err)
	}
	fmt.Printf("wrote %s: %d pages, %d streams, %d bytes\n", *out, len(specs), len(serials), len(data))
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
