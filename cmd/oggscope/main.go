package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"text/tabwriter"

	"golang.org/x/sync/errgroup"

	"github.com/zsiec/oggscope/internal/inspect"
	"github.com/zsiec/oggscope/internal/session"
)

var version = "dev"

func main() {
	level := slog.LevelInfo
	if os.Getenv("DEBUG") != "" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	var (
		format    = flag.String("format", envOr("OGGSCOPE_FORMAT", "text"), "output format: text or json")
		jobs      = flag.Int("jobs", jobsFromEnv(), "number of inputs inspected concurrently")
		maxPages  = flag.Int("max-pages", 0, "stop after this many pages per input (0 = all)")
		verify    = flag.Bool("verify", false, "verify page checksums")
		pages     = flag.Bool("pages", false, "list every page")
		keepGoing = flag.Bool("keep-going", false, "exit 0 even if an input fails to decode")
		showVer   = flag.Bool("version", false, "print version and exit")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: oggscope [flags] file.ogg... (use - for stdin)\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVer {
		fmt.Println(version)
		return
	}
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}
	if *format != "text" && *format != "json" {
		slog.Error("unknown output format", "format", *format)
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := inspect.Options{
		MaxPages:        *maxPages,
		VerifyChecksums: *verify,
		Pages:           *pages,
	}
	reports, failed := inspectAll(ctx, flag.Args(), opts, *jobs)

	var err error
	if *format == "json" {
		err = writeJSON(os.Stdout, reports)
	} else {
		err = writeText(os.Stdout, reports)
	}
	if err != nil {
		slog.Error("failed to write output", "error", err)
		os.Exit(1)
	}

	if failed > 0 && !*keepGoing {
		os.Exit(1)
	}
}

// inspectAll opens every input as its own session and inspects them
// concurrently. Reports come back in argument order; nil entries mark
// inputs that could not be read.
func inspectAll(ctx context.Context, paths []string, opts inspect.Options, jobs int) ([]*inspect.Report, int) {
	mgr := session.NewManager(nil)
	reports := make([]*inspect.Report, len(paths))
	errs := make([]error, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	if jobs > 0 {
		g.SetLimit(jobs)
	}
	for i, path := range paths {
		g.Go(func() error {
			buf, err := readSource(path)
			if err != nil {
				errs[i] = err
				slog.Error("failed to read input", "path", path, "error", err)
				return nil
			}

			s, ok := mgr.Open(path, buf)
			if !ok {
				errs[i] = fmt.Errorf("%s: given more than once", path)
				return nil
			}
			defer mgr.Close(path)

			reports[i], errs[i] = inspect.Run(ctx, s, opts)
			// Decode errors belong to one input; only cancellation stops the group.
			if errors.Is(errs[i], context.Canceled) {
				return errs[i]
			}
			return nil
		})
	}
	g.Wait()

	failed := 0
	for _, err := range errs {
		if err != nil {
			failed++
		}
	}
	return reports, failed
}

func readSource(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func writeJSON(w io.Writer, reports []*inspect.Report) error {
	out := make([]*inspect.Report, 0, len(reports))
	for _, r := range reports {
		if r != nil {
			out = append(out, r)
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeText(w io.Writer, reports []*inspect.Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, r := range reports {
		if r == nil {
			continue
		}
		fmt.Fprintf(tw, "%s: %d bytes, %d pages, %d logical streams\n", r.Key, r.Size, r.Pages, len(r.Streams))
		if r.Error != "" {
			fmt.Fprintf(tw, "  error at byte %d: %s\n", r.DecodedBytes, r.Error)
		} else if !r.Complete {
			fmt.Fprintf(tw, "  stopped at byte %d\n", r.DecodedBytes)
		}

		fmt.Fprintln(tw, "  SERIAL\tPAGES\tFIRST\tLAST\tBOS\tEOS\tPACKETS\tBYTES\tGAPS\tBAD CRC\tLAST GRANULE")
		for _, s := range r.Streams {
			fmt.Fprintf(tw, "  0x%08x\t%d\t%d\t%d\t%v\t%v\t%d\t%d\t%d\t%d\t%s\n",
				s.Serial, s.Pages, s.FirstPage, s.LastPage, s.BOS, s.EOS,
				s.Packets, s.PayloadBytes, s.SequenceGaps, s.ChecksumFailures, s.LastGranule)
		}

		if len(r.PageRows) > 0 {
			fmt.Fprintln(tw, "\n  PAGE\tOFFSET\tSERIAL\tSEQ\tFLAGS\tSEGS\tBYTES\tGRANULE\tCRC")
			for _, p := range r.PageRows {
				crc := fmt.Sprintf("%08x", p.Checksum)
				if p.ChecksumOK != nil && !*p.ChecksumOK {
					crc += " (bad)"
				}
				fmt.Fprintf(tw, "  %d\t%d\t0x%08x\t%d\t%s\t%d\t%d\t%s\t%s\n",
					p.Index, p.Offset, p.Serial, p.Sequence, p.Flags, p.Segments, p.PayloadBytes, p.Granule, crc)
			}
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

const defaultJobs = 4

// jobsFromEnv reads OGGSCOPE_JOBS. Values that are not a positive integer
// are logged and replaced by defaultJobs.
func jobsFromEnv() int {
	v := os.Getenv("OGGSCOPE_JOBS")
	if v == "" {
		return defaultJobs
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		slog.Warn("ignoring invalid OGGSCOPE_JOBS", "value", v, "default", defaultJobs)
		return defaultJobs
	}
	return n
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
