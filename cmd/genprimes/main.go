// Command genprimes builds a prime table covering an upper bound, persists
// it, and optionally snapshots and verifies it.
//
// Usage:
//
//	genprimes -max 0xFFFF -dir ./tables -threads 8 -snapshot -codec zstd
//
// The table lands in <dir>/primes_up_to_<max> as raw big-endian records;
// -snapshot writes a compressed, checksummed sibling next to it. -verify
// re-factors every value up to the bound against the finished table, which
// is slow for large bounds but proves the table is gapless.
package main

import (
	"errors"
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/arloliu/primepack/format"
	"github.com/arloliu/primepack/prime"
)

func main() {
	maxArg := flag.String("max", "0xFFFF", "Largest prime to index, decimal or 0x-prefixed hex")
	threads := flag.Int("threads", 0, "Sieve and verify workers (0 = all CPUs)")
	dir := flag.String("dir", "tables", "Directory for table files")
	rangeSize := flag.Uint64("range-size", 0, "Candidates per sieve shard (0 = default)")
	timeout := flag.Duration("timeout", 0, "Per-shard receive timeout (0 = default)")
	snapshot := flag.Bool("snapshot", false, "Also write a compressed snapshot")
	codecArg := flag.String("codec", "zstd", "Snapshot codec: none, zstd, s2 or lz4")
	verify := flag.Bool("verify", false, "Re-factor every value up to the bound")
	verbose := flag.Bool("verbose", false, "Development logging with debug output")

	flag.Parse()

	bound, err := parseUint32(*maxArg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: -max: %v\n", err)
		os.Exit(1)
	}
	if bound < 2 {
		fmt.Fprintf(os.Stderr, "Error: -max must be at least 2\n")
		os.Exit(1)
	}
	if *threads < 0 {
		fmt.Fprintf(os.Stderr, "Error: -threads cannot be negative\n")
		os.Exit(1)
	}
	if *rangeSize > math.MaxUint32 {
		fmt.Fprintf(os.Stderr, "Error: -range-size does not fit in 32 bits\n")
		os.Exit(1)
	}
	codec, err := parseCodec(*codecArg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: -codec: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(*verbose)
	defer func() { _ = logger.Sync() }()

	store, err := prime.NewStore(*dir, prime.WithStoreLogger(logger))
	if err != nil {
		logger.Fatal("open table store", zap.Error(err))
	}

	genOpts := []prime.GeneratorOption{prime.WithLogger(logger)}
	if *threads > 0 {
		genOpts = append(genOpts, prime.WithWorkers(*threads))
	}
	if *rangeSize > 0 {
		genOpts = append(genOpts, prime.WithRangeSize(uint32(*rangeSize)))
	}
	if *timeout > 0 {
		genOpts = append(genOpts, prime.WithRecvTimeout(*timeout))
	}
	gen, err := prime.NewGenerator(genOpts...)
	if err != nil {
		logger.Fatal("configure generator", zap.Error(err))
	}

	start := time.Now()
	table, err := store.Ensure(bound, gen)
	if err != nil {
		logger.Fatal("acquire prime table", zap.Error(err))
	}
	logger.Info("prime table ready",
		zap.Uint32("upper_bound", bound),
		zap.Int("primes", table.Len()),
		zap.Uint32("largest", table.Last()),
		zap.String("path", store.Path(bound)),
		zap.Duration("elapsed", time.Since(start)),
	)

	if *snapshot {
		opts := []prime.SnapshotOption{prime.WithSnapshotCompression(codec)}
		if err := store.WriteSnapshot(table, bound, opts...); err != nil {
			logger.Fatal("write snapshot", zap.Error(err))
		}
		logger.Info("snapshot written",
			zap.String("path", store.SnapshotPath(bound)),
			zap.Stringer("codec", codec),
		)
	}

	if *verify {
		verifyOpts := []prime.VerifyOption{prime.WithVerifyLogger(logger)}
		if *threads > 0 {
			verifyOpts = append(verifyOpts, prime.WithVerifyWorkers(*threads))
		}

		start = time.Now()
		if err := prime.VerifyFactorAll(table, bound, verifyOpts...); err != nil {
			logger.Fatal("table verification failed", zap.Error(err))
		}
		logger.Info("table verified",
			zap.Uint32("upper_bound", bound),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
}

// parseUint32 accepts decimal or 0x-prefixed hex.
func parseUint32(s string) (uint32, error) {
	s = strings.TrimSpace(s)

	base := 10
	digits := s
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		base = 16
		digits = s[2:]
	}

	v, err := strconv.ParseUint(digits, base, 32)
	if err != nil {
		return 0, err
	}

	return uint32(v), nil
}

func parseCodec(s string) (format.CompressionType, error) {
	switch strings.ToLower(s) {
	case "none":
		return format.CompressionNone, nil
	case "zstd":
		return format.CompressionZstd, nil
	case "s2":
		return format.CompressionS2, nil
	case "lz4":
		return format.CompressionLZ4, nil
	default:
		return 0, errors.New("must be one of none, zstd, s2, lz4")
	}
}

func newLogger(verbose bool) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: create logger: %v\n", err)
		os.Exit(1)
	}

	return logger
}
