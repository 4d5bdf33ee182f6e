// Command factorrand measures how well random integers compress through
// prime factorization.
//
// Usage:
//
//	factorrand -max 0xFFFF -samples 50000 -seed 42 -dir ./tables
//
// It builds or loads a prime table covering -max, then samples uniform
// values from [2, max], factors and encodes each one, and reports the
// compression statistics. Two inspection modes replace the sampling run:
//
//	factorrand -n 360       factor and encode one value, print the breakdown
//	factorrand -stats       print the index/prime ratio by prime magnitude
//
// Large -max values are expensive: the table indexes every prime up to the
// bound so that primes themselves stay compressible.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/arloliu/primepack/encoding"
	"github.com/arloliu/primepack/experiment"
	"github.com/arloliu/primepack/prime"
)

func main() {
	maxArg := flag.String("max", "0xFFFF", "Top of the sampling domain, decimal or 0x-prefixed hex")
	samples := flag.Int("samples", 10000, "Number of values to sample")
	seed := flag.Uint64("seed", 0x5EEDCAFE, "PRNG seed for reproducible sampling")
	numArg := flag.String("n", "", "Factor and encode a single value instead of sampling")
	stats := flag.Bool("stats", false, "Print the index/prime compression ratios instead of sampling")
	dir := flag.String("dir", "tables", "Directory for table files")
	threads := flag.Int("threads", 0, "Sieve workers for table generation (0 = all CPUs)")
	verbose := flag.Bool("verbose", false, "Development logging with debug output")

	flag.Parse()

	maxValue, err := parseUint32(*maxArg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: -max: %v\n", err)
		os.Exit(1)
	}
	if maxValue < 2 {
		fmt.Fprintf(os.Stderr, "Error: -max must be at least 2\n")
		os.Exit(1)
	}
	if *samples <= 0 {
		fmt.Fprintf(os.Stderr, "Error: -samples must be positive\n")
		os.Exit(1)
	}

	logger := newLogger(*verbose)
	defer func() { _ = logger.Sync() }()

	table := loadTable(logger, *dir, maxValue, *threads)

	switch {
	case *numArg != "":
		n, err := parseUint32(*numArg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: -n: %v\n", err)
			os.Exit(1)
		}
		if err := factorOne(table, n); err != nil {
			logger.Fatal("factor value", zap.Uint32("value", n), zap.Error(err))
		}
	case *stats:
		printIndexRatios(table)
	default:
		runner, err := experiment.NewRunner(table,
			experiment.WithSamples(*samples),
			experiment.WithSeed(*seed),
			experiment.WithRunnerLogger(logger),
		)
		if err != nil {
			logger.Fatal("configure experiment", zap.Error(err))
		}

		report, err := runner.Run(maxValue)
		if err != nil {
			logger.Fatal("experiment aborted", zap.Error(err))
		}
		printReport(report)
	}
}

// loadTable reads the persisted table for bound or generates and saves it.
func loadTable(logger *zap.Logger, dir string, bound uint32, threads int) *prime.Table {
	store, err := prime.NewStore(dir, prime.WithStoreLogger(logger))
	if err != nil {
		logger.Fatal("open table store", zap.Error(err))
	}

	genOpts := []prime.GeneratorOption{prime.WithLogger(logger)}
	if threads > 0 {
		genOpts = append(genOpts, prime.WithWorkers(threads))
	}
	gen, err := prime.NewGenerator(genOpts...)
	if err != nil {
		logger.Fatal("configure generator", zap.Error(err))
	}

	table, err := store.Ensure(bound, gen)
	if err != nil {
		logger.Fatal("acquire prime table", zap.Error(err))
	}

	return table
}

// factorOne prints the full compression breakdown of a single value.
func factorOne(table *prime.Table, n uint32) error {
	indices, err := table.Factor(n)
	if err != nil {
		return err
	}

	runs := encoding.RunLengths(indices)
	var powers strings.Builder
	for i, run := range runs {
		if i > 0 {
			powers.WriteString(" * ")
		}
		p := table.At(int(run.Index))
		if run.Exp == 1 {
			fmt.Fprintf(&powers, "%d", p)
		} else {
			fmt.Fprintf(&powers, "%d^%d", p, run.Exp)
		}
	}

	bits := encoding.EncodeFactors(indices)

	fmt.Printf("%d = %s\n", n, powers.String())
	fmt.Printf("indices:  %v\n", indices)
	fmt.Printf("encoding: %s\n", encoding.FormatFactorEncoding(indices))
	fmt.Printf("size:     %d bits, %.3fx of raw\n", bits.Len(), float64(bits.Len())/32)

	return nil
}

// printIndexRatios shows how much smaller an index is than the prime it
// stands for, averaged per power-of-two magnitude.
func printIndexRatios(table *prime.Table) {
	fmt.Printf("mean index/prime ratio across %d primes:\n", table.Len())
	for k, mean := range table.IndexRatioHistogram(0, table.Len()) {
		if mean == 0 {
			continue
		}
		fmt.Printf("  primes near 2^%-2d  %.6f\n", k, mean)
	}
}

func printReport(report *experiment.Report) {
	fmt.Printf("run %s: %d samples in [2, %d]\n", report.RunID, report.Samples, report.MaxValue)
	fmt.Printf("compressed %d/%d (%.1f%%), mean size ratio %.3f\n",
		report.Compressions, report.Samples,
		report.CompressionRate()*100, report.MeanSizeRatio())
	fmt.Printf("expected factors %.2f, prime powers %.2f, exponent %.2f\n",
		report.FactorCount.ExpectedValue(),
		report.RunCount.ExpectedValue(),
		report.Exponents.ExpectedValue())
	if report.Trend != nil {
		fmt.Printf("fit: %s\n", report.Trend)
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
