package prime

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"go.uber.org/zap"

	"github.com/arloliu/primepack/errs"
	"github.com/arloliu/primepack/internal/options"
)

// verifyProgressInterval is how many candidates a worker factors between
// progress log lines.
const verifyProgressInterval = 10_000_000

type verifyConfig struct {
	workers int
	logger  *zap.Logger
}

// VerifyOption configures VerifyFactorAll.
type VerifyOption = options.Option[*verifyConfig]

// WithVerifyWorkers sets the number of verification goroutines.
// The default is runtime.NumCPU().
func WithVerifyWorkers(n int) VerifyOption {
	return options.New(func(cfg *verifyConfig) error {
		if n <= 0 {
			return fmt.Errorf("worker count must be positive, got %d", n)
		}
		cfg.workers = n
		return nil
	})
}

// WithVerifyLogger sets the logger for verification progress. The default
// discards all output.
func WithVerifyLogger(logger *zap.Logger) VerifyOption {
	return options.New(func(cfg *verifyConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	})
}

// VerifyFactorAll factors every value in [2, biggest] against the table and
// checks that the factor primes multiply back to the value. The interval is
// split into one contiguous shard per worker.
//
// It exists to validate freshly generated tables: any table defect shows up
// as a factorization that fails or reproduces the wrong product. The
// interval should not exceed the table's generation bound, since primes past
// the bound are not indexed and fail verification.
//
// Returns:
//   - error: The failure from the lowest-range worker that hit one, nil when
//     every value in the interval factors cleanly
func VerifyFactorAll(table *Table, biggest uint32, opts ...VerifyOption) error {
	cfg := verifyConfig{
		workers: runtime.NumCPU(),
		logger:  zap.NewNop(),
	}
	if err := options.Apply(&cfg, opts...); err != nil {
		return err
	}
	if biggest < 2 {
		return nil
	}

	ranges := shardRanges(2, biggest, cfg.workers)

	failures := make([]error, len(ranges))
	var wg sync.WaitGroup
	for i, r := range ranges {
		wg.Add(1)
		go func(id int, r Range) {
			defer wg.Done()
			failures[id] = verifyRange(table, id, r, cfg.logger)
		}(i, r)
	}
	wg.Wait()

	for _, err := range failures {
		if err != nil {
			return err
		}
	}

	return nil
}

func verifyRange(table *Table, id int, r Range, logger *zap.Logger) error {
	if r.Upper < r.Lower {
		return nil
	}

	span := float64(r.Upper - r.Lower)
	for k := r.Lower; ; k++ {
		if k%verifyProgressInterval == 0 && span > 0 {
			logger.Info("factor verification progress",
				zap.Int("worker", id),
				zap.Uint32("at", k),
				zap.Float64("pct_left", 100*float64(r.Upper-k)/span),
			)
		}

		indices, err := table.Factor(k)
		if err != nil {
			return fmt.Errorf("factor %d: %w", k, err)
		}
		product, err := table.Compose(indices)
		if err != nil {
			return fmt.Errorf("compose factors of %d: %w", k, err)
		}
		if product != k {
			return fmt.Errorf("%w: factors of %d multiply to %d", errs.ErrFactorInternal, k, product)
		}

		if k == r.Upper {
			return nil
		}
	}
}
