package prime

import (
	"errors"
	"fmt"
	"math"
	"runtime"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/arloliu/primepack/errs"
	"github.com/arloliu/primepack/internal/options"
)

const (
	// defaultRangeSize is the candidate count one shard aims to hold.
	defaultRangeSize = 1_000_000
	// defaultMinRangesPerWorker keeps shards small enough that workers
	// finish at similar times even when candidate density is uneven.
	defaultMinRangesPerWorker = 10
	// defaultRecvTimeout bounds the wait for any single shard result.
	defaultRecvTimeout = 100 * time.Second
)

// Range is a closed interval of candidates assigned to one worker.
type Range struct {
	Lower uint32
	Upper uint32
}

// shardRanges splits the closed interval [lo, hi] into the given number of
// contiguous closed ranges of near-equal width. The split points follow the
// same proportional float arithmetic on every call, so consecutive ranges
// tile the interval exactly and the last range always ends at hi.
//
// When the interval holds fewer candidates than chunks, the surplus ranges
// come out inverted (Upper < Lower) and denote zero candidates.
func shardRanges(lo, hi uint32, chunks int) []Range {
	ranges := make([]Range, 0, chunks)
	total := float64(hi - lo)
	for i := range chunks {
		lower := float64(lo) + float64(i)*total/float64(chunks)
		upper := hi
		if i != chunks-1 {
			nextLower := float64(lo) + float64(i+1)*total/float64(chunks)
			upper = uint32(nextLower) - 1
		}
		ranges = append(ranges, Range{Lower: uint32(lower), Upper: upper})
	}

	return ranges
}

// rangeWidth returns the candidate count of r, zero for inverted ranges.
func rangeWidth(r Range) uint64 {
	if r.Upper < r.Lower {
		return 0
	}
	return uint64(r.Upper-r.Lower) + 1
}

type generatorConfig struct {
	workers            int
	rangeSize          uint32
	minRangesPerWorker int
	recvTimeout        time.Duration
	logger             *zap.Logger
}

// GeneratorOption configures a Generator.
type GeneratorOption = options.Option[*generatorConfig]

// WithWorkers sets the number of generation goroutines.
// The default is runtime.NumCPU().
func WithWorkers(n int) GeneratorOption {
	return options.New(func(cfg *generatorConfig) error {
		if n <= 0 {
			return fmt.Errorf("worker count must be positive, got %d", n)
		}
		cfg.workers = n
		return nil
	})
}

// WithRangeSize sets the candidate count one shard aims to hold.
// Larger shards mean fewer channel handoffs, smaller shards smooth out
// load imbalance. The default is 1,000,000.
func WithRangeSize(n uint32) GeneratorOption {
	return options.New(func(cfg *generatorConfig) error {
		if n == 0 {
			return errors.New("range size must be positive")
		}
		cfg.rangeSize = n
		return nil
	})
}

// WithMinRangesPerWorker sets the minimum shard count per worker,
// applied when the candidate interval is too small to fill the
// configured range size. The default is 10.
func WithMinRangesPerWorker(n int) GeneratorOption {
	return options.New(func(cfg *generatorConfig) error {
		if n <= 0 {
			return fmt.Errorf("minimum ranges per worker must be positive, got %d", n)
		}
		cfg.minRangesPerWorker = n
		return nil
	})
}

// WithRecvTimeout sets how long Calc waits for any single shard result
// before giving up with errs.ErrWorkerTimeout. The default is 100 seconds.
func WithRecvTimeout(d time.Duration) GeneratorOption {
	return options.New(func(cfg *generatorConfig) error {
		if d <= 0 {
			return errors.New("receive timeout must be positive")
		}
		cfg.recvTimeout = d
		return nil
	})
}

// WithLogger sets the logger for generation progress. The default
// discards all output.
func WithLogger(logger *zap.Logger) GeneratorOption {
	return options.New(func(cfg *generatorConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	})
}

// Generator produces complete prime tables using parallel trial division.
//
// Generation runs in two phases. A sequential phase builds the base table
// up to sqrt(n)+1, which is enough to certify any candidate up to n. The
// parallel phase then shards (sqrt(n), n] across workers, each sieving its
// shards against the base table, and merges results in shard order so the
// final table stays ascending.
//
// A Generator is stateless apart from its configuration and safe for
// concurrent use.
type Generator struct {
	cfg generatorConfig
}

// NewGenerator creates a Generator with the given options.
func NewGenerator(opts ...GeneratorOption) (*Generator, error) {
	cfg := generatorConfig{
		workers:            runtime.NumCPU(),
		rangeSize:          defaultRangeSize,
		minRangesPerWorker: defaultMinRangesPerWorker,
		recvTimeout:        defaultRecvTimeout,
		logger:             zap.NewNop(),
	}
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	return &Generator{cfg: cfg}, nil
}

// shardResult carries one sieved shard from a worker to the merger.
type shardResult struct {
	primes []uint32
	err    error
}

// Calc generates the full prime table covering [2, n].
//
// Very small bounds are served straight from the base phase; they can
// cover slightly more than n, never less.
//
// Returns:
//   - *Table: Ascending primes from 2 through the largest prime <= n
//   - error: Wrapped errs.ErrWorkerTimeout when a shard result does not
//     arrive in time, or errs.ErrShardOrder when merged shards would break
//     the ascending order
func (g *Generator) Calc(n uint32) (*Table, error) {
	baseBound := uint32(math.Sqrt(float64(n))) + 1
	base, err := GenUpTo(baseBound)
	if err != nil {
		return nil, err
	}
	lastBase := base.Last()

	if uint64(baseBound)+1 > uint64(n) {
		return base, nil
	}

	workers := g.cfg.workers
	span := int64(n) - int64(lastBase)
	if span < 0 {
		span = 0
	}
	perWorker := int(span / (int64(workers) * int64(g.cfg.rangeSize)))
	if perWorker < g.cfg.minRangesPerWorker {
		perWorker = g.cfg.minRangesPerWorker
	}

	g.cfg.logger.Info("parallel prime generation",
		zap.Uint32("upper_bound", n),
		zap.Uint32("base_bound", baseBound),
		zap.Int("base_primes", base.Len()),
		zap.Uint32("last_base_prime", lastBase),
		zap.Int("workers", workers),
		zap.Int("ranges_per_worker", perWorker),
	)

	shards := shardRanges(baseBound+1, n, workers*perWorker)

	// Shard w+workers*k goes to worker w, so receiving workers in order
	// for each round k reassembles the interval in ascending order.
	assigned := make([][]Range, workers)
	candidates := uint64(0)
	for w := range workers {
		rs := make([]Range, 0, perWorker)
		for k := range perWorker {
			r := shards[w+workers*k]
			rs = append(rs, r)
			candidates += rangeWidth(r)
		}
		assigned[w] = rs
	}
	if candidates != uint64(n)-uint64(baseBound) {
		panic("prime: sharded ranges do not tile the candidate interval")
	}

	results := make([]chan shardResult, workers)
	var wg sync.WaitGroup
	for w := range workers {
		// Buffered for every shard, so workers never block on a slow merge.
		results[w] = make(chan shardResult, perWorker)
		wg.Add(1)
		go func(id int, ranges []Range, out chan<- shardResult) {
			defer wg.Done()
			for _, r := range ranges {
				primes, err := base.GenRange(baseBound, r.Lower, r.Upper)
				if err != nil {
					out <- shardResult{err: fmt.Errorf("worker %d sieving [%d, %d]: %w", id, r.Lower, r.Upper, err)}
					return
				}
				g.cfg.logger.Debug("shard sieved",
					zap.Int("worker", id),
					zap.Uint32("lower", r.Lower),
					zap.Uint32("upper", r.Upper),
					zap.Int("primes", len(primes)),
				)
				out <- shardResult{primes: primes}
			}
		}(w, assigned[w], results[w])
	}

	// Rough prime-counting estimate so the merge rarely reallocates.
	capacity := base.Len() + int(float64(n-baseBound)/math.Log(float64(n)))
	merged := make([]uint32, 0, capacity)
	merged = append(merged, base.primes...)

	for k := range perWorker {
		for w := range workers {
			select {
			case res := <-results[w]:
				if res.err != nil {
					return nil, res.err
				}
				if len(res.primes) == 0 {
					continue
				}
				if last := merged[len(merged)-1]; res.primes[0] <= last {
					return nil, fmt.Errorf("%w: round %d worker %d starts at %d but the table already ends at %d",
						errs.ErrShardOrder, k, w, res.primes[0], last)
				}
				merged = append(merged, res.primes...)
			case <-time.After(g.cfg.recvTimeout):
				return nil, fmt.Errorf("%w: no result from worker %d in round %d within %s",
					errs.ErrWorkerTimeout, w, k, g.cfg.recvTimeout)
			}
		}
	}

	wg.Wait()

	g.cfg.logger.Info("prime table generated",
		zap.Uint32("upper_bound", n),
		zap.Int("count", len(merged)),
		zap.Uint32("last_prime", merged[len(merged)-1]),
	)

	return newTableOwned(merged), nil
}
