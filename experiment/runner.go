package experiment

import (
	"errors"
	"fmt"
	"math"
	mathbits "math/bits"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arloliu/primepack/encoding"
	"github.com/arloliu/primepack/internal/options"
	"github.com/arloliu/primepack/prime"
)

const (
	defaultSamples = 10000
	// defaultSeed makes unseeded runs reproducible; pass WithSeed to vary.
	defaultSeed = 0x5EED_CAFE

	// sizeRatioDivisor scales the encoded/raw size ratio into tenths, so
	// bucket 10 is break-even and anything below it is compression.
	sizeRatioDivisor = 10
	sizeRatioBuckets = 100

	// factorHistBuckets covers the worst factor count (2^31 has 31 factors)
	// and the worst exponent and index magnitude, all below 32.
	factorHistBuckets = 32

	// rawValueBits is the size every sample would occupy unencoded.
	rawValueBits = 32
)

type runnerConfig struct {
	samples int
	seed    uint64
	logger  *zap.Logger
}

// RunnerOption configures a Runner.
type RunnerOption = options.Option[*runnerConfig]

// WithSamples sets how many random values a run draws. The default is 10000.
func WithSamples(n int) RunnerOption {
	return options.New(func(cfg *runnerConfig) error {
		if n <= 0 {
			return fmt.Errorf("sample count must be positive, got %d", n)
		}
		cfg.samples = n
		return nil
	})
}

// WithSeed sets the sampling seed. Runs with the same seed, sample count
// and domain draw identical values.
func WithSeed(seed uint64) RunnerOption {
	return options.NoError(func(cfg *runnerConfig) {
		cfg.seed = seed
	})
}

// WithRunnerLogger sets the logger for per-sample and report output.
// The default discards all output.
func WithRunnerLogger(logger *zap.Logger) RunnerOption {
	return options.New(func(cfg *runnerConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	})
}

// Runner measures how factor encoding behaves on uniformly random values.
//
// Compressed data is indistinguishable from uniform noise, so uniform
// sampling is the honest benchmark: it shows what the codec does on input
// that conventional compressors cannot touch.
type Runner struct {
	table *prime.Table
	cfg   runnerConfig
}

// NewRunner creates a Runner that factors samples against table.
func NewRunner(table *prime.Table, opts ...RunnerOption) (*Runner, error) {
	if table == nil {
		return nil, errors.New("table cannot be nil")
	}

	cfg := runnerConfig{
		samples: defaultSamples,
		seed:    defaultSeed,
		logger:  zap.NewNop(),
	}
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	return &Runner{table: table, cfg: cfg}, nil
}

// Report aggregates the measurements of one sampling run.
type Report struct {
	// RunID uniquely identifies the run in logs and saved results.
	RunID string
	// Samples is the number of values drawn.
	Samples int
	// MaxValue is the top of the sampling domain [2, MaxValue].
	MaxValue uint32
	// Compressions counts samples whose encoding beat the raw 32 bits.
	Compressions uint32
	// SizeRatio buckets encoded/raw size ratios in tenths.
	SizeRatio *Histogram
	// FactorCount buckets factorization lengths, multiplicity included.
	FactorCount *Histogram
	// RunCount buckets the number of distinct prime powers.
	RunCount *Histogram
	// Exponents buckets every prime power's exponent.
	Exponents *Histogram
	// IndexMagnitude buckets floor(log2) of every prime table index.
	IndexMagnitude *Histogram
	// Trend is the fitted encoded-bits-vs-magnitude model, nil when the
	// samples do not span enough magnitudes to fit one.
	Trend *BitsTrend
}

// CompressionRate returns the fraction of samples that compressed.
func (r *Report) CompressionRate() float64 {
	if r.Samples == 0 {
		return 0
	}

	return float64(r.Compressions) / float64(r.Samples)
}

// MeanSizeRatio returns the expected encoded/raw size ratio, where values
// below 1.0 mean the encoding is smaller than the raw value.
func (r *Report) MeanSizeRatio() float64 {
	return r.SizeRatio.ExpectedValue() / sizeRatioDivisor
}

// Run draws samples uniformly from [2, maxValue], factors and encodes each
// one, and aggregates the size and shape statistics.
//
// The table must cover maxValue; a sample the table cannot factor aborts
// the run with the factoring error.
func (r *Runner) Run(maxValue uint32) (*Report, error) {
	if maxValue < 2 {
		return nil, fmt.Errorf("sampling domain must reach 2, got %d", maxValue)
	}

	report := &Report{
		RunID:          uuid.NewString(),
		Samples:        r.cfg.samples,
		MaxValue:       maxValue,
		SizeRatio:      NewHistogram("size_ratio_tenths", sizeRatioBuckets),
		FactorCount:    NewHistogram("factor_count", factorHistBuckets),
		RunCount:       NewHistogram("prime_power_count", factorHistBuckets),
		Exponents:      NewHistogram("exponent", factorHistBuckets),
		IndexMagnitude: NewHistogram("log2_prime_index", factorHistBuckets),
	}

	rng := newLCG(r.cfg.seed)
	values := make([]float64, 0, r.cfg.samples)
	sizes := make([]float64, 0, r.cfg.samples)

	for range r.cfg.samples {
		v := rng.Uint32()
		if maxValue != math.MaxUint32 {
			v %= maxValue + 1
		}
		if v < 2 {
			v = 2
		}

		indices, err := r.table.Factor(v)
		if err != nil {
			return nil, fmt.Errorf("factor sample %d: %w", v, err)
		}
		report.FactorCount.Observe(len(indices))

		runs := encoding.RunLengths(indices)
		report.RunCount.Observe(len(runs))
		for _, pp := range runs {
			report.Exponents.Observe(int(pp.Exp))
			report.IndexMagnitude.Observe(log2Bucket(pp.Index))
		}

		bits := encoding.EncodeFactors(indices).Len()
		if bits < rawValueBits {
			report.Compressions++
			r.cfg.logger.Debug("sample compressed",
				zap.Uint32("value", v),
				zap.Int("bits", bits),
				zap.String("encoding", encoding.FormatFactorEncoding(indices)),
			)
		}
		report.SizeRatio.Observe(int(float64(bits) / rawValueBits * sizeRatioDivisor))

		values = append(values, float64(v))
		sizes = append(sizes, float64(bits))
	}

	report.Trend = FitBitsTrend(values, sizes)
	r.logReport(report)

	return report, nil
}

func (r *Runner) logReport(report *Report) {
	fields := []zap.Field{
		zap.String("run_id", report.RunID),
		zap.Int("samples", report.Samples),
		zap.Uint32("max_value", report.MaxValue),
		zap.Uint32("compressions", report.Compressions),
		zap.Float64("compression_rate", report.CompressionRate()),
		zap.Float64("mean_size_ratio", report.MeanSizeRatio()),
		zap.Float64("mean_factor_count", report.FactorCount.ExpectedValue()),
		zap.Float64("mean_prime_power_count", report.RunCount.ExpectedValue()),
		zap.Float64("mean_exponent", report.Exponents.ExpectedValue()),
		zap.Float64("mean_log2_prime_index", report.IndexMagnitude.ExpectedValue()),
	}
	if report.Trend != nil {
		fields = append(fields,
			zap.String("bits_trend", report.Trend.Formula()),
			zap.Float64("bits_trend_r2", report.Trend.RSquared),
		)
	}

	r.cfg.logger.Info("factor encoding experiment", fields...)
}

// log2Bucket returns floor(log2(idx)), with index 0 kept in bucket 0.
func log2Bucket(idx uint32) int {
	if idx == 0 {
		return 0
	}

	return mathbits.Len32(idx) - 1
}
