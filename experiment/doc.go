// Package experiment measures factor encoding against uniformly random
// values, the one distribution ordinary compressors cannot improve on.
//
// A Runner draws seeded samples from [2, maxValue], factors each against a
// prime table, encodes the factorization, and aggregates the results into
// a Report: a size-ratio histogram (tenths of the raw 32-bit size, so
// buckets below 10 are wins), shape histograms for factor counts, prime
// power counts, exponents and index magnitudes, a compression counter, and
// a fitted encoded-bits-vs-magnitude trend:
//
//	runner, _ := experiment.NewRunner(table, experiment.WithSamples(50000))
//	report, err := runner.Run(maxValue)
//	fmt.Println(report.MeanSizeRatio(), report.Trend.Formula())
//
// Runs are reproducible: the sampler is a seeded LCG, so two runs with the
// same seed, sample count and domain draw identical values.
package experiment
