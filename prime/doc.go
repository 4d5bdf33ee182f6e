// Package prime builds, persists and queries the prime tables that
// factorization-based encoding runs on.
//
// # Tables
//
// A Table holds every prime from 2 up to some bound, ascending and gapless.
// Gaplessness is what the rest of the system leans on: a factorization can
// then name each prime by its table index, and indices are dramatically
// smaller than the primes themselves. Table lookups (IndexOf, Contains,
// PrimesAt) and Factor/Compose are read-only and safe for concurrent use.
//
// # Factoring
//
// Table.Factor runs trial division over the table, returning ascending
// indices with multiplicity:
//
//	table, _ := prime.GenUpTo(1000)
//	indices, err := table.Factor(360) // 2*2*2*3*3*5 -> [0 0 0 1 1 2]
//
// A table can only prove factorizations for values up to the square of its
// last prime; beyond that Factor reports errs.ErrTableTooSmall.
//
// # Generation
//
// GenUpTo extends the starter primes {2, 3, 5} sequentially, each round
// reaching the square of the largest prime found so far. Generator.Calc
// parallelizes the bulk of the work: a sequential base table up to sqrt(n)
// certifies all candidates, and workers sieve disjoint shards of
// (sqrt(n), n] concurrently:
//
//	gen, _ := prime.NewGenerator(prime.WithWorkers(8))
//	table, err := gen.Calc(100_000_000)
//
// VerifyFactorAll cross-checks a finished table by factoring every value it
// claims to cover and multiplying the factors back.
//
// # Persistence
//
// Store reads and writes tables in a directory. The plain format is bare
// big-endian uint32 records, one per prime. Snapshots (WriteSnapshot,
// ReadSnapshot) wrap the records in a 32-byte header with compression and
// an xxHash64 digest for bulk storage of large tables. Store.Ensure ties it
// together: load the table if a readable copy exists, otherwise generate
// and persist it.
package prime
