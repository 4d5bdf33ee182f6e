package prime

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/primepack/errs"
)

func TestVerifyFactorAll_CleanTable(t *testing.T) {
	table := tableUpTo271(t)

	// The generation bound is the domain a table can verify: every prime up
	// to it is indexed, so every value factors and composes back.
	err := VerifyFactorAll(table, 271, WithVerifyWorkers(4))
	require.NoError(t, err)
}

func TestVerifyFactorAll_BeyondIndexedPrimes(t *testing.T) {
	table := tableUpTo271(t)

	// 277 is within the table's factoring coverage but not indexed, so it is
	// the lowest value that cannot be verified.
	err := VerifyFactorAll(table, 277, WithVerifyWorkers(4))
	require.ErrorIs(t, err, errs.ErrPrimeNotIndexed)

	err = VerifyFactorAll(table, 73_442, WithVerifyWorkers(4))
	require.ErrorIs(t, err, errs.ErrPrimeNotIndexed)
}

func TestVerifyFactorAll_DetectsGap(t *testing.T) {
	// A table with 7 missing is still ascending, but 7 cannot be factored.
	gapped := make([]uint32, 0, len(primesUpTo271)-1)
	for _, p := range primesUpTo271 {
		if p != 7 {
			gapped = append(gapped, p)
		}
	}
	table, err := NewTable(gapped)
	require.NoError(t, err)

	err = VerifyFactorAll(table, 271, WithVerifyWorkers(2))
	require.ErrorIs(t, err, errs.ErrPrimeNotIndexed)
}

func TestVerifyFactorAll_TrivialBounds(t *testing.T) {
	table := tableUpTo271(t)

	require.NoError(t, VerifyFactorAll(table, 0))
	require.NoError(t, VerifyFactorAll(table, 1))
	require.NoError(t, VerifyFactorAll(table, 2, WithVerifyWorkers(8)))
}

func TestVerifyFactorAll_InvalidOptions(t *testing.T) {
	table := tableUpTo271(t)

	require.Error(t, VerifyFactorAll(table, 100, WithVerifyWorkers(0)))
	require.Error(t, VerifyFactorAll(table, 100, WithVerifyLogger(nil)))
}
