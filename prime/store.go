package prime

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/arloliu/primepack/endian"
	"github.com/arloliu/primepack/errs"
	"github.com/arloliu/primepack/internal/options"
	"github.com/arloliu/primepack/internal/pool"
)

// tableFilePrefix names table files after the bound they cover, e.g.
// "primes_up_to_4294967295" for the full uint32 table.
const tableFilePrefix = "primes_up_to_"

// Store reads and writes prime tables in a directory.
//
// The plain table format is the portable interchange form: each prime as a
// big-endian uint32 record, nothing else. Snapshots add a header,
// compression and a checksum on top, see WriteSnapshot.
type Store struct {
	dir    string
	logger *zap.Logger
}

// StoreOption configures a Store.
type StoreOption = options.Option[*Store]

// WithStoreLogger sets the logger for store activity. The default discards
// all output.
func WithStoreLogger(logger *zap.Logger) StoreOption {
	return options.New(func(s *Store) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		s.logger = logger
		return nil
	})
}

// NewStore creates a store rooted at dir. The directory is created on the
// first write, not here.
func NewStore(dir string, opts ...StoreOption) (*Store, error) {
	if dir == "" {
		return nil, errors.New("store directory cannot be empty")
	}

	s := &Store{
		dir:    dir,
		logger: zap.NewNop(),
	}
	if err := options.Apply(s, opts...); err != nil {
		return nil, err
	}

	return s, nil
}

// Path returns the plain table file path for the given bound.
func (s *Store) Path(upperBound uint32) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s%d", tableFilePrefix, upperBound))
}

// Write persists the table as big-endian uint32 records under the name for
// upperBound.
//
// Returns:
//   - int: The number of records written
//   - error: File system failure, the file may be left partially written
func (s *Store) Write(t *Table, upperBound uint32) (int, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return 0, fmt.Errorf("create store directory: %w", err)
	}

	engine := endian.GetBigEndianEngine()
	buf := pool.GetTableBuffer()
	defer pool.PutTableBuffer(buf)

	buf.Grow(t.Len() * 4)
	for _, p := range t.primes {
		buf.B = engine.AppendUint32(buf.B, p)
	}

	path := s.Path(upperBound)
	s.logger.Info("writing prime table file",
		zap.String("path", path),
		zap.Int("count", t.Len()),
		zap.Uint32("last_prime", t.Last()),
	)

	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create table file: %w", err)
	}
	if _, err := buf.WriteTo(f); err != nil {
		f.Close()
		return 0, fmt.Errorf("write table file: %w", err)
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("close table file: %w", err)
	}

	return t.Len(), nil
}

// Read loads the plain table file for upperBound.
//
// Returns:
//   - *Table: The stored table
//   - error: The os error when the file is missing, or a wrapped
//     errs.ErrCorruptTableFile when its contents are not a valid table
func (s *Store) Read(upperBound uint32) (*Table, error) {
	raw, err := os.ReadFile(s.Path(upperBound))
	if err != nil {
		return nil, fmt.Errorf("read table file: %w", err)
	}

	return tableFromRecords(raw, endian.GetBigEndianEngine())
}

// Ensure returns the table for upperBound, reading it from disk when a
// readable copy exists and generating and persisting it otherwise.
//
// An unreadable or corrupt file is logged and regenerated over. A write
// failure after generation is returned as an error, the freshly generated
// table is not silently used without being persisted.
func (s *Store) Ensure(upperBound uint32, gen *Generator) (*Table, error) {
	table, err := s.Read(upperBound)
	if err == nil {
		s.logger.Info("prime table loaded",
			zap.String("path", s.Path(upperBound)),
			zap.Int("count", table.Len()),
		)
		return table, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		s.logger.Warn("regenerating over unreadable prime table file",
			zap.String("path", s.Path(upperBound)),
			zap.Error(err),
		)
	}

	table, err = gen.Calc(upperBound)
	if err != nil {
		return nil, err
	}
	if _, err := s.Write(table, upperBound); err != nil {
		return nil, err
	}

	return table, nil
}

// tableFromRecords decodes fixed-width uint32 records into a table,
// validating the table invariants on the way.
func tableFromRecords(raw []byte, engine endian.EndianEngine) (*Table, error) {
	if len(raw)%4 != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a whole number of records", errs.ErrCorruptTableFile, len(raw))
	}
	count := len(raw) / 4
	if count == 0 {
		return nil, fmt.Errorf("%w: no records", errs.ErrCorruptTableFile)
	}

	primes := make([]uint32, count)
	for i := range primes {
		primes[i] = engine.Uint32(raw[i*4:])
	}
	if err := CheckAscending(primes); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrCorruptTableFile, err)
	}

	return newTableOwned(primes), nil
}
