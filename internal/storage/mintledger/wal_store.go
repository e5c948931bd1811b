// Package mintledger persists per-address mint receipts in a WAL.
package mintledger

import (
	"encoding/json"
	"os"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/gowal"
	"go.uber.org/zap"

	"github.com/vadiminshakov/silvermint/internal/domain"
)

const (
	DefaultDir        = "./wal/mints"
	DefaultMaxRecords = 50

	segmentLimit = 1000
	maxSegments  = 10

	mintKeyPrefix     = "mint_"
	walDirPermissions = 0o755
)

// WALStore keeps one bounded, newest-first receipt sequence per wallet
// address. Each save rewrites the whole normalized sequence under the
// address key; the latest write wins on load.
type WALStore struct {
	wal           *gowal.Wal
	maxRecords    int
	unitsPerOunce decimal.Decimal
	logger        *zap.Logger
	mu            sync.RWMutex
}

func NewWALStore(dir string, maxRecords int, unitsPerOunce decimal.Decimal, logger *zap.Logger) (*WALStore, error) {
	if dir == "" {
		dir = DefaultDir
	}
	if maxRecords <= 0 {
		maxRecords = DefaultMaxRecords
	}
	if unitsPerOunce.LessThanOrEqual(decimal.Zero) {
		unitsPerOunce = domain.DefaultUnitsPerOunce
	}

	if err := os.MkdirAll(dir, walDirPermissions); err != nil {
		return nil, errors.Wrapf(err, "failed to ensure ledger directory %s", dir)
	}

	cfg := gowal.Config{
		Dir:              dir,
		Prefix:           "mint_",
		SegmentThreshold: segmentLimit,
		MaxSegments:      maxSegments,
		IsInSyncDiskMode: true,
	}

	wal, err := gowal.NewWAL(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "init mint ledger WAL")
	}

	return &WALStore{wal: wal, maxRecords: maxRecords, unitsPerOunce: unitsPerOunce, logger: logger}, nil
}

func addressKey(address string) string {
	return mintKeyPrefix + strings.ToLower(address)
}

// Record prepends the receipt to the address sequence, truncates to the
// retained maximum and persists. The updated in-memory sequence is returned
// even when persisting fails; persistence is best-effort.
func (s *WALStore) Record(address string, rec domain.MintRecord, current []domain.MintRecord) ([]domain.MintRecord, error) {
	if s == nil || s.wal == nil {
		return nil, errors.New("mint ledger is not initialized")
	}
	if address == "" {
		return nil, errors.New("mint record requires an address")
	}

	updated := make([]domain.MintRecord, 0, len(current)+1)
	updated = append(updated, rec.Normalized(s.unitsPerOunce))
	updated = append(updated, current...)
	if len(updated) > s.maxRecords {
		updated = updated[:s.maxRecords]
	}

	if err := s.save(address, updated); err != nil {
		return updated, errors.Wrap(err, "persist mint ledger")
	}

	return updated, nil
}

func (s *WALStore) save(address string, records []domain.MintRecord) error {
	payload, err := json.Marshal(records)
	if err != nil {
		return errors.Wrap(err, "marshal mint records")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	nextIndex := s.wal.CurrentIndex() + 1
	return s.wal.Write(nextIndex, addressKey(address), payload)
}

// Load reads the persisted sequence for an address, normalizing every record
// so legacy shapes are backfilled before they are exposed. Read failures are
// logged and treated as an empty ledger, never raised.
func (s *WALStore) Load(address string) []domain.MintRecord {
	if s == nil || s.wal == nil || address == "" {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	key := addressKey(address)
	var latest []byte
	for msg := range s.wal.Iterator() {
		if msg.Key == key {
			latest = msg.Value
		}
	}
	if latest == nil {
		return nil
	}

	records, err := decodeSequence(latest, s.unitsPerOunce)
	if err != nil {
		s.logger.Warn("failed to decode mint ledger, treating as empty",
			zap.String("address", address), zap.Error(err))
		return nil
	}

	return records
}

// Aggregate sums the normalized raw fields of a record sequence.
func (s *WALStore) Aggregate(records []domain.MintRecord) domain.LedgerTotals {
	return domain.Aggregate(records)
}

// Close closes the underlying WAL.
func (s *WALStore) Close() error {
	if s == nil || s.wal == nil {
		return errors.New("mint ledger is not initialized")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.wal.Close()
}
