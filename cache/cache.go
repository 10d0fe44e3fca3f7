// Package cache stores normalized record snapshots in SQLite so a source
// file that has not changed is not parsed twice.
// The database lives in <dir>/cache.db.
package cache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/spektr-org/prodistat/engine"
)

// Cache manages the snapshot database.
type Cache struct {
	db     *sql.DB
	dbPath string
}

// Snapshot is a cached normalized dataset.
type Snapshot struct {
	Key       string
	Dataset   *engine.Dataset
	Variant   engine.Variant
	CreatedAt time.Time
}

// Open opens or creates the cache database in dir.
func Open(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	dbPath := filepath.Join(dir, "cache.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}

	// Enable WAL mode for better concurrent access
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	cache := &Cache{db: db, dbPath: dbPath}
	if err := cache.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return cache, nil
}

// Key derives the snapshot key for source content under a variant.
func Key(data []byte, variant engine.Variant) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]) + ":" + string(variant)
}

// Get returns the snapshot stored under key. The bool is false on a miss.
func (c *Cache) Get(key string) (*Snapshot, bool, error) {
	var (
		source, variant, created string
		dropped                  int
		blob                     []byte
	)
	err := c.db.QueryRow(`
		SELECT source, variant, dropped_count, records, created_at
		FROM snapshots WHERE snapshot_key = ?`, key).
		Scan(&source, &variant, &dropped, &blob, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("query snapshot: %w", err)
	}

	var records []engine.ApplicantRecord
	if err := json.Unmarshal(blob, &records); err != nil {
		return nil, false, fmt.Errorf("decode snapshot %s: %w", key, err)
	}
	createdAt, _ := time.Parse(time.RFC3339, created)

	return &Snapshot{
		Key:       key,
		Dataset:   engine.NewDataset(source, records, dropped),
		Variant:   engine.Variant(variant),
		CreatedAt: createdAt,
	}, true, nil
}

// Put stores a dataset under key, replacing any previous entry.
func (c *Cache) Put(key string, ds *engine.Dataset, variant engine.Variant) error {
	if ds == nil {
		return errors.New("put snapshot: nil dataset")
	}
	blob, err := json.Marshal(ds.Records())
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	_, err = c.db.Exec(`
		INSERT OR REPLACE INTO snapshots
			(snapshot_key, source, variant, record_count, dropped_count, records, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		key, ds.Source(), string(variant), ds.Len(), ds.Dropped(), blob,
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Delete removes one snapshot.
func (c *Cache) Delete(key string) error {
	if _, err := c.db.Exec("DELETE FROM snapshots WHERE snapshot_key = ?", key); err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	return nil
}

// PruneSource removes every snapshot of source except the one under keep.
// Returns the number of rows removed.
func (c *Cache) PruneSource(source, keep string) (int64, error) {
	res, err := c.db.Exec("DELETE FROM snapshots WHERE source = ? AND snapshot_key != ?", source, keep)
	if err != nil {
		return 0, fmt.Errorf("prune snapshots: %w", err)
	}
	return res.RowsAffected()
}

// Close closes the database connection.
func (c *Cache) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Clear removes all cached snapshots.
func (c *Cache) Clear() error {
	if _, err := c.db.Exec("DELETE FROM snapshots"); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	return nil
}

// Path returns the database file path.
func (c *Cache) Path() string {
	return c.dbPath
}

// Stats returns cache statistics.
type Stats struct {
	SnapshotCount int64 `json:"snapshot_count" yaml:"snapshot_count"`
	RecordCount   int64 `json:"record_count" yaml:"record_count"`
}

// GetStats returns statistics about the cache contents.
func (c *Cache) GetStats() (*Stats, error) {
	var stats Stats
	err := c.db.QueryRow("SELECT COUNT(*), COALESCE(SUM(record_count), 0) FROM snapshots").
		Scan(&stats.SnapshotCount, &stats.RecordCount)
	if err != nil {
		return nil, fmt.Errorf("count snapshots: %w", err)
	}
	return &stats, nil
}
