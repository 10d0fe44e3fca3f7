package dashboard

import (
	"go.uber.org/zap"

	"github.com/spektr-org/prodistat/cache"
	"github.com/spektr-org/prodistat/engine"
	"github.com/spektr-org/prodistat/helpers"
)

// Loader reads a source file into a snapshot, going through the snapshot
// cache when one is configured.
type Loader struct {
	Cache  *cache.Cache // optional
	Logger *zap.Logger
}

// Load reads path and returns its snapshot and the variant it was parsed as.
// Cache failures are logged and never fail the load.
func (l *Loader) Load(path string, variant engine.Variant) (*engine.Dataset, engine.Variant, error) {
	log := l.Logger
	if log == nil {
		log = zap.NewNop()
	}

	data, err := helpers.ReadSource(path)
	if err != nil {
		return nil, "", err
	}

	var key string
	if l.Cache != nil {
		key = cache.Key(data, variant)
		snap, ok, err := l.Cache.Get(key)
		switch {
		case err != nil:
			log.Warn("snapshot cache read failed; discarding entry", zap.String("source", path), zap.Error(err))
			if err := l.Cache.Delete(key); err != nil {
				log.Warn("snapshot cache delete failed", zap.String("source", path), zap.Error(err))
			}
		case ok:
			log.Debug("snapshot cache hit", zap.String("source", path), zap.Int("records", snap.Dataset.Len()))
			return snap.Dataset, snap.Variant, nil
		}
	}

	ds, used, err := helpers.Parse(path, data, variant)
	if err != nil {
		return nil, "", err
	}
	log.Info("source loaded",
		zap.String("source", path),
		zap.String("variant", string(used)),
		zap.Int("records", ds.Len()),
		zap.Int("dropped", ds.Dropped()))

	if l.Cache != nil {
		if err := l.Cache.Put(key, ds, used); err != nil {
			log.Warn("snapshot cache write failed", zap.String("source", path), zap.Error(err))
		} else if n, err := l.Cache.PruneSource(path, key); err == nil && n > 0 {
			log.Debug("stale snapshots pruned", zap.String("source", path), zap.Int64("removed", n))
		}
	}

	return ds, used, nil
}
