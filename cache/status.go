package cache

import (
	"context"
	"time"

	"pdfNormalizer/database"
	"pdfNormalizer/models"
)

const (
	statusKeyPrefix = "conversion:status:"
	statusTTL       = 10 * time.Minute
)

// StatusCache records the latest status of a conversion attempt keyed by
// its output token, for downstream consumers watching the event stream.
type StatusCache struct {
	cache *database.Cache
}

func NewStatusCache(cache *database.Cache) *StatusCache {
	return &StatusCache{cache: cache}
}

func (sc *StatusCache) Set(ctx context.Context, outputName string, status models.ConversionStatus) error {
	return sc.cache.Set(ctx, statusKeyPrefix+outputName, string(status), statusTTL)
}
