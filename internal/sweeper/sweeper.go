package sweeper

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"truekki/internal/services/auction"
)

type Store interface {
	FinalizeExpired(ctx context.Context, now time.Time) (int64, error)
}

// Run starts the expiry sweep loop. Every tick flips all expired active
// auctions to finalized in one bulk statement; errors are logged and the
// next tick retries. The tick fires whether or not anything has expired.
func Run(ctx context.Context, st Store, rdc *redis.Client, interval time.Duration) {
	tk := time.NewTicker(interval)
	go func() {
		defer tk.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-tk.C:
				sweepOnce(ctx, st, rdc)
			}
		}
	}()
}

func sweepOnce(ctx context.Context, st Store, rdc *redis.Client) {
	n, err := st.FinalizeExpired(ctx, time.Now().UTC())
	if err != nil {
		zap.L().Error("sweep_finalize", zap.Error(err))
		return
	}
	if n == 0 {
		return
	}
	zap.L().Info("auctions_finalized", zap.Int64("count", n))

	// Drop the cached active listing so finalized auctions disappear from
	// GET /subastas before the cache TTL runs out.
	if rdc != nil {
		if err := rdc.Del(ctx, auction.ActiveListCacheKey).Err(); err != nil {
			zap.L().Debug("sweep_cache_bust", zap.Error(err))
		}
	}
}
