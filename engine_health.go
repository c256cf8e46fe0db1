package insureAuth

import (
	"context"
	"time"
)

// HealthStatus is an on-demand backend health result.
type HealthStatus struct {
	RedisAvailable bool          `json:"redisAvailable"`
	RedisLatency   time.Duration `json:"redisLatencyNs"`
}

// Healthy reports whether every backend answered.
func (h HealthStatus) Healthy() bool {
	return h.RedisAvailable
}

// Health pings the cache within Cache.OpTimeout. The user store is not
// probed; its failures surface on the request path.
func (e *Engine) Health(ctx context.Context) HealthStatus {
	if e == nil || e.revocations == nil {
		return HealthStatus{}
	}

	cctx, cancel := e.cacheCtx(ctx)
	defer cancel()

	latency, err := e.revocations.Ping(cctx)
	if err != nil {
		e.logger.Warn().Err(err).Msg("health check: redis unreachable")
	}
	return HealthStatus{
		RedisAvailable: err == nil,
		RedisLatency:   latency,
	}
}
