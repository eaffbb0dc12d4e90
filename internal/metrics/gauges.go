package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/go-authgate/oauthprovider/internal/core"

	"github.com/prometheus/client_golang/prometheus"
)

const collectTimeout = 5 * time.Second

var activeTokensDesc = prometheus.NewDesc(
	"oauth_tokens_active",
	"Current number of unexpired tokens",
	[]string{"token_type"}, nil,
)

// ActiveTokensCollector reports live token counts when Prometheus scrapes.
// Counts are read through a cache so frequent scrapes do not hit the
// database each time; nothing is polled between scrapes.
type ActiveTokensCollector struct {
	counter  core.TokenCounter
	cache    core.Cache[int64]
	ttl      time.Duration
	recorder Recorder
	now      func() time.Time
}

var _ prometheus.Collector = (*ActiveTokensCollector)(nil)

// NewActiveTokensCollector builds the collector. recorder may be nil.
func NewActiveTokensCollector(
	counter core.TokenCounter,
	cache core.Cache[int64],
	ttl time.Duration,
	recorder Recorder,
) *ActiveTokensCollector {
	if recorder == nil {
		recorder = NewNoopMetrics()
	}
	return &ActiveTokensCollector{
		counter:  counter,
		cache:    cache,
		ttl:      ttl,
		recorder: recorder,
		now:      time.Now,
	}
}

// RegisterActiveTokens registers c with the default registry. Registering
// twice is not an error.
func RegisterActiveTokens(c *ActiveTokensCollector) error {
	err := prometheus.Register(c)
	var already prometheus.AlreadyRegisteredError
	if errors.As(err, &already) {
		return nil
	}
	return err
}

func (c *ActiveTokensCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- activeTokensDesc
}

func (c *ActiveTokensCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), collectTimeout)
	defer cancel()

	for _, kind := range []string{"access", "refresh"} {
		count, err := c.count(ctx, kind)
		if err != nil {
			c.recorder.RecordDatabaseQueryError("count_active_" + kind)
			continue
		}
		ch <- prometheus.MustNewConstMetric(
			activeTokensDesc, prometheus.GaugeValue, float64(count), kind,
		)
	}
}

// count is cache-aside: a hit skips the database, a miss stores the fresh count.
func (c *ActiveTokensCollector) count(ctx context.Context, kind string) (int64, error) {
	key := "tokens:active:" + kind
	if v, err := c.cache.Get(ctx, key); err == nil {
		return v, nil
	}

	v, err := c.counter.CountActiveTokens(ctx, kind, c.now())
	if err != nil {
		return 0, err
	}
	_ = c.cache.Set(ctx, key, v, c.ttl)
	return v, nil
}
