package changefeed

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"focusframe-server/internal/domain/item"
	"focusframe-server/internal/infrastructure/metrics"
)

// RedisFeed publishes owner changes on Redis pub/sub so every instance of
// the service wakes its local subscriptions.
type RedisFeed struct {
	client    redis.UniversalClient
	prefix    string
	local     *MemoryFeed
	log       zerolog.Logger
	pubsub    *redis.PubSub
	wg        sync.WaitGroup
	startOnce sync.Once
	stopOnce  sync.Once
}

// NewRedisFeed connects to Redis. redisURL may list several comma separated
// addresses for a cluster.
func NewRedisFeed(redisURL, prefix string, log zerolog.Logger) (*RedisFeed, error) {
	if redisURL == "" {
		return nil, fmt.Errorf("redis URL must be provided")
	}

	opts, err := buildUniversalOptions(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	if len(opts.Addrs) > 1 && opts.DB != 0 {
		log.Warn().Msg("ignoring non-zero DB when using Redis Cluster configuration")
		opts.DB = 0
	}

	client := redis.NewUniversalClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return NewRedisFeedWithClient(client, prefix, log), nil
}

// NewRedisFeedWithClient wraps an existing client.
func NewRedisFeedWithClient(client redis.UniversalClient, prefix string, log zerolog.Logger) *RedisFeed {
	return &RedisFeed{
		client: client,
		prefix: strings.TrimSuffix(prefix, ":"),
		local:  NewMemoryFeed(),
		log:    log.With().Str("component", "redis-change-feed").Logger(),
	}
}

// Start subscribes to every owner channel and relays messages to local listeners.
// Safe to call multiple times.
func (f *RedisFeed) Start(ctx context.Context) error {
	var err error
	f.startOnce.Do(func() {
		f.pubsub = f.client.PSubscribe(ctx, f.prefix+":*")
		if _, err = f.pubsub.Receive(ctx); err != nil {
			err = fmt.Errorf("subscribe %s:*: %w", f.prefix, err)
			return
		}

		f.wg.Add(1)
		go f.relay(f.pubsub.Channel())
		f.log.Info().Str("pattern", f.prefix+":*").Msg("change feed started")
	})
	return err
}

// Stop closes the subscription and waits for the relay to exit.
func (f *RedisFeed) Stop() {
	f.stopOnce.Do(func() {
		if f.pubsub != nil {
			if err := f.pubsub.Close(); err != nil {
				f.log.Warn().Err(err).Msg("close pubsub")
			}
		}
		f.wg.Wait()
		f.log.Info().Msg("change feed stopped")
	})
}

func (f *RedisFeed) relay(messages <-chan *redis.Message) {
	defer f.wg.Done()
	for msg := range messages {
		ownerID, ok := f.ownerFromChannel(msg.Channel)
		if !ok {
			continue
		}
		f.local.deliver(ownerID)
	}
}

// Publish announces a change for the owner to every instance.
func (f *RedisFeed) Publish(ctx context.Context, ownerID string) error {
	if err := f.client.Publish(ctx, f.channel(ownerID), "changed").Err(); err != nil {
		metrics.ChangeSignalErrors.Inc()
		f.local.deliver(ownerID)
		return fmt.Errorf("publish change: %w", err)
	}
	metrics.ChangeSignals.WithLabelValues("redis").Inc()
	return nil
}

// Listen registers a local listener for the owner.
func (f *RedisFeed) Listen(ownerID string) (<-chan struct{}, func()) {
	return f.local.Listen(ownerID)
}

// Ping reports whether Redis answers.
func (f *RedisFeed) Ping(ctx context.Context) error {
	return f.client.Ping(ctx).Err()
}

// Close stops the relay and releases the client.
func (f *RedisFeed) Close() error {
	f.Stop()
	return f.client.Close()
}

func (f *RedisFeed) channel(ownerID string) string {
	return f.prefix + ":" + ownerID
}

func (f *RedisFeed) ownerFromChannel(channel string) (string, bool) {
	ownerID, ok := strings.CutPrefix(channel, f.prefix+":")
	if !ok || ownerID == "" {
		return "", false
	}
	return ownerID, true
}

func buildUniversalOptions(raw string) (*redis.UniversalOptions, error) {
	opts := &redis.UniversalOptions{}

	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if !strings.Contains(part, "://") {
			opts.Addrs = append(opts.Addrs, part)
			continue
		}

		parsed, err := redis.ParseURL(part)
		if err != nil {
			return nil, err
		}
		opts.Addrs = append(opts.Addrs, parsed.Addr)
		if opts.Username == "" {
			opts.Username = parsed.Username
		}
		if opts.Password == "" {
			opts.Password = parsed.Password
		}
		if opts.DB == 0 {
			opts.DB = parsed.DB
		}
		if opts.TLSConfig == nil {
			opts.TLSConfig = parsed.TLSConfig
		}
	}

	if len(opts.Addrs) == 0 {
		return nil, fmt.Errorf("no redis addresses provided")
	}
	return opts, nil
}

var _ item.ChangeFeed = (*RedisFeed)(nil)
