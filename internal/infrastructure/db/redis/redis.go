// Package redis keeps session tokens and JWT revocations in Redis so they are
// shared between replicas.
package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Key namespaces, joined to Config.KeyPrefix as <prefix>:<namespace>:<id>.
const (
	sessionNamespace    = "session"
	revocationNamespace = "revoked"
)

const (
	defaultDialTimeout = 5 * time.Second
	defaultPingTimeout = 2 * time.Second
)

// Config holds the REDIS_* settings.
type Config struct {
	Addr        string
	DB          int
	KeyPrefix   string
	DialTimeout time.Duration
	PingTimeout time.Duration
}

// Client is a connected client whose stores share one key prefix.
type Client struct {
	rdb         *redis.Client
	prefix      string
	pingTimeout time.Duration
}

// Open dials Redis and fails unless the server answers a ping.
func Open(ctx context.Context, cfg Config) (*Client, error) {
	dialTimeout := cfg.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = defaultDialTimeout
	}
	pingTimeout := cfg.PingTimeout
	if pingTimeout <= 0 {
		pingTimeout = defaultPingTimeout
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		DB:          cfg.DB,
		DialTimeout: dialTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}

	return &Client{
		rdb:         rdb,
		prefix:      strings.Trim(strings.TrimSpace(cfg.KeyPrefix), ":"),
		pingTimeout: pingTimeout,
	}, nil
}

// Sessions returns the session store under <prefix>:session.
func (c *Client) Sessions(ttl time.Duration) *SessionStore {
	return NewSessionStore(c.rdb, c.namespace(sessionNamespace), ttl)
}

// Revocations returns the revocation list under <prefix>:revoked.
func (c *Client) Revocations() *RevocationList {
	return NewRevocationList(c.rdb, c.namespace(revocationNamespace))
}

// Ping is the readiness check.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.pingTimeout)
	defer cancel()
	return c.rdb.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.rdb.Close()
}

func (c *Client) namespace(ns string) string {
	if c.prefix == "" {
		return ns
	}
	return c.prefix + ":" + ns
}
