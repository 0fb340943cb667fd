package cache

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

// Connection tuning for the shared client used by the meal cache, the
// checked-state store and the rate limiter.
const (
	dialTimeout  = 5 * time.Second
	opTimeout    = 10 * time.Second
	pingTimeout  = 3 * time.Second
	poolSize     = 16
	minIdleConns = 4
)

// NewRedisClient builds the shared client and verifies the connection up
// front, so main can decide to run without Redis when it is unreachable.
func NewRedisClient(host, port, password string, dbIndex int) (*redis.Client, error) {
	addr := net.JoinHostPort(host, port)

	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           dbIndex,
		DialTimeout:  dialTimeout,
		ReadTimeout:  opTimeout,
		WriteTimeout: opTimeout,
		PoolSize:     poolSize,
		MinIdleConns: minIdleConns,
	})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}

	return rdb, nil
}
