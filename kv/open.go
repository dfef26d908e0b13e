package kv

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// Options selects and configures a Store backend.
type Options struct {
	Kind      string // memory, file, sqlite, redis or s3
	Path      string // directory for file, database file for sqlite
	RedisAddr string
	Bucket    string
	Prefix    string // key prefix for redis and s3
}

// Open returns the Store described by opts.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Kind {
	case "", "file":
		if opts.Path == "" {
			return nil, fmt.Errorf("file store requires a path")
		}
		return NewFile(opts.Path)
	case "memory":
		return NewMemory(), nil
	case "sqlite":
		if opts.Path == "" {
			return nil, fmt.Errorf("sqlite store requires a path")
		}
		return OpenSQLite(ctx, opts.Path)
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: opts.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("cannot reach redis at %q: %w", opts.RedisAddr, err)
		}
		return NewRedis(client, opts.Prefix), nil
	case "s3":
		if opts.Bucket == "" {
			return nil, fmt.Errorf("s3 store requires a bucket")
		}
		return OpenS3(ctx, opts.Bucket, opts.Prefix)
	default:
		return nil, fmt.Errorf("unknown store kind %q", opts.Kind)
	}
}
