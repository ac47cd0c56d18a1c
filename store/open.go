package store

import "fmt"

// Options selects and parameterizes a KV driver.
type Options struct {
	Driver        string
	DSN           string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Open builds a KV from options.
func Open(opts Options) (KV, error) {
	switch opts.Driver {
	case "", "memory":
		return NewMemory(), nil
	case "sqlite", "postgres":
		return NewSQL(opts.Driver, opts.DSN)
	case "redis":
		return NewRedis(opts.RedisAddr, opts.RedisPassword, opts.RedisDB)
	default:
		return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}
}
