package multiwrite

import (
	"fmt"
	log "log/slog"

	"github.com/redis/go-redis/v9"
)

// Connection wraps a redis.Client and the config used to create it. Unlike
// the proxy itself, a Connection owns its client: the caller that opened it
// closes it.
type Connection struct {
	Client *redis.Client
	Config RedisConfig
}

// OpenConnection creates a new client connection from cfg. URL, when set,
// overrides Address, Password, and DB. The connection is established lazily
// by the client on first use.
func OpenConnection(cfg RedisConfig) (*Connection, error) {
	var opts *redis.Options
	if cfg.URL != "" {
		var err error
		opts, err = redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse redis url: %w", err)
		}
		if cfg.TLSConfig != nil {
			opts.TLSConfig = cfg.TLSConfig
		}
	} else {
		opts = &redis.Options{
			Addr:      cfg.Address,
			Password:  cfg.Password,
			DB:        cfg.DB,
			TLSConfig: cfg.TLSConfig,
		}
	}
	log.Info("Opening Redis connection", "address", opts.Addr, "db", opts.DB)
	return &Connection{Client: redis.NewClient(opts), Config: cfg}, nil
}

// Conn adapts the connection to the proxy's Conn surface.
func (c *Connection) Conn() Conn {
	return RedisConn(c.Client)
}

// Close closes the underlying client, if not already closed.
func (c *Connection) Close() error {
	if c == nil || c.Client == nil {
		return nil
	}
	log.Debug("Closing underlying Redis client")
	err := c.Client.Close()
	c.Client = nil
	return err
}
