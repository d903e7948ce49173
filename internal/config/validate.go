package config

import (
	"errors"
	"fmt"
)

// Validate checks that all required fields are set and values are valid.
func (c *SniperConfig) Validate() error {
	if c.API.Key == "" {
		return errors.New("api.key is required")
	}
	if c.API.Timeout <= 0 {
		return errors.New("api.timeout must be positive")
	}

	if c.Options.MinProfit < 0 {
		return errors.New("options.min_profit must be >= 0")
	}
	if c.Options.MaxPriceCap < 0 {
		return errors.New("options.max_price_cap must be >= 0")
	}

	if c.Pricing.ReindexEvery < 1 {
		return errors.New("pricing.reindex_every must be >= 1")
	}

	if c.Poller.Interval <= 0 {
		return errors.New("poller.interval must be positive")
	}
	if c.Poller.Concurrency < 1 {
		return errors.New("poller.concurrency must be >= 1")
	}

	if c.Broadcast.Port < 0 || c.Broadcast.Port > 65535 {
		return fmt.Errorf("broadcast.port must be between 0 and 65535, got %d", c.Broadcast.Port)
	}

	if c.Database.Enabled() {
		if err := c.Database.validate(); err != nil {
			return err
		}
		if c.Writers.BatchSize < 1 {
			return errors.New("writers.batch_size must be >= 1")
		}
		if c.Writers.BufferSize < 1 {
			return errors.New("writers.buffer_size must be >= 1")
		}
	}

	return nil
}

func (db DatabaseConfig) validate() error {
	if db.Name == "" {
		return errors.New("database.name is required")
	}
	if db.User == "" {
		return errors.New("database.user is required")
	}
	if db.Password == "" {
		return errors.New("database.password is required")
	}
	if db.MaxConns < 1 {
		return errors.New("database.max_conns must be >= 1")
	}
	if db.MinConns < 0 {
		return errors.New("database.min_conns must be >= 0")
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("database.min_conns (%d) cannot exceed max_conns (%d)", db.MinConns, db.MaxConns)
	}
	return nil
}
