package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultAPITimeout     = 10 * time.Second
	DefaultPageFetchDelay = 100 * time.Millisecond
	DefaultMinProfit      = 100_000
	DefaultMaxPriceCap    = 25_000_000
	DefaultReindexEvery   = 6
	DefaultPollInterval   = 60 * time.Second
	DefaultConcurrency    = 10
	DefaultRetryBackoff   = 30 * time.Second
	DefaultBroadcastPort  = 8887
	DefaultDBPort         = 5432
	DefaultDBSSLMode      = "prefer"
	DefaultMaxConns       = 4
	DefaultMinConns       = 1
	DefaultBatchSize      = 100
	DefaultFlushInterval  = 5 * time.Second
	DefaultBufferSize     = 1000
)

// DefaultEnchantMinLevels maps enchantment keys to the lowest level worth
// pricing in. Levels below the threshold are treated as adding no value.
func DefaultEnchantMinLevels() map[string]int {
	return map[string]int{
		"dragon_hunter":        1,
		"ultimate_wise":        1,
		"ultimate_soul_eater":  1,
		"ultimate_legion":      1,
		"ultimate_chimera":     1,
		"ultimate_combo":       1,
		"ultimate_jerry":       1,
		"ultimate_last_stand":  1,
		"ultimate_one_for_all": 1,
		"ultimate_rend":        1,
		"ultimate_swarm":       1,
		"ultimate_wisdom":      1,
		"sharpness":            6,
		"growth":               6,
		"protection":           6,
		"power":                6,
		"giant_killer":         6,
		"critical":             6,
		"smite":                6,
		"bane_of_arthropods":   6,
		"first_strike":         4,
		"ender_slayer":         6,
	}
}

// DefaultPriceOverrides pins base values the market index cannot observe
// reliably from the feed itself.
func DefaultPriceOverrides() map[string]float64 {
	return map[string]float64{
		"DRAGON_SLAYER": 1_000_000,
	}
}

func (c *SniperConfig) applyDefaults() {
	// API defaults
	if c.API.BaseURL == "" {
		c.API.BaseURL = "https://api.hypixel.net"
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultAPITimeout
	}
	if c.API.PageFetchDelay == 0 {
		c.API.PageFetchDelay = DefaultPageFetchDelay
	}

	// Options defaults
	if c.Options.MinProfit == 0 {
		c.Options.MinProfit = DefaultMinProfit
	}
	if c.Options.MaxPriceCap == 0 {
		c.Options.MaxPriceCap = DefaultMaxPriceCap
	}
	if c.Options.EnchantMinLevels == nil {
		c.Options.EnchantMinLevels = DefaultEnchantMinLevels()
	}

	// Pricing defaults
	if c.Pricing.ReindexEvery == 0 {
		c.Pricing.ReindexEvery = DefaultReindexEvery
	}
	if c.Pricing.Overrides == nil {
		c.Pricing.Overrides = DefaultPriceOverrides()
	}

	// Poller defaults
	if c.Poller.Interval == 0 {
		c.Poller.Interval = DefaultPollInterval
	}
	if c.Poller.Concurrency == 0 {
		c.Poller.Concurrency = DefaultConcurrency
	}
	if c.Poller.RetryBackoff == 0 {
		c.Poller.RetryBackoff = DefaultRetryBackoff
	}

	// Database defaults only matter when the writer is enabled
	if c.Database.Enabled() {
		if c.Database.Port == 0 {
			c.Database.Port = DefaultDBPort
		}
		if c.Database.SSLMode == "" {
			c.Database.SSLMode = DefaultDBSSLMode
		}
		if c.Database.MaxConns == 0 {
			c.Database.MaxConns = DefaultMaxConns
		}
		if c.Database.MinConns == 0 {
			c.Database.MinConns = DefaultMinConns
		}
	}

	// Writers defaults
	if c.Writers.BatchSize == 0 {
		c.Writers.BatchSize = DefaultBatchSize
	}
	if c.Writers.FlushInterval == 0 {
		c.Writers.FlushInterval = DefaultFlushInterval
	}
	if c.Writers.BufferSize == 0 {
		c.Writers.BufferSize = DefaultBufferSize
	}
}
