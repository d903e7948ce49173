package config

import "time"

// SniperConfig is the root configuration for a sniper instance.
type SniperConfig struct {
	API       APIConfig       `yaml:"api"`
	Options   OptionsConfig   `yaml:"options"`
	Pricing   PricingConfig   `yaml:"pricing"`
	Poller    PollerConfig    `yaml:"poller"`
	Broadcast BroadcastConfig `yaml:"broadcast"`
	Webhook   WebhookConfig   `yaml:"webhook"`
	Database  DatabaseConfig  `yaml:"database"`
	Writers   WritersConfig   `yaml:"writers"`
}

// APIConfig holds Hypixel API settings.
type APIConfig struct {
	Key            string        `yaml:"key"`
	BaseURL        string        `yaml:"base_url"`
	Timeout        time.Duration `yaml:"timeout"`
	PageFetchDelay time.Duration `yaml:"page_fetch_delay"`
}

// OptionsConfig holds the buy-side decision thresholds.
type OptionsConfig struct {
	MinProfit         float64        `yaml:"min_profit"`
	MaxPriceCap       float64        `yaml:"max_price_cap"`
	AddRecombobulator bool           `yaml:"add_recombobulator"`
	EnchantMinLevels  map[string]int `yaml:"enchant_min_levels"`
}

// PricingConfig holds market index settings.
type PricingConfig struct {
	// ReindexEvery is the cycle period of full index rebuilds.
	ReindexEvery int `yaml:"reindex_every"`
	// Overrides pins a base value per canonical name regardless of
	// observed listings.
	Overrides map[string]float64 `yaml:"overrides"`
}

// PollerConfig holds snapshot poller settings.
type PollerConfig struct {
	Interval     time.Duration `yaml:"interval"`
	Concurrency  int           `yaml:"concurrency"`
	RetryBackoff time.Duration `yaml:"retry_backoff"`
}

// BroadcastConfig holds the websocket broadcast server settings. A zero
// port disables the server.
type BroadcastConfig struct {
	Port int `yaml:"port"`
}

// Enabled reports whether the broadcast server should run.
func (b BroadcastConfig) Enabled() bool {
	return b.Port > 0
}

// WebhookConfig holds the Discord webhook settings. An empty URL disables
// the sink.
type WebhookConfig struct {
	URL string `yaml:"url"`
}

// Enabled reports whether the webhook sink should run.
func (w WebhookConfig) Enabled() bool {
	return w.URL != ""
}

// DatabaseConfig holds the optional flip-history database connection. An
// empty host disables the writer.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// Enabled reports whether flip history should be persisted.
func (db DatabaseConfig) Enabled() bool {
	return db.Host != ""
}

// WritersConfig holds flip-history batch writer settings.
type WritersConfig struct {
	BatchSize     int           `yaml:"batch_size"`
	FlushInterval time.Duration `yaml:"flush_interval"`
	BufferSize    int           `yaml:"buffer_size"`
}
