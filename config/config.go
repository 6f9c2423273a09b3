// Package config loads the semantic configuration tree (§6): server,
// sources, cache, and the optional semantic_search block. Encoding is
// YAML; string leaves pass through environment expansion and
// secretref: resolution via the secret package before the tree is handed
// to the rest of the server.
package config

// ServerConfig is the server{} block of §6.
type ServerConfig struct {
	Port        int    `yaml:"port"`
	Host        string `yaml:"host"`
	LogLevel    string `yaml:"log_level"`
	MaxBodyMB   float64 `yaml:"max_body_mb"`
	ReadTimeoutS  int   `yaml:"read_timeout_s"`
	WriteTimeoutS int   `yaml:"write_timeout_s"`

	// APIKeys is the set of plaintext keys accepted by the transport-level
	// credential check; empty means the HTTP API requires no authenticator.
	// Each value typically comes from a secretref: leaf so the plaintext
	// never lives in the YAML file itself.
	APIKeys []string `yaml:"api_keys"`
}

// SourceConfig is one entry of sources[], an adapter-specific block whose
// fields are opaque to config and passed through to adapter.Registry.Create.
type SourceConfig struct {
	Name   string         `yaml:"name"`
	Type   string         `yaml:"type"`
	Config map[string]any `yaml:"config"`
}

// MemoryCacheConfig is cache.memory{}.
type MemoryCacheConfig struct {
	MaxKeys           int `yaml:"max_keys"`
	TTLSeconds        int `yaml:"ttl_seconds"`
	CheckPeriodSeconds int `yaml:"check_period_seconds"`
}

// RemoteCacheConfig is cache.remote{}.
type RemoteCacheConfig struct {
	Enabled              bool    `yaml:"enabled"`
	URL                  string  `yaml:"url"`
	TTLSeconds           int     `yaml:"ttl_seconds"`
	KeyPrefix            string  `yaml:"key_prefix"`
	ConnectionTimeoutMS  int     `yaml:"connection_timeout_ms"`
	RetryDelayMS         int     `yaml:"retry_delay_ms"`
	MaxRetryDelayMS      int     `yaml:"max_retry_delay_ms"`
	BackoffMultiplier    float64 `yaml:"backoff_multiplier"`
	ConnectionRetryLimit int     `yaml:"connection_retry_limit"`
}

// ContentTypeConfig is one entry of cache.content_types{}.
type ContentTypeConfig struct {
	TTLSeconds int  `yaml:"ttl_seconds"`
	Warmup     bool `yaml:"warmup"`
}

// CacheConfig is the cache{} block of §6.
type CacheConfig struct {
	Enabled      bool                         `yaml:"enabled"`
	Strategy     string                       `yaml:"strategy"`
	Memory       MemoryCacheConfig            `yaml:"memory"`
	Remote       RemoteCacheConfig            `yaml:"remote"`
	ContentTypes map[string]ContentTypeConfig `yaml:"content_types"`
}

// SemanticSearchConfig is the optional semantic_search{} block; nil means
// the feature is disabled.
type SemanticSearchConfig struct {
	Provider string  `yaml:"provider"`
	Endpoint string  `yaml:"endpoint"`
	APIKey   string  `yaml:"api_key"`
	Model    string  `yaml:"model"`
	MinScore float64 `yaml:"min_score"`
}

// Config is the full configuration tree of §6.
type Config struct {
	Server         ServerConfig          `yaml:"server"`
	Sources        []SourceConfig        `yaml:"sources"`
	Cache          CacheConfig           `yaml:"cache"`
	SemanticSearch *SemanticSearchConfig `yaml:"semantic_search"`
}

// Defaults returns the configuration used when no file is supplied and no
// key is present in the loaded YAML tree, mirroring the teacher's
// set-defaults-then-overlay-YAML loading order.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:          8080,
			Host:          "0.0.0.0",
			LogLevel:      "info",
			MaxBodyMB:     10,
			ReadTimeoutS:  30,
			WriteTimeoutS: 30,
		},
		Cache: CacheConfig{
			Enabled:  true,
			Strategy: "hybrid",
			Memory: MemoryCacheConfig{
				MaxKeys:            10000,
				TTLSeconds:         3600,
				CheckPeriodSeconds: 60,
			},
			Remote: RemoteCacheConfig{
				Enabled:              false,
				TTLSeconds:           3600,
				KeyPrefix:            "pp:",
				ConnectionTimeoutMS:  5000,
				RetryDelayMS:         500,
				MaxRetryDelayMS:      30000,
				BackoffMultiplier:    2.0,
				ConnectionRetryLimit: 10,
			},
		},
	}
}
