package schema

// DefaultHistoryLimit caps the per-connection conversation history.
const DefaultHistoryLimit = 20

// DefaultSearchLimit is the default number of retrieval results.
const DefaultSearchLimit = 5

// ServiceConfig defines defaults and limits for the core service.
type ServiceConfig struct {
	// HistoryLimit bounds conversation turns kept per connection.
	HistoryLimit int
	// SearchLimit bounds retrieval results per semantic lookup.
	SearchLimit int
}

// NormalizeServiceConfig applies defaults and validates the config.
func NormalizeServiceConfig(cfg ServiceConfig) (ServiceConfig, error) {
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = DefaultHistoryLimit
	}
	if cfg.SearchLimit <= 0 {
		cfg.SearchLimit = DefaultSearchLimit
	}
	return cfg, nil
}
