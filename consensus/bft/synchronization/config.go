package synchronization

// DefaultMaxRequestedVertices bounds the number of vertices returned for a single request.
const DefaultMaxRequestedVertices = 100

type Config struct {
	MaxRequestedVertices int
}

func DefaultConfig() *Config {
	return &Config{
		MaxRequestedVertices: DefaultMaxRequestedVertices,
	}
}

type OptionFunc func(*Config)

// WithMaxRequestedVertices sets the maximum number of vertices answered per request. Larger
// requests are refused.
func WithMaxRequestedVertices(max int) OptionFunc {
	return func(cfg *Config) {
		cfg.MaxRequestedVertices = max
	}
}
