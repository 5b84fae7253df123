package traverse

import "github.com/creasty/defaults"

// Config bounds the traversals a Builder accepts.
type Config struct {
	// MaxSteps is the largest step count a traversal may request.
	MaxSteps uint32 `default:"64"`
}

// DefaultConfig returns a Config populated from its struct defaults.
func DefaultConfig() Config {
	var config Config
	if err := defaults.Set(&config); err != nil {
		panic(err)
	}
	return config
}

// Option configures a Builder.
type Option func(*Config)

// WithMaxSteps sets the largest step count a traversal may request.
func WithMaxSteps(maxSteps uint32) Option {
	return func(c *Config) {
		c.MaxSteps = maxSteps
	}
}
