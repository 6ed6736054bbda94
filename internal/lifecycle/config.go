package lifecycle

import "time"

// Config tunes the appliance lifecycle timings.
type Config struct {
	// GracePeriod is how long a prompted appliance waits for a response
	// before it is shut down automatically.
	GracePeriod time.Duration `mapstructure:"grace_period"`
	// TickInterval is the countdown refresh period. Zero arms only the
	// deadline firing.
	TickInterval     time.Duration `mapstructure:"tick_interval"`
	DefaultExtension time.Duration `mapstructure:"default_extension"`
	AlertRetention   time.Duration `mapstructure:"alert_retention"`
	PersistRetry     time.Duration `mapstructure:"persist_retry"`
	SaveTimeout      time.Duration `mapstructure:"save_timeout"`
	// MaxDuration caps a single run, extensions included, and a hand-logged
	// entry.
	MaxDuration time.Duration `mapstructure:"max_duration"`
}

// DefaultConfig returns the standard timings.
func DefaultConfig() Config {
	return Config{
		GracePeriod:      2 * time.Minute,
		TickInterval:     time.Second,
		DefaultExtension: 30 * time.Minute,
		AlertRetention:   12 * time.Hour,
		PersistRetry:     30 * time.Second,
		SaveTimeout:      10 * time.Second,
		MaxDuration:      7 * 24 * time.Hour,
	}
}

// withDefaults fills non-positive durations. TickInterval is kept as given;
// only a negative value is cleared.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.GracePeriod <= 0 {
		c.GracePeriod = d.GracePeriod
	}
	if c.TickInterval < 0 {
		c.TickInterval = 0
	}
	if c.DefaultExtension <= 0 {
		c.DefaultExtension = d.DefaultExtension
	}
	if c.AlertRetention <= 0 {
		c.AlertRetention = d.AlertRetention
	}
	if c.PersistRetry <= 0 {
		c.PersistRetry = d.PersistRetry
	}
	if c.SaveTimeout <= 0 {
		c.SaveTimeout = d.SaveTimeout
	}
	if c.MaxDuration < time.Minute {
		c.MaxDuration = d.MaxDuration
	}
	return c
}
