package bot

import "time"

const (
	defaultPollTimeout   = 10 * time.Second
	defaultNotifyWorkers = 4
)

// Config carries the transport settings.
type Config struct {
	// Token is the Telegram bot API token.
	Token string

	// PollTimeout is the long-polling timeout.
	PollTimeout time.Duration

	// NotifyWorkers is the size of the notification worker pool.
	NotifyWorkers int
}

// DefaultConfig returns a Config with default timeouts and pool size.
// Token must still be set by the caller.
func DefaultConfig() *Config {
	return &Config{
		PollTimeout:   defaultPollTimeout,
		NotifyWorkers: defaultNotifyWorkers,
	}
}
