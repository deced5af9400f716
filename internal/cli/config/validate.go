package config

import (
	"fmt"
	"os"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Deck == "" {
		return fmt.Errorf("deck is required")
	}
	if c.Render.Concurrency < 1 {
		return fmt.Errorf("render.concurrency must be at least 1, got %d", c.Render.Concurrency)
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative")
	}
	switch c.OutputFormat {
	case "", "auto", "text", "markdown", "json":
	default:
		return fmt.Errorf("unknown output format %q (want auto, text, markdown or json)", c.OutputFormat)
	}
	return nil
}

// ValidateDeck checks that the deck file exists.
func (c *Config) ValidateDeck() error {
	info, err := os.Stat(c.Deck)
	if os.IsNotExist(err) {
		return fmt.Errorf("deck does not exist: %s\nHint: Run 'leapslides init' or use --deck to specify a different file", c.Deck)
	}
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("deck is a directory: %s", c.Deck)
	}
	return nil
}
