// Package numerator provides the contract for human-readable reference numbers.
// Implementations live in infrastructure layer.
package numerator

import (
	"context"
	"fmt"
	"time"
)

// Reset periods.
const (
	ResetYearly = "year"
	ResetNever  = "never"
)

// Config holds numbering configuration for one document or catalog kind.
type Config struct {
	// Prefix added to all numbers (e.g., "INV", "SO")
	Prefix string

	// IncludeYear adds year to the number
	IncludeYear bool

	// PadWidth is the minimum number width (default 5)
	PadWidth int

	// ResetPeriod: "year" or "never"
	ResetPeriod string
}

// DefaultConfig returns the PREFIX-YYYY-NNNNN layout with a yearly sequence.
func DefaultConfig(prefix string) Config {
	return Config{
		Prefix:      prefix,
		IncludeYear: true,
		PadWidth:    5,
		ResetPeriod: ResetYearly,
	}
}

// CatalogConfig returns the PREFIX-NNNN layout used for catalog codes.
func CatalogConfig(prefix string) Config {
	return Config{
		Prefix:      prefix,
		PadWidth:    4,
		ResetPeriod: ResetNever,
	}
}

// Key identifies the sequence a number is drawn from.
func (c Config) Key(period time.Time) string {
	if c.ResetPeriod == ResetYearly {
		return fmt.Sprintf("%s:%d", c.Prefix, period.Year())
	}
	return c.Prefix
}

// Format renders value according to the config.
func (c Config) Format(value int64, period time.Time) string {
	width := c.PadWidth
	if width <= 0 {
		width = 5
	}
	if c.IncludeYear {
		return fmt.Sprintf("%s-%d-%0*d", c.Prefix, period.Year(), width, value)
	}
	return fmt.Sprintf("%s-%0*d", c.Prefix, width, value)
}

// Generator generates sequential reference numbers.
// Numbers are unique per sequence and never handed out twice.
type Generator interface {
	// GetNextNumber returns the next number, e.g. INV-2024-00001.
	GetNextNumber(ctx context.Context, cfg Config, period time.Time) (string, error)

	// SetNextNumber sets the next value of a sequence (for imports).
	SetNextNumber(ctx context.Context, cfg Config, period time.Time, value int64) error
}
