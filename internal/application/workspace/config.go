package workspace

import (
	"fmt"
	"time"

	"github.com/penwyp/go-chrono-atlas/internal/core/entity"
	"github.com/penwyp/go-chrono-atlas/internal/core/spatial"
	"github.com/penwyp/go-chrono-atlas/internal/data/scanner"
)

// Config contains configuration shared by every atlas command.
type Config struct {
	// Atlas sources
	DataDir    string
	Files      []string
	Extensions []string

	// Interpolation and indexing
	ResampleCount int
	IndexCapacity int
	IndexMaxDepth int
	WorldMargin   float64

	// Performance settings
	Concurrency int

	// Output
	OutputFormat string
	Timezone     string

	// Play mode
	StartYear float64
	EndYear   float64
	Step      float64
	FrameRate float64
	Watch     bool
}

// Validate fills defaults and rejects values no command can run with.
func (c *Config) Validate() error {
	if c.DataDir == "" && len(c.Files) == 0 {
		c.DataDir = "."
	}
	if len(c.Extensions) == 0 {
		c.Extensions = []string{scanner.DefaultExtension}
	}
	if c.ResampleCount == 0 {
		c.ResampleCount = entity.DefaultResampleCount
	}
	if c.IndexCapacity == 0 {
		c.IndexCapacity = spatial.DefaultCapacity
	}
	if c.IndexMaxDepth == 0 {
		c.IndexMaxDepth = spatial.DefaultMaxDepth
	}
	if c.WorldMargin == 0 {
		c.WorldMargin = DefaultWorldMargin
	}
	if c.Concurrency == 0 {
		c.Concurrency = 4
	}
	if c.OutputFormat == "" {
		c.OutputFormat = "table"
	}
	if c.Timezone == "" {
		c.Timezone = "Local"
	}
	if c.Step == 0 {
		c.Step = 10
	}
	if c.FrameRate == 0 {
		c.FrameRate = 4
	}

	switch {
	case c.ResampleCount < 3:
		return fmt.Errorf("resample count must be at least 3, got %d", c.ResampleCount)
	case c.IndexCapacity < 1 || c.IndexMaxDepth < 1:
		return fmt.Errorf("index capacity and depth must be positive")
	case c.WorldMargin < 0:
		return fmt.Errorf("world margin must not be negative, got %g", c.WorldMargin)
	case c.Concurrency < 1:
		return fmt.Errorf("concurrency must be positive, got %d", c.Concurrency)
	case c.FrameRate < 0:
		return fmt.Errorf("frame rate must not be negative, got %g", c.FrameRate)
	case c.EndYear < c.StartYear:
		return fmt.Errorf("end year %g is before start year %g", c.EndYear, c.StartYear)
	}
	return nil
}

// FrameInterval is the delay between play-mode frames.
func (c *Config) FrameInterval() time.Duration {
	if c.FrameRate <= 0 {
		return time.Second
	}
	return time.Duration(float64(time.Second) / c.FrameRate)
}
