package config

import (
	"fmt"
	"unicode/utf8"

	"gridspread/internal/grid"
)

type SimConfig struct {
	Rounds         int            `yaml:"rounds"`
	StartDirection grid.Direction `yaml:"start_direction"`
	UntilStable    bool           `yaml:"until_stable"`
	MaxRounds      int            `yaml:"max_rounds"`
	Workers        int            `yaml:"workers"`
	Glyphs         GlyphsDef      `yaml:"glyphs"`
	SnapshotDir    string         `yaml:"snapshot_dir"`
	IndexDB        string         `yaml:"index_db"`
	Observer       ObserverDef    `yaml:"observer"`
}

type GlyphsDef struct {
	Occupied string `yaml:"occupied"`
	Empty    string `yaml:"empty"`
}

type ObserverDef struct {
	Addr         string `yaml:"addr"`
	FrameDelayMs int    `yaml:"frame_delay_ms"`
}

func Default() SimConfig {
	return SimConfig{
		Rounds:         10,
		StartDirection: grid.North,
		MaxRounds:      100000,
		Workers:        1,
		Glyphs:         GlyphsDef{Occupied: "#", Empty: "."},
	}
}

// GridGlyphs converts the configured strings into parser glyphs.
func (c SimConfig) GridGlyphs() (grid.Glyphs, error) {
	occ, err := singleRune("glyphs.occupied", c.Glyphs.Occupied)
	if err != nil {
		return grid.Glyphs{}, err
	}
	empty, err := singleRune("glyphs.empty", c.Glyphs.Empty)
	if err != nil {
		return grid.Glyphs{}, err
	}
	if occ == empty {
		return grid.Glyphs{}, fmt.Errorf("%w: occupied and empty glyph are both %q", ErrInvalidConfig, occ)
	}
	return grid.Glyphs{Occupied: occ, Empty: empty}, nil
}

func (c SimConfig) Validate() error {
	if c.Rounds < 0 {
		return fmt.Errorf("%w: rounds must be >= 0, got %d", ErrInvalidConfig, c.Rounds)
	}
	if c.UntilStable && c.MaxRounds < 1 {
		return fmt.Errorf("%w: max_rounds must be >= 1 with until_stable", ErrInvalidConfig)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be >= 1, got %d", ErrInvalidConfig, c.Workers)
	}
	if c.Observer.FrameDelayMs < 0 {
		return fmt.Errorf("%w: observer.frame_delay_ms must be >= 0", ErrInvalidConfig)
	}
	_, err := c.GridGlyphs()
	return err
}

func singleRune(field, s string) (rune, error) {
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("%w: %s must be one character, got %q", ErrInvalidConfig, field, s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	if r == '\n' || r == '\r' {
		return 0, fmt.Errorf("%w: %s cannot be a line break", ErrInvalidConfig, field)
	}
	return r, nil
}
