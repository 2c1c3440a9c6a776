package shadow

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
)

// Threshold is the refresh interval of one shadow unit. Zero disables
// automatic refresh for that unit in the given basis.
type Threshold struct {
	Frames  int     `json:"frames"`
	Seconds float64 `json:"seconds"`
}

func (t Threshold) sanitize() Threshold {
	if t.Frames < 0 {
		t.Frames = 0
	}
	if t.Seconds < 0 || math.IsNaN(t.Seconds) || math.IsInf(t.Seconds, 0) {
		t.Seconds = 0
	}
	return t
}

// Config is everything a host can change between frames.
type Config struct {
	Target        RefreshTarget            `json:"target"`
	Basis         CounterBasis             `json:"basis"`
	FullMap       Threshold                `json:"full_map"`
	Cascades      [NumCascades]Threshold   `json:"cascades"`
	Subshadows    [NumSubshadows]Threshold `json:"subshadows"`
	MotionTrigger bool                     `json:"motion_trigger"`
}

// Sanitize clamps every threshold to a non-negative value and resets unknown
// enum values to the defaults.
func (c Config) Sanitize() Config {
	if !c.Target.valid() {
		c.Target = RefreshFullMap
	}
	if !c.Basis.valid() {
		c.Basis = CountFrames
	}
	c.FullMap = c.FullMap.sanitize()
	for i := range c.Cascades {
		c.Cascades[i] = c.Cascades[i].sanitize()
	}
	for i := range c.Subshadows {
		c.Subshadows[i] = c.Subshadows[i].sanitize()
	}
	return c
}

// Thresholds returns the thresholds of the active target, in unit order.
func (c Config) Thresholds() []Threshold {
	switch c.Target {
	case RefreshCascades:
		return c.Cascades[:]
	case RefreshSubshadows:
		return c.Subshadows[:]
	}
	return []Threshold{c.FullMap}
}

// SetCascade sets the thresholds of cascade i; out of range indices are ignored.
func (c *Config) SetCascade(i int, t Threshold) {
	if i < 0 || i >= NumCascades {
		return
	}
	c.Cascades[i] = t.sanitize()
}

// SetSubshadow sets the thresholds of sub-shadow i; out of range indices are ignored.
func (c *Config) SetSubshadow(i int, t Threshold) {
	if i < 0 || i >= NumSubshadows {
		return
	}
	c.Subshadows[i] = t.sanitize()
}

// LoadConfig decodes a JSON configuration and sanitizes it.
func LoadConfig(r io.Reader) (Config, error) {
	var cfg Config
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode shadow config: %w", err)
	}
	return cfg.Sanitize(), nil
}

func SaveConfig(w io.Writer, cfg Config) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(cfg.Sanitize()); err != nil {
		return fmt.Errorf("encode shadow config: %w", err)
	}
	return nil
}
