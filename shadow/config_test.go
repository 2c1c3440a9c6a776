package shadow

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_SanitizeClampsNegatives(t *testing.T) {
	cfg := Config{
		Target:  RefreshTarget(42),
		Basis:   CounterBasis(-3),
		FullMap: Threshold{Frames: -5, Seconds: -0.5},
	}
	cfg.Cascades[1] = Threshold{Frames: 7, Seconds: math.NaN()}
	cfg.Subshadows[5] = Threshold{Frames: -1, Seconds: math.Inf(1)}

	got := cfg.Sanitize()

	assert.Equal(t, RefreshFullMap, got.Target)
	assert.Equal(t, CountFrames, got.Basis)
	assert.Equal(t, Threshold{}, got.FullMap)
	assert.Equal(t, Threshold{Frames: 7}, got.Cascades[1])
	assert.Equal(t, Threshold{}, got.Subshadows[5])
}

func TestConfig_SetUnitIgnoresOutOfRange(t *testing.T) {
	var cfg Config
	cfg.SetCascade(NumCascades, Threshold{Frames: 1})
	cfg.SetSubshadow(-1, Threshold{Frames: 1})
	assert.Equal(t, Config{}, cfg)

	cfg.SetSubshadow(NumSubshadows-1, Threshold{Frames: -9, Seconds: 2})
	assert.Equal(t, Threshold{Seconds: 2}, cfg.Subshadows[NumSubshadows-1])
}

func TestConfig_Thresholds(t *testing.T) {
	cfg := Config{FullMap: Threshold{Frames: 9}}
	cfg.SetCascade(3, Threshold{Frames: 4})

	assert.Equal(t, []Threshold{{Frames: 9}}, cfg.Thresholds())

	cfg.Target = RefreshCascades
	require.Len(t, cfg.Thresholds(), NumCascades)
	assert.Equal(t, 4, cfg.Thresholds()[3].Frames)

	cfg.Target = RefreshSubshadows
	assert.Len(t, cfg.Thresholds(), NumSubshadows)
}

func TestLoadConfig(t *testing.T) {
	src := `{
		"target": "subshadows",
		"basis": "seconds",
		"full_map": {"frames": 10},
		"subshadows": [{"seconds": 1.0}, {}, {"seconds": 2.5}],
		"motion_trigger": true
	}`

	cfg, err := LoadConfig(strings.NewReader(src))
	require.NoError(t, err)

	assert.Equal(t, RefreshSubshadows, cfg.Target)
	assert.Equal(t, CountSeconds, cfg.Basis)
	assert.Equal(t, 10, cfg.FullMap.Frames)
	assert.Equal(t, 1.0, cfg.Subshadows[0].Seconds)
	assert.Equal(t, 2.5, cfg.Subshadows[2].Seconds)
	assert.Equal(t, Threshold{}, cfg.Subshadows[5])
	assert.True(t, cfg.MotionTrigger)
}

func TestLoadConfig_ClampsNegatives(t *testing.T) {
	cfg, err := LoadConfig(strings.NewReader(`{"full_map": {"frames": -4, "seconds": -1}}`))
	require.NoError(t, err)
	assert.Equal(t, Threshold{}, cfg.FullMap)
}

func TestLoadConfig_Errors(t *testing.T) {
	for name, src := range map[string]string{
		"unknown target": `{"target": "everything"}`,
		"unknown basis":  `{"basis": "ticks"}`,
		"unknown field":  `{"refresh_rate": 3}`,
		"malformed":      `{"target":`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(strings.NewReader(src))
			assert.Error(t, err)
		})
	}
}

func TestSaveConfig(t *testing.T) {
	cfg := Config{Target: RefreshCascades, Basis: CountSeconds, MotionTrigger: true}
	cfg.SetCascade(0, Threshold{Seconds: 0.5})

	var buf bytes.Buffer
	require.NoError(t, SaveConfig(&buf, cfg))
	assert.Contains(t, buf.String(), `"target": "cascades"`)
	assert.Contains(t, buf.String(), `"basis": "seconds"`)

	loaded, err := LoadConfig(&buf)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
