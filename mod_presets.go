package shadowrefresh

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/gekko3d/shadowrefresh/shadow"
)

type ShadowPresetEntry struct {
	Entity        EntityId      `json:"entity"`
	Light         uuid.UUID     `json:"light"`
	TrackedCamera *EntityId     `json:"tracked_camera,omitempty"`
	Config        shadow.Config `json:"config"`
}

type ShadowPreset struct {
	Lights []ShadowPresetEntry `json:"lights"`
}

// CaptureShadowPreset collects the shadow refresh settings of every light.
func CaptureShadowPreset(cmd *Commands) ShadowPreset {
	preset := ShadowPreset{Lights: make([]ShadowPresetEntry, 0)}
	MakeQuery1[ShadowRefreshComponent](cmd).Map(func(eid EntityId, sr *ShadowRefreshComponent) bool {
		entry := ShadowPresetEntry{
			Entity: eid,
			Light:  sr.ID,
			Config: sr.Config.Sanitize(),
		}
		if sr.TrackedCamera != nil {
			camera := *sr.TrackedCamera
			entry.TrackedCamera = &camera
		}
		preset.Lights = append(preset.Lights, entry)
		return true
	})
	return preset
}

// ApplyShadowPreset copies the settings onto the lights with matching entity
// ids and returns how many were applied. Entries for missing entities are
// skipped. Light ids are only taken over by lights that have none yet.
func ApplyShadowPreset(cmd *Commands, preset ShadowPreset) int {
	logger := cmd.app.Logger()
	applied := 0
	for _, entry := range preset.Lights {
		sr := GetComponent[ShadowRefreshComponent](cmd, entry.Entity)
		if sr == nil {
			logger.Warnf("shadow preset: entity %v has no ShadowRefreshComponent, skipped", entry.Entity)
			continue
		}
		sr.Config = entry.Config.Sanitize()
		sr.TrackedCamera = nil
		if entry.TrackedCamera != nil {
			camera := *entry.TrackedCamera
			sr.TrackedCamera = &camera
		}
		if sr.ID == uuid.Nil {
			sr.ID = entry.Light
		}
		applied++
	}
	return applied
}

func WriteShadowPreset(cmd *Commands, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(CaptureShadowPreset(cmd)); err != nil {
		return fmt.Errorf("encode shadow preset: %w", err)
	}
	return nil
}

func ReadShadowPreset(cmd *Commands, r io.Reader) (int, error) {
	var preset ShadowPreset
	if err := json.NewDecoder(r).Decode(&preset); err != nil {
		return 0, fmt.Errorf("decode shadow preset: %w", err)
	}
	return ApplyShadowPreset(cmd, preset), nil
}

func SaveShadowPreset(cmd *Commands, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := WriteShadowPreset(cmd, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func LoadShadowPreset(cmd *Commands, filename string) (int, error) {
	f, err := os.Open(filename)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return ReadShadowPreset(cmd, f)
}
