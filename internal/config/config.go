// Package config resolves emulator settings from flags, environment and the
// optional ~/.chyp8 config file.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/beanboi7/chyp8/chyp"
	"github.com/beanboi7/chyp8/emu/audio"
	"github.com/beanboi7/chyp8/emu/cpu"
)

const (
	EnvPrefix = "CHYP8"
	FileName  = ".chyp8"
)

// Config mirrors the viper keys.
type Config struct {
	InstructionsPerFrame int         `mapstructure:"ipf"`
	RefreshRate          int         `mapstructure:"refresh"`
	Scale                float64     `mapstructure:"scale"`
	Quirks               string      `mapstructure:"quirks"`
	Quirk                QuirkConfig `mapstructure:"quirk"`
	Seed                 int64       `mapstructure:"seed"`
	OnError              string      `mapstructure:"on_error"`
	Audio                AudioConfig `mapstructure:"audio"`
	Verbose              int         `mapstructure:"verbose"`
}

// QuirkConfig overrides single quirks of the selected preset.
type QuirkConfig struct {
	ShiftUsesVY          *bool `mapstructure:"shift_uses_vy"`
	LoadStoreIncrementsI *bool `mapstructure:"load_store_increments_i"`
	ResetVF              *bool `mapstructure:"reset_vf"`
	ClipSprites          *bool `mapstructure:"clip_sprites"`
}

type AudioConfig struct {
	File      string  `mapstructure:"file"`
	Frequency float64 `mapstructure:"frequency"`
	Volume    float64 `mapstructure:"volume"`
	Mute      bool    `mapstructure:"mute"`
}

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("ipf", 10)
	v.SetDefault("refresh", 60)
	v.SetDefault("scale", 15)
	v.SetDefault("quirks", "vip")
	v.SetDefault("seed", 0)
	v.SetDefault("on_error", "halt")
	v.SetDefault("audio.file", "")
	v.SetDefault("audio.frequency", 440)
	v.SetDefault("audio.volume", 0.2)
	v.SetDefault("audio.mute", false)
	v.SetDefault("verbose", 0)
}

// Load decodes and validates the settings held by v.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) Validate() error {
	if cfg.InstructionsPerFrame < 0 {
		return fmt.Errorf("ipf must not be negative, got %d", cfg.InstructionsPerFrame)
	}
	if cfg.RefreshRate <= 0 {
		return fmt.Errorf("refresh must be positive, got %d", cfg.RefreshRate)
	}
	if cfg.Scale <= 0 {
		return fmt.Errorf("scale must be positive, got %v", cfg.Scale)
	}
	if cfg.Audio.Volume < 0 || cfg.Audio.Volume > 1 {
		return fmt.Errorf("audio.volume must be within [0, 1], got %v", cfg.Audio.Volume)
	}
	if cfg.Audio.Frequency <= 0 {
		return fmt.Errorf("audio.frequency must be positive, got %v", cfg.Audio.Frequency)
	}
	if _, err := cfg.CPUQuirks(); err != nil {
		return err
	}
	if _, err := cfg.Policy(); err != nil {
		return err
	}
	return nil
}

// CPUQuirks returns the named preset with any single overrides applied.
func (cfg *Config) CPUQuirks() (cpu.Quirks, error) {
	q, err := cpu.QuirksByName(cfg.Quirks)
	if err != nil {
		return q, err
	}

	override := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	override(&q.ShiftUsesVY, cfg.Quirk.ShiftUsesVY)
	override(&q.LoadStoreIncrementsI, cfg.Quirk.LoadStoreIncrementsI)
	override(&q.ResetVF, cfg.Quirk.ResetVF)
	override(&q.ClipSprites, cfg.Quirk.ClipSprites)
	return q, nil
}

func (cfg *Config) Policy() (chyp.ErrorPolicy, error) {
	return chyp.ParsePolicy(cfg.OnError)
}

func (cfg *Config) SessionOptions() (chyp.Options, error) {
	policy, err := cfg.Policy()
	if err != nil {
		return chyp.Options{}, err
	}
	return chyp.Options{
		InstructionsPerFrame: cfg.InstructionsPerFrame,
		RefreshRate:          cfg.RefreshRate,
		Policy:               policy,
	}, nil
}

func (cfg *Config) AudioConfig() audio.Config {
	return audio.Config{
		File:      cfg.Audio.File,
		Frequency: cfg.Audio.Frequency,
		Volume:    cfg.Audio.Volume,
	}
}
