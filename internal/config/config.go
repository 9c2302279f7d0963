package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	HostHeadless = "headless"
	HostConsole  = "console"
	HostWindow   = "window"
)

type Config struct {
	Variant  string         `yaml:"variant"`
	Host     HostConfig     `yaml:"host"`
	Asset    AssetConfig    `yaml:"asset"`
	Controls ControlsConfig `yaml:"controls"`
	Spectate SpectateConfig `yaml:"spectate"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type HostConfig struct {
	Mode     string `yaml:"mode"`
	Width    int    `yaml:"width"`
	Height   int    `yaml:"height"`
	Title    string `yaml:"title"`
	TickRate int    `yaml:"tick_rate"`
	VSync    bool   `yaml:"vsync"`
}

type AssetConfig struct {
	Root  string `yaml:"root"`
	Model string `yaml:"model"`
}

type ControlsConfig struct {
	Forward string `yaml:"forward"`
	Back    string `yaml:"back"`
	Left    string `yaml:"left"`
	Right   string `yaml:"right"`
	Jump    string `yaml:"jump"`
	// Sensitivity overrides the radians-per-pixel mouse factor when > 0.
	Sensitivity float64 `yaml:"sensitivity"`
}

type SpectateConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

func Default() *Config {
	return &Config{
		Variant: "field",
		Host: HostConfig{
			Mode:     HostWindow,
			Width:    800,
			Height:   600,
			Title:    "walker",
			TickRate: 60,
			VSync:    true,
		},
		Asset: AssetConfig{
			Root:  "assets",
			Model: "models/player.glb",
		},
		Controls: ControlsConfig{
			Forward: "w",
			Back:    "s",
			Left:    "a",
			Right:   "d",
			Jump:    " ",
		},
		Spectate: SpectateConfig{
			Listen: "127.0.0.1:8080",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Variant {
	case "field", "blocks":
	default:
		return fmt.Errorf("invalid variant %q (want field or blocks)", c.Variant)
	}
	switch c.Host.Mode {
	case HostHeadless, HostConsole, HostWindow:
	default:
		return fmt.Errorf("invalid host mode %q", c.Host.Mode)
	}
	if c.Host.Width <= 0 || c.Host.Height <= 0 {
		return fmt.Errorf("invalid host size %dx%d", c.Host.Width, c.Host.Height)
	}
	if c.Host.TickRate <= 0 {
		return fmt.Errorf("invalid tick rate %d", c.Host.TickRate)
	}
	if c.Asset.Model == "" {
		return fmt.Errorf("asset.model is empty")
	}
	if c.Controls.Sensitivity < 0 {
		return fmt.Errorf("invalid mouse sensitivity %v", c.Controls.Sensitivity)
	}
	if c.Spectate.Enabled && c.Spectate.Listen == "" {
		return fmt.Errorf("spectate.listen is empty")
	}
	return nil
}
