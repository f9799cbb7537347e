package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// Configuration
// ---------------------------------------------------------------------------

const defaultConfigFile = "tecniquim.yaml"

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"user"`
	Password string `yaml:"pass"`
}

type EmailConfig struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// CanvasConfig is the drawing surface in canvas units (pixels). Scale
// converts canvas units to PDF points.
type CanvasConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Scale  float64 `yaml:"scale"`
}

// FontConfig selects the caption font. When File is set, the TrueType font
// is embedded under Family/Style; otherwise Family must be a PDF core font.
type FontConfig struct {
	Family string  `yaml:"family"`
	Style  string  `yaml:"style"`
	Size   float64 `yaml:"size"`
	File   string  `yaml:"file"`
}

// CaptionConfig places the wrapped horoscope on the front page.
type CaptionConfig struct {
	X       float64 `yaml:"x"`
	Y       float64 `yaml:"y"`
	Width   float64 `yaml:"width"`
	Leading float64 `yaml:"leading"` // 0 means 1.275 × font size
}

// PosterConfig locates the vector posters and places them on the back page.
type PosterConfig struct {
	Dir       string  `yaml:"dir"`
	Pattern   string  `yaml:"pattern"`
	X         float64 `yaml:"x"`
	Y         float64 `yaml:"y"`
	Scale     float64 `yaml:"scale"`
	LineWidth float64 `yaml:"lineWidth"`
}

type Config struct {
	Run        int           `yaml:"run"` // number of posters in the edition
	Horoscopes string        `yaml:"horoscopes"`
	Output     string        `yaml:"output"`
	Canvas     CanvasConfig  `yaml:"canvas"`
	Font       FontConfig    `yaml:"font"`
	Caption    CaptionConfig `yaml:"caption"`
	Posters    PosterConfig  `yaml:"posters"`
	SMTP       SMTPConfig    `yaml:"smtp"`
	Email      EmailConfig   `yaml:"email"`
}

// defaultConfig reproduces the layout of the first Tecniquim edition.
func defaultConfig() *Config {
	return &Config{
		Run:        3,
		Horoscopes: "horoscopos.txt",
		Canvas:     CanvasConfig{Width: 1587, Height: 1122, Scale: 0.75},
		Font:       FontConfig{Family: "Courier", Style: "B", Size: 12},
		Caption:    CaptionConfig{X: 1290, Y: 660, Width: 200},
		Posters: PosterConfig{
			Dir:       "posters",
			Pattern:   "*.svg",
			X:         60,
			Y:         40,
			Scale:     1.15,
			LineWidth: 1,
		},
		SMTP: SMTPConfig{Port: 587},
	}
}

// loadConfig reads and parses the YAML configuration file on top of the
// defaults.
func loadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Run <= 0:
		return errors.Errorf("run must be positive, got %d", c.Run)
	case c.Canvas.Width <= 0 || c.Canvas.Height <= 0:
		return errors.Errorf("canvas size must be positive, got %vx%v", c.Canvas.Width, c.Canvas.Height)
	case c.Canvas.Scale <= 0:
		return errors.Errorf("canvas scale must be positive, got %v", c.Canvas.Scale)
	case c.Font.Size <= 0:
		return errors.Errorf("font size must be positive, got %v", c.Font.Size)
	case c.Caption.Width <= 0:
		return errors.Errorf("caption width must be positive, got %v", c.Caption.Width)
	case c.Posters.Scale <= 0:
		return errors.Errorf("poster scale must be positive, got %v", c.Posters.Scale)
	}
	return nil
}

// OutputFile returns the configured output name, or Tecniquim0-<run>.pdf.
func (c *Config) OutputFile() string {
	if c.Output != "" {
		return c.Output
	}
	return fmt.Sprintf("Tecniquim0-%d.pdf", c.Run)
}

// CaptionLeading returns the distance between caption baselines.
func (c *Config) CaptionLeading() float64 {
	if c.Caption.Leading > 0 {
		return c.Caption.Leading
	}
	return c.Font.Size * 1.275
}

// CanSendEmail reports whether SMTP delivery is configured.
func (c *Config) CanSendEmail() bool {
	return c.SMTP.Host != "" && c.Email.From != "" && c.Email.To != ""
}
