package main

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		path := writeFile(t, "tecniquim.yaml", `run: 5
horoscopes: signos.txt
font:
  family: Inconsolata
  style: B
  size: 14
  file: fonts/Inconsolata-Bold.ttf
caption:
  width: 250
posters:
  dir: vetores
smtp:
  host: smtp.example.com
  port: 465
  user: user@example.com
  pass: secret
email:
  from: user@example.com
  to: grafica@example.com
`)

		cfg, err := loadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, 5, cfg.Run)
		assert.Equal(t, "signos.txt", cfg.Horoscopes)
		assert.Equal(t, "Inconsolata", cfg.Font.Family)
		assert.Equal(t, "fonts/Inconsolata-Bold.ttf", cfg.Font.File)
		assert.Equal(t, 14.0, cfg.Font.Size)
		assert.Equal(t, 250.0, cfg.Caption.Width)
		assert.Equal(t, "vetores", cfg.Posters.Dir)
		assert.Equal(t, 465, cfg.SMTP.Port)
		assert.Equal(t, "secret", cfg.SMTP.Password)
		assert.True(t, cfg.CanSendEmail())

		// untouched fields keep their defaults
		assert.Equal(t, 1290.0, cfg.Caption.X)
		assert.Equal(t, "*.svg", cfg.Posters.Pattern)
		assert.Equal(t, 0.75, cfg.Canvas.Scale)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := loadConfig("/nonexistent/tecniquim.yaml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read config file")
	})

	t.Run("invalid YAML", func(t *testing.T) {
		path := writeFile(t, "tecniquim.yaml", "{{invalid yaml")
		_, err := loadConfig(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config file")
	})

	t.Run("invalid values", func(t *testing.T) {
		tests := []struct {
			name     string
			content  string
			expected string
		}{
			{"zero run", "run: 0\n", "run must be positive, got 0"},
			{"negative caption width", "caption:\n  width: -10\n", "caption width must be positive, got -10"},
			{"zero canvas height", "canvas:\n  height: 0\n", "canvas size must be positive, got 1587x0"},
			{"zero canvas scale", "canvas:\n  scale: 0\n", "canvas scale must be positive, got 0"},
			{"zero font size", "font:\n  size: 0\n", "font size must be positive, got 0"},
			{"zero poster scale", "posters:\n  scale: 0\n", "poster scale must be positive, got 0"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := loadConfig(writeFile(t, "tecniquim.yaml", tt.content))
				require.Error(t, err)
				assert.Equal(t, tt.expected, err.Error())
				// the stack recorded by pkg/errors shows up with --verbose
				assert.Contains(t, fmt.Sprintf("%+v", err), "validate")
			})
		}
	})
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()
	require.NoError(t, cfg.validate())
	assert.Equal(t, "Tecniquim0-3.pdf", cfg.OutputFile())
	assert.InDelta(t, 15.3, cfg.CaptionLeading(), 1e-9)
	assert.False(t, cfg.CanSendEmail())

	cfg.Output = "edicao.pdf"
	cfg.Caption.Leading = 20
	assert.Equal(t, "edicao.pdf", cfg.OutputFile())
	assert.Equal(t, 20.0, cfg.CaptionLeading())
}
