package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultFPS, cfg.FPS)
	assert.Equal(t, DefaultSlideDuration, cfg.SlideDuration)
	assert.Equal(t, "edge", cfg.Speech.Engine)
	assert.Equal(t, filepath.Join("output", "state.json"), cfg.StateFile())
	assert.Equal(t, filepath.Join("temp", "slide_3"), cfg.SlideDir(3))
	assert.Equal(t, filepath.Join("output", "audio", "slide_2.mp3"), cfg.AudioFile(2))
}

func TestLoadLayering(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	yamlCfg := []byte("fps: 25\nslide_duration: 4\nimage:\n  width: 720\n  height: 1280\nspeech:\n  engine: edge\n")
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, yamlCfg, 0644))

	t.Setenv("FPS", "60")
	t.Setenv("TTS_VOICE", "ru-RU-SvetlanaNeural")

	cfg, err := Load(path)
	require.NoError(t, err)

	// environment overrides the file, the file overrides defaults
	assert.Equal(t, 60, cfg.FPS)
	assert.Equal(t, 4.0, cfg.SlideDuration)
	assert.Equal(t, 720, cfg.Image.Width)
	assert.Equal(t, 1280, cfg.Image.Height)
	assert.Equal(t, "ru-RU-SvetlanaNeural", cfg.Speech.Voice)
	assert.Equal(t, "transparent-background", cfg.Segment.Command)
}

func TestLoadDotEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Cleanup(func() { os.Unsetenv("TTS_VOICE") })
	require.NoError(t, os.WriteFile(".env", []byte("TTS_VOICE=ru-RU-SvetlanaNeural\nFPS=24\n"), 0644))
	t.Setenv("FPS", "60")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "ru-RU-SvetlanaNeural", cfg.Speech.Voice)
	assert.Equal(t, 60, cfg.FPS, "the process environment wins over .env")
}

func TestLoadMalformedDotEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile(".env", []byte("@broken\n"), 0644))

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), ".env")
}

func TestLoadExplicitMissingFile(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := Load("nope.yaml")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"elevenlabs", func(c *Config) { c.Speech.Engine = "elevenlabs" }, false},
		{"unknown engine", func(c *Config) { c.Speech.Engine = "festival" }, true},
		{"zero fps", func(c *Config) { c.FPS = 0 }, true},
		{"negative slide", func(c *Config) { c.SlideDuration = -1 }, true},
		{"no width", func(c *Config) { c.Image.Width = 0 }, true},
		{"no output", func(c *Config) { c.OutputDir = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
