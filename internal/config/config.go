package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigFile    = "reelprep.yaml"
	DefaultSlideDuration = 5.0
	DefaultFPS           = 30
	DefaultImageCommand  = "sd-z --cfg-scale 1 --clip-on-cpu --diffusion-fa --steps 8"
	DefaultVoice         = "ru-RU-DmitryNeural"
	DefaultTheme         = "SCP в постсоветской тематике с аналоговым хоррором"
)

// Config holds every knob of the four stages. Values are layered:
// defaults, then the YAML file, then .env, then the process environment.
type Config struct {
	OutputDir     string  `yaml:"output_dir" env:"OUTPUT_DIR"`
	TempDir       string  `yaml:"temp_dir" env:"TEMP_DIR"`
	SlideDuration float64 `yaml:"slide_duration" env:"SLIDE_DURATION"`
	FPS           int     `yaml:"fps" env:"FPS"`

	Image    ImageConfig    `yaml:"image"`
	Segment  SegmentConfig  `yaml:"segment"`
	Speech   SpeechConfig   `yaml:"speech"`
	Scenario ScenarioConfig `yaml:"scenario"`
	Log      LogConfig      `yaml:"log"`

	ProbeCommand      string `yaml:"probe_command" env:"FFPROBE_COMMAND"`
	MinFreeMemoryMB   uint64 `yaml:"min_free_memory_mb" env:"MIN_FREE_MEMORY_MB"`
	StatusConcurrency int    `yaml:"status_concurrency" env:"STATUS_CONCURRENCY"`
}

type ImageConfig struct {
	// Command is the image generator invocation without size, prompt and output flags.
	Command string `yaml:"command" env:"SD_Z_COMMAND"`
	Width   int    `yaml:"width" env:"IMAGE_WIDTH"`
	Height  int    `yaml:"height" env:"IMAGE_HEIGHT"`
}

type SegmentConfig struct {
	Command   string  `yaml:"command" env:"SEGMENT_COMMAND"`
	Threshold float64 `yaml:"threshold" env:"SEGMENT_THRESHOLD"`
}

type SpeechConfig struct {
	Engine           string  `yaml:"engine" env:"TTS_ENGINE"`
	Voice            string  `yaml:"voice" env:"TTS_VOICE"`
	EdgeCommand      string  `yaml:"edge_command" env:"EDGE_TTS_COMMAND"`
	ElevenLabsAPIKey string  `yaml:"-" env:"ELEVENLABS_API_KEY"`
	ElevenLabsVoice  string  `yaml:"elevenlabs_voice" env:"ELEVENLABS_VOICE_ID"`
	ElevenLabsModel  string  `yaml:"elevenlabs_model" env:"ELEVENLABS_MODEL"`
	ElevenLabsURL    string  `yaml:"elevenlabs_url" env:"ELEVENLABS_URL"`
	RequestsPerSec   float64 `yaml:"requests_per_sec" env:"ELEVENLABS_RPS"`
}

type ScenarioConfig struct {
	GeminiAPIKey string `yaml:"-" env:"GEMINI_API_KEY"`
	Model        string `yaml:"model" env:"GEMINI_MODEL"`
	Theme        string `yaml:"theme" env:"SCENARIO_THEME"`
	Slides       int    `yaml:"slides" env:"SCENARIO_SLIDES"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL"`
	Format string `yaml:"format" env:"LOG_FORMAT"`
	// File enables a rotated log file in addition to stderr.
	File       string `yaml:"file" env:"LOG_FILE"`
	MaxSizeMB  int    `yaml:"max_size_mb" env:"LOG_MAX_SIZE"`
	MaxBackups int    `yaml:"max_backups" env:"LOG_MAX_BACKUPS"`
}

// Default returns the built-in configuration: local sd-z, edge-tts and a 30 fps, 5 s per slide timeline.
func Default() *Config {
	return &Config{
		OutputDir:     "./output",
		TempDir:       "./temp",
		SlideDuration: DefaultSlideDuration,
		FPS:           DefaultFPS,
		Image: ImageConfig{
			Command: DefaultImageCommand,
			Width:   480,
			Height:  640,
		},
		Segment: SegmentConfig{
			Command:   "transparent-background",
			Threshold: 0.1,
		},
		Speech: SpeechConfig{
			Engine:          "edge",
			Voice:           DefaultVoice,
			EdgeCommand:     "edge-tts",
			ElevenLabsVoice: "JBFqnCBsd6RMkjVDRZzb",
			ElevenLabsModel: "eleven_turbo_v2_5",
			ElevenLabsURL:   "https://api.elevenlabs.io",
			RequestsPerSec:  2,
		},
		Scenario: ScenarioConfig{
			Model:  "gemini-2.5-flash",
			Theme:  DefaultTheme,
			Slides: 5,
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "text",
			MaxSizeMB:  20,
			MaxBackups: 3,
		},
		ProbeCommand:      "ffprobe",
		MinFreeMemoryMB:   4096,
		StatusConcurrency: 4,
	}
}

// Load builds the configuration. A missing file at path is not an error when
// path is the default name; an explicitly named file must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultConfigFile
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && path == DefaultConfigFile:
	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	// .env is optional, real environment wins over it.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("parse .env: %w", err)
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values no stage can work with.
func (c *Config) Validate() error {
	if c.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", c.FPS)
	}
	if c.SlideDuration <= 0 {
		return fmt.Errorf("slide duration must be positive, got %v", c.SlideDuration)
	}
	if c.Image.Width <= 0 || c.Image.Height <= 0 {
		return fmt.Errorf("image size must be positive, got %dx%d", c.Image.Width, c.Image.Height)
	}
	if c.OutputDir == "" || c.TempDir == "" {
		return errors.New("output and temp directories must be set")
	}
	switch c.Speech.Engine {
	case "edge", "elevenlabs":
	default:
		return fmt.Errorf("unknown TTS engine %q (edge, elevenlabs)", c.Speech.Engine)
	}
	return nil
}

func (c *Config) StateFile() string    { return filepath.Join(c.OutputDir, "state.json") }
func (c *Config) TimelineFile() string { return filepath.Join(c.OutputDir, "remotion-data.json") }
func (c *Config) ScenarioFile() string { return filepath.Join(c.OutputDir, "scenario.json") }
func (c *Config) AudioDir() string     { return filepath.Join(c.OutputDir, "audio") }

// SlideDir is the per-slide working directory, keyed by the stable slide index.
func (c *Config) SlideDir(index int) string {
	return filepath.Join(c.TempDir, fmt.Sprintf("slide_%d", index))
}

// AudioFile is the narration clip for the slide with the given index.
func (c *Config) AudioFile(index int) string {
	return filepath.Join(c.AudioDir(), fmt.Sprintf("slide_%d.mp3", index))
}
