package generator

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/ivlev/reelprep/internal/config"
	"github.com/ivlev/reelprep/internal/fault"
)

// Engine names a speech provider.
type Engine string

const (
	// EnginePrimary is the free Microsoft Edge voice, driven through the edge-tts CLI.
	EnginePrimary Engine = "edge"
	// EngineFallback is the ElevenLabs HTTP API.
	EngineFallback Engine = "elevenlabs"
)

// NewSynthesizer picks the provider once, at startup.
func NewSynthesizer(cfg config.SpeechConfig) (Synthesizer, error) {
	switch Engine(cfg.Engine) {
	case EnginePrimary, "":
		return NewEdgeTTS(cfg.EdgeCommand, cfg.Voice), nil
	case EngineFallback:
		if cfg.ElevenLabsAPIKey == "" {
			return nil, fault.Missing("ELEVENLABS_API_KEY is not set (or use TTS_ENGINE=edge)")
		}
		client := &http.Client{Timeout: 120 * time.Second}
		return NewElevenLabs(client, cfg.ElevenLabsURL, cfg.ElevenLabsAPIKey, cfg.ElevenLabsVoice, cfg.ElevenLabsModel, cfg.RequestsPerSec), nil
	default:
		return nil, fmt.Errorf("unknown TTS engine %q", cfg.Engine)
	}
}

// EdgeTTS shells out to edge-tts.
type EdgeTTS struct {
	Command string
	Voice   string
	Run     CommandRunner
}

func NewEdgeTTS(command, voice string) *EdgeTTS {
	if command == "" {
		command = "edge-tts"
	}
	return &EdgeTTS{Command: command, Voice: voice}
}

func (e *EdgeTTS) Synthesize(ctx context.Context, text, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return err
	}
	if _, err := run(ctx, e.Run, e.Command, e.args(text, outputPath)...); err != nil {
		return err
	}
	return requireFile(e.Command, outputPath)
}

func (e *EdgeTTS) args(text, outputPath string) []string {
	return []string{
		"--voice", e.Voice,
		"--text", text,
		"--write-media", outputPath,
	}
}
