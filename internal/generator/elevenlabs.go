package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/time/rate"

	"github.com/ivlev/reelprep/internal/fault"
)

// Voice settings tuned for short-form narration: lower stability and a high
// style value make the delivery livelier.
var defaultVoiceSettings = voiceSettings{
	Stability:       0.4,
	SimilarityBoost: 0.8,
	Style:           0.7,
	UseSpeakerBoost: true,
}

// ElevenLabs calls the text-to-speech REST endpoint and streams the MP3 body to disk.
type ElevenLabs struct {
	client  *http.Client
	baseURL string
	apiKey  string
	voiceID string
	model   string
	limiter *rate.Limiter
}

func NewElevenLabs(client *http.Client, baseURL, apiKey, voiceID, model string, rps float64) *ElevenLabs {
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	return &ElevenLabs{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		voiceID: voiceID,
		model:   model,
		limiter: rate.NewLimiter(limit, 1),
	}
}

type ttsRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
}

func (e *ElevenLabs) Synthesize(ctx context.Context, text, outputPath string) error {
	if err := e.limiter.Wait(ctx); err != nil {
		return err
	}

	body, err := json.Marshal(ttsRequest{Text: text, ModelID: e.model, VoiceSettings: defaultVoiceSettings})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1/text-to-speech/%s", e.baseURL, url.PathEscape(e.voiceID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("xi-api-key", e.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := e.client.Do(req)
	if err != nil {
		return fault.External("elevenlabs", err, nil)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fault.External("elevenlabs", fmt.Errorf("HTTP %d", resp.StatusCode), msg)
	}

	return writeAtomic(outputPath, resp.Body)
}

// writeAtomic copies r into path through a temp file so an interrupted
// download never leaves a file the stage gate would accept.
func writeAtomic(path string, r io.Reader) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".tts-*"+filepath.Ext(path))
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return fault.External("elevenlabs", err, nil)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if n == 0 {
		return fault.External("elevenlabs", fmt.Errorf("empty audio body"), nil)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
