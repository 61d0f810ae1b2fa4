// Package director authors the slide scenario: either by asking Gemini for
// one or by importing a hand-written YAML/JSON file.
package director

import (
	"bytes"
	"context"
	"fmt"
	"text/template"

	"google.golang.org/genai"

	"github.com/ivlev/reelprep/internal/fault"
	"github.com/ivlev/reelprep/internal/state"
)

const defaultTemperature float32 = 0.9

// Author produces a new scenario.
type Author interface {
	Author(ctx context.Context) (*state.Scenario, error)
}

// contentGenerator is the part of *genai.Models the author needs.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Brief is what the prompt is rendered from.
type Brief struct {
	Theme         string
	Slides        int
	SlideDuration float64
}

// Total is the planned reel length in seconds.
func (b Brief) Total() float64 {
	return float64(b.Slides) * b.SlideDuration
}

// GeminiAuthor asks a Gemini model for the scenario JSON.
type GeminiAuthor struct {
	models contentGenerator
	model  string
	brief  Brief
}

// NewGeminiAuthor connects to the Gemini API with apiKey.
func NewGeminiAuthor(ctx context.Context, apiKey, model string, brief Brief) (*GeminiAuthor, error) {
	if apiKey == "" {
		return nil, fault.Missing("GEMINI_API_KEY is not set")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiAuthor{models: client.Models, model: model, brief: brief}, nil
}

func (g *GeminiAuthor) Author(ctx context.Context) (*state.Scenario, error) {
	prompt, err := BuildPrompt(g.brief)
	if err != nil {
		return nil, err
	}

	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(defaultTemperature),
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return nil, fault.External("gemini", err, nil)
	}

	scenario, err := ParseResponse(resp.Text())
	if err != nil {
		return nil, err
	}
	if err := Validate(scenario); err != nil {
		return nil, fmt.Errorf("gemini returned an unusable scenario: %w", err)
	}
	return scenario, nil
}

var promptTemplate = template.Must(template.New("scenario").Parse(`сделай сценарий для вирусного рилса

тема: {{.Theme}}

надо на {{printf "%.0f" .Total}} секунд и на {{.Slides}} слайдов (по {{printf "%.0f" .SlideDuration}} секунд на слайд)

Начинай с хука который мгновенно захватит внимание.
Первый слайд должен выглядеть как подозрительный объект на фоне реальности из темы с текстом над ним, чтобы выглядело кликбейтно.

ВАЖНО про промпты для изображений:
- Изображения будут обрабатываться через AI, который ОТДЕЛИТ ГЛАВНЫЙ ОБЪЕКТ ОТ ФОНА
- Каждое изображение должно иметь ОДИН ЧЕТКИЙ ГЛАВНЫЙ ОБЪЕКТ (человек, предмет, символ)
- НЕ создавай сложные композиции с множеством элементов
- Главный объект должен быть в центре или чуть выше центра
- Фон должен быть отличим от объекта

ВАЖНО про текст на изображениях:
- ТОЛЬКО на ПЕРВОМ слайде (hook) добавь текст СВЕРХУ изображения
- На остальных слайдах НЕ ДОЛЖНО БЫТЬ НИКАКОГО ТЕКСТА на изображении
- Текст озвучки будет добавлен отдельно

пример правильного промпта:
cinematic photograph of a solitary hooded figure, centered, dramatic lighting from behind creating a silhouette effect. The figure stands out clearly against a dark blurred background. Clear separation between subject and background. Superimposed at the TOP of the image in a bold, glitched font: 'КТО ОН?' -- moody, atmospheric, dark, cinematic

пример БЕЗ текста для остальных слайдов:
dramatic close-up portrait of a mysterious figure in shadow, one hand holding a vintage phone glowing with ethereal light. The figure is the clear focal point, well-defined against a softly blurred background. -- enigmatic, cinematic, atmospheric

язык русский для text_to_tts
язык английский для z_image_prompt

отдай в формате json:
{
  "slides": [{
    "type": "hook",
    "text_to_tts": "текст на русском для озвучки",
    "z_image_prompt": "english prompt with text ONLY for first slide"
  }]
}

никаких лишних данных, возвращай только json`))

// BuildPrompt renders the authoring prompt for b.
func BuildPrompt(b Brief) (string, error) {
	if b.Slides <= 0 {
		return "", fmt.Errorf("slide count must be positive, got %d", b.Slides)
	}
	var buf bytes.Buffer
	if err := promptTemplate.Execute(&buf, b); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return buf.String(), nil
}
