package director

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/reelprep/internal/state"
)

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    int
		wantErr bool
	}{
		{"plain", `{"slides":[{"type":"hook","text_to_tts":"a","z_image_prompt":"b"}]}`, 1, false},
		{"fenced json", "```json\n{\"slides\":[{\"type\":\"hook\"}]}\n```", 1, false},
		{"bare fence", "```\n{\"slides\":[{},{}]}\n```", 2, false},
		{"chatter", "Вот сценарий:\n{\"slides\":[{}]}\nУдачи!", 1, false},
		{"garbage", "не могу помочь", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseResponse(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, got.Slides, tt.want)
		})
	}
}

func TestValidate(t *testing.T) {
	ok := &state.Scenario{Slides: []state.SlideSpec{{Type: "hook", NarrationText: "a", ImagePrompt: "b"}}}
	assert.NoError(t, Validate(ok))

	assert.Error(t, Validate(nil))
	assert.Error(t, Validate(&state.Scenario{}))

	bad := &state.Scenario{Slides: []state.SlideSpec{{Type: "hook", NarrationText: " ", ImagePrompt: "b"}}}
	err := Validate(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "slide 0: text_to_tts is empty")
}

func TestReadScenarioYAMLAndJSON(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(`slides:
  - type: hook
    text_to_tts: "Кто он?"
    z_image_prompt: "hooded figure, centered"
  - type: outro
    text_to_tts: "Подписывайся."
    z_image_prompt: "empty corridor"
`), 0644))

	fromYAML, err := ReadScenario(yamlPath)
	require.NoError(t, err)
	require.Len(t, fromYAML.Slides, 2)
	assert.Equal(t, "Кто он?", fromYAML.Slides[0].NarrationText)

	jsonPath := filepath.Join(dir, "scenario.json")
	require.NoError(t, WriteScenario(fromYAML, jsonPath))

	fromJSON, err := ReadScenario(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, fromYAML, fromJSON)

	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"z_image_prompt": "empty corridor"`)
}

func TestReadScenarioRejectsIncomplete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("slides:\n  - type: hook\n"), 0644))

	_, err := ReadScenario(path)
	assert.Error(t, err)
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "Приве...", Excerpt("Привет мир", 5))
	assert.Equal(t, "мир", Excerpt("мир", 5))
}
