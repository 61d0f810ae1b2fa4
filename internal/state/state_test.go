package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/reelprep/internal/fault"
)

func completedSlide(index int) SlideMetadata {
	return SlideMetadata{
		Index:           index,
		Type:            "body",
		NarrationText:   "текст",
		ImagePrompt:     "prompt",
		OriginalImage:   "../temp/slide_0/original.png",
		ForegroundImage: "../temp/slide_0/object_output/original_rgba.png",
		BackgroundImage: "../temp/slide_0/background_output/original_rgba_reverse.png",
		Pivot:           Pivot{X: 240, Y: 320},
		Dimensions:      Dimensions{Width: 480, Height: 640},
		Completed:       true,
	}
}

func TestUpsertReplacesInPlace(t *testing.T) {
	st := New()
	st.Upsert(completedSlide(0))
	st.Upsert(completedSlide(1))
	st.Upsert(completedSlide(2))

	updated := completedSlide(1)
	updated.Pivot = Pivot{X: 1, Y: 2}
	st.Upsert(updated)

	require.Len(t, st.Slides, 3)
	assert.Equal(t, 1, st.Slides[1].Index)
	assert.Equal(t, Pivot{X: 1, Y: 2}, st.Slides[1].Pivot)
}

func TestFindByIdentityNotPosition(t *testing.T) {
	st := New()
	st.Upsert(completedSlide(2))
	st.Upsert(completedSlide(0))

	m, ok := st.Find(0)
	require.True(t, ok)
	assert.Equal(t, 0, m.Index)

	_, ok = st.Find(1)
	assert.False(t, ok)
}

func TestSortedByIndexDoesNotMutate(t *testing.T) {
	in := []SlideMetadata{completedSlide(2), completedSlide(0), completedSlide(1)}
	out := SortedByIndex(in)

	assert.Equal(t, []int{0, 1, 2}, []int{out[0].Index, out[1].Index, out[2].Index})
	assert.Equal(t, 2, in[0].Index)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, completedSlide(0).Validate())
	assert.NoError(t, SlideMetadata{Index: 4}.Validate(), "incomplete records are not checked")

	broken := completedSlide(3)
	broken.BackgroundImage = ""
	broken.Dimensions = Dimensions{}
	err := broken.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "background_image")
	assert.Contains(t, err.Error(), "dimensions")
}

func TestWithAudioKeepsOriginal(t *testing.T) {
	m := completedSlide(0)
	withAudio := m.WithAudio("audio/slide_0.mp3", 4.2)

	assert.Equal(t, 4.2, withAudio.Duration())
	assert.Equal(t, "audio/slide_0.mp3", withAudio.AudioPath)
	assert.Zero(t, m.Duration())
	assert.Empty(t, m.AudioPath)
	assert.True(t, withAudio.Completed)
}

func TestStoreLoadMissingReturnsEmpty(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "state.json"))

	assert.False(t, store.Exists())
	st, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, st.Scenario)
	assert.Empty(t, st.Slides)
	assert.False(t, st.Completed)
}

func TestStoreSaveLoad(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "out", "state.json"))

	st := New()
	st.Scenario = &Scenario{Slides: []SlideSpec{{Type: "hook", NarrationText: "Кто он?", ImagePrompt: "hooded figure"}}}
	st.Upsert(completedSlide(0))
	require.NoError(t, store.Save(st))
	assert.True(t, store.Exists())

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, st, loaded)

	entries, err := os.ReadDir(filepath.Dir(store.Path()))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestStoreWireFormat(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "state.json"))
	st := New()
	st.Scenario = &Scenario{Slides: []SlideSpec{{Type: "hook", NarrationText: "a", ImagePrompt: "b"}}}
	st.Upsert(completedSlide(0))
	require.NoError(t, store.Save(st))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	for _, key := range []string{`"scenario"`, `"text_to_tts"`, `"z_image_prompt"`, `"object_image"`, `"background_image"`, `"original_image"`, `"pivot"`, `"dimensions"`, `"completed"`} {
		assert.Contains(t, string(data), key)
	}
	assert.NotContains(t, string(data), `"audio_path"`)
	assert.NotContains(t, string(data), `"duration"`)
}

func TestStoreCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := NewStore(path).Load()
	assert.ErrorIs(t, err, fault.ErrCorruptState)
}
