package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/reelprep/internal/fault"
	"github.com/ivlev/reelprep/internal/logger"
	"github.com/ivlev/reelprep/internal/timeline"
)

type fakeTTS struct {
	texts  []string
	failOn string
}

func (f *fakeTTS) Synthesize(_ context.Context, text, outputPath string) error {
	f.texts = append(f.texts, text)
	if f.failOn != "" && text == f.failOn {
		return fault.External("edge-tts", errors.New("exit status 1"), []byte("403 Forbidden"))
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return err
	}
	return os.WriteFile(outputPath, []byte("ID3"), 0644)
}

// fakeProber returns durations by file name.
type fakeProber struct {
	durations map[string]float64
	calls     int
	failOn    string
}

func (f *fakeProber) Duration(_ context.Context, audioPath string) (float64, error) {
	f.calls++
	if f.failOn != "" && filepath.Base(audioPath) == f.failOn {
		return 0, fmt.Errorf("%w: %q is not a number", fault.ErrProbeFailure, "N/A")
	}
	return f.durations[filepath.Base(audioPath)], nil
}

func speechFixture(t *testing.T) (*fixture, *fakeTTS, *fakeProber, *SpeechStage) {
	t.Helper()
	f := newFixture(t, 3)
	require.NoError(t, f.imageStage().Run(context.Background()))

	tts := &fakeTTS{}
	prober := &fakeProber{durations: map[string]float64{
		"slide_0.mp3": 4.2,
		"slide_1.mp3": 5.8,
		"slide_2.mp3": 3.0,
	}}
	return f, tts, prober, NewSpeechStage(f.cfg, f.store, tts, prober, logger.Discard())
}

func TestSpeechStage(t *testing.T) {
	f, tts, prober, stage := speechFixture(t)
	stateBefore, err := os.ReadFile(f.cfg.StateFile())
	require.NoError(t, err)

	require.NoError(t, stage.Run(context.Background()))

	assert.Equal(t, []string{"текст 0", "текст 1", "текст 2"}, tts.texts)
	assert.Equal(t, 3, prober.calls)

	doc, err := timeline.Read(f.cfg.TimelineFile())
	require.NoError(t, err)
	assert.InDelta(t, 13.0, doc.TotalDuration, 1e-9)
	assert.InDelta(t, 13.0/3, doc.SlideDuration, 1e-9)
	require.Len(t, doc.Slides, 3)
	assert.Equal(t, "audio/slide_1.mp3", doc.Slides[1].AudioPath)
	assert.Equal(t, 5.8, doc.Slides[1].Duration())

	stateAfter, err := os.ReadFile(f.cfg.StateFile())
	require.NoError(t, err)
	assert.Equal(t, string(stateBefore), string(stateAfter), "the checkpoint is not rewritten")
}

func TestSpeechStageSkipsExistingAudioButProbes(t *testing.T) {
	f, tts, prober, stage := speechFixture(t)
	require.NoError(t, stage.Run(context.Background()))

	tts.texts = nil
	prober.calls = 0
	prober.durations["slide_0.mp3"] = 6.0
	require.NoError(t, stage.Run(context.Background()))

	assert.Empty(t, tts.texts)
	assert.Equal(t, 3, prober.calls)

	doc, err := timeline.Read(f.cfg.TimelineFile())
	require.NoError(t, err)
	assert.InDelta(t, 14.8, doc.TotalDuration, 1e-9)
}

func TestSpeechStageSkipsSlidesWithoutMetadata(t *testing.T) {
	f, tts, _, stage := speechFixture(t)

	st := f.load(t)
	st.Slides = st.Slides[:1]
	require.NoError(t, f.store.Save(st))

	require.NoError(t, stage.Run(context.Background()))
	assert.Equal(t, []string{"текст 0"}, tts.texts)

	doc, err := timeline.Read(f.cfg.TimelineFile())
	require.NoError(t, err)
	assert.Len(t, doc.Slides, 1)
	assert.InDelta(t, 4.2, doc.SlideDuration, 1e-9)
}

func TestSpeechStageNoMetadataAtAll(t *testing.T) {
	f, tts, _, stage := speechFixture(t)

	st := f.load(t)
	st.Slides = nil
	require.NoError(t, f.store.Save(st))

	err := stage.Run(context.Background())
	assert.ErrorIs(t, err, fault.ErrMissingPrecondition)
	assert.Empty(t, tts.texts)
}

func TestSpeechStageWithoutCheckpoint(t *testing.T) {
	f := newFixture(t, 0)
	stage := NewSpeechStage(f.cfg, f.store, &fakeTTS{}, &fakeProber{}, logger.Discard())

	err := stage.Run(context.Background())
	assert.ErrorIs(t, err, fault.ErrMissingPrecondition)
	assert.NoFileExists(t, f.cfg.StateFile())
}

func TestSpeechStageProbeFailureIsFatal(t *testing.T) {
	f, _, prober, stage := speechFixture(t)
	planned, err := os.ReadFile(f.cfg.TimelineFile())
	require.NoError(t, err)
	prober.failOn = "slide_1.mp3"

	err = stage.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, fault.ErrProbeFailure)
	assert.Contains(t, err.Error(), "slide 1")
	assert.Equal(t, 2, prober.calls, "slide 2 is not reached")

	after, err := os.ReadFile(f.cfg.TimelineFile())
	require.NoError(t, err)
	assert.Equal(t, string(planned), string(after), "the planned timeline stays in place")
}

func TestSpeechStageSynthesisFailureIsFatal(t *testing.T) {
	f, tts, prober, stage := speechFixture(t)
	planned, err := os.ReadFile(f.cfg.TimelineFile())
	require.NoError(t, err)
	tts.failOn = "текст 1"

	err = stage.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, fault.ErrExternalTool)
	assert.Contains(t, err.Error(), "403 Forbidden")
	assert.Equal(t, []string{"текст 0", "текст 1"}, tts.texts)
	assert.Equal(t, 1, prober.calls)
	assert.NoFileExists(t, f.cfg.AudioFile(1))

	after, err := os.ReadFile(f.cfg.TimelineFile())
	require.NoError(t, err)
	assert.Equal(t, string(planned), string(after))
}
