// Package gate решает, можно ли пропустить дорогой шаг, потому что его
// результат уже на диске. Проверяются только пути и флаги, не содержимое:
// обрезанный файл от прерванного запуска тоже считается готовым.
package gate

import (
	"os"

	"github.com/ivlev/reelprep/internal/state"
)

// ShouldSkip reports whether every expected path already exists.
func ShouldSkip(paths ...string) bool {
	if len(paths) == 0 {
		return false
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			return false
		}
	}
	return true
}

// SlideDone returns the stored record when the slide's image pipeline has
// already completed.
func SlideDone(st *state.GenerationState, index int) (state.SlideMetadata, bool) {
	m, ok := st.Find(index)
	if !ok || !m.Completed {
		return state.SlideMetadata{}, false
	}
	return *m, true
}
