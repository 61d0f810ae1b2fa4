package generator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SDCommand drives a stable-diffusion style CLI. Command holds the model
// flags; size, prompt and output are appended per call.
type SDCommand struct {
	Command string
	Width   int
	Height  int
	Run     CommandRunner
}

func NewSDCommand(command string, width, height int) *SDCommand {
	return &SDCommand{Command: command, Width: width, Height: height}
}

func (s *SDCommand) Generate(ctx context.Context, prompt, outputPath string) error {
	name, args, err := s.buildArgs(prompt, outputPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return err
	}
	if _, err := run(ctx, s.Run, name, args...); err != nil {
		return err
	}
	return requireFile(name, outputPath)
}

func (s *SDCommand) buildArgs(prompt, outputPath string) (string, []string, error) {
	fields := strings.Fields(s.Command)
	if len(fields) == 0 {
		return "", nil, fmt.Errorf("image command is empty")
	}
	args := append([]string{}, fields[1:]...)
	args = append(args,
		"-H", fmt.Sprintf("%d", s.Height),
		"-W", fmt.Sprintf("%d", s.Width),
		"-p", prompt,
		"-o", outputPath,
	)
	return fields[0], args, nil
}
