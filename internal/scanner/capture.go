package scanner

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os/exec"
	"strconv"
	"strings"

	"github.com/ZeusXpresss/Neuro-Speak/internal/settings"
)

// Capturer grabs a screen region
type Capturer interface {
	Capture(ctx context.Context, r settings.Rect) (image.Image, error)
}

// CommandCapturer runs an external screenshot tool that writes a PNG or
// JPEG to stdout. The placeholders {x} {y} {w} {h} in the arguments are
// replaced with the region.
type CommandCapturer struct {
	Args []string
}

// NewCommandCapturer creates a capturer for the given command line
func NewCommandCapturer(args []string) *CommandCapturer {
	return &CommandCapturer{Args: args}
}

// Command returns the command line for r
func (c *CommandCapturer) Command(r settings.Rect) []string {
	replacer := strings.NewReplacer(
		"{x}", strconv.Itoa(r.X),
		"{y}", strconv.Itoa(r.Y),
		"{w}", strconv.Itoa(r.Width),
		"{h}", strconv.Itoa(r.Height),
	)
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = replacer.Replace(a)
	}
	return args
}

// Capture implements Capturer
func (c *CommandCapturer) Capture(ctx context.Context, r settings.Rect) (image.Image, error) {
	if len(c.Args) == 0 {
		return nil, fmt.Errorf("no capture command configured")
	}
	args := c.Command(r)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s: %w: %s", args[0], err, msg)
		}
		return nil, fmt.Errorf("%s: %w", args[0], err)
	}

	img, _, err := image.Decode(&stdout)
	if err != nil {
		return nil, fmt.Errorf("failed to decode screenshot: %w", err)
	}
	return img, nil
}
