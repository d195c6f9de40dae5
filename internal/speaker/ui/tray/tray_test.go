package tray

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/ZeusXpresss/Neuro-Speak/internal/settings"
	"github.com/ZeusXpresss/Neuro-Speak/internal/speaker/playback"
)

func TestIconBytes(t *testing.T) {
	for _, state := range []playback.State{playback.StateIdle, playback.StateSpeaking, playback.StatePaused} {
		t.Run(state.String(), func(t *testing.T) {
			img, err := png.Decode(bytes.NewReader(IconBytes(state)))
			if err != nil {
				t.Fatalf("IconBytes() is not a PNG: %v", err)
			}
			if b := img.Bounds(); b.Dx() != iconWidth || b.Dy() != iconHeight {
				t.Errorf("icon size = %dx%d, want %dx%d", b.Dx(), b.Dy(), iconWidth, iconHeight)
			}

			// top-left pixel of the N stem
			r, g, b, a := img.At(8, 4).RGBA()
			want := IconColor(state)
			if uint8(r>>8) != want.R || uint8(g>>8) != want.G || uint8(b>>8) != want.B || a == 0 {
				t.Errorf("pixel = (%d,%d,%d), want %v", r>>8, g>>8, b>>8, want)
			}
		})
	}
}

func TestIconColor_DistinctPerState(t *testing.T) {
	idle := IconColor(playback.StateIdle)
	if idle == IconColor(playback.StateSpeaking) || idle == IconColor(playback.StatePaused) {
		t.Error("states should have distinct icon colors")
	}
}

func TestPreview(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", "Kein Text"},
		{"short", "Hello.", "Hello."},
		{"limit", strings.Repeat("a", previewLimit), strings.Repeat("a", previewLimit)},
		{"long", strings.Repeat("ä", previewLimit+5), strings.Repeat("ä", previewLimit-1) + "…"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Preview(tt.in); got != tt.want {
				t.Errorf("Preview() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTrayApp_DisplayBeforeRun(t *testing.T) {
	app := New(nil)

	app.ShowText("Some text")
	app.ShowStatus("Bereit")
	s := settings.Default()
	s.RenpyMode = false
	app.SettingsChanged(s)
	app.StateChanged(playback.StateIdle, playback.StatePaused)

	if app.text != "Some text" || app.settings.RenpyMode || app.state != playback.StatePaused {
		t.Errorf("display state not recorded: %+v", app)
	}
	if app.status != "Pausiert" {
		t.Errorf("status = %q, want Pausiert", app.status)
	}
	if got := pauseTitle(app.state); got != "Fortsetzen" {
		t.Errorf("pauseTitle() = %q", got)
	}
}
