package settings

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	s := Default()
	if s.SpeakHotkey != "z" || s.CancelHotkey != "x" {
		t.Errorf("hotkeys = %q/%q, want z/x", s.SpeakHotkey, s.CancelHotkey)
	}
	if s.FileWatchInterval != 200 {
		t.Errorf("FileWatchInterval = %d, want 200", s.FileWatchInterval)
	}
	if !s.RenpyMode {
		t.Error("RenpyMode = false, want true")
	}
	if s.HotkeyContinuousScan != "space" || s.HotkeyResetCrop != "ctrl+r" {
		t.Errorf("scanner hotkeys = %q/%q", s.HotkeyContinuousScan, s.HotkeyResetCrop)
	}
	if !s.ROI.Empty() {
		t.Error("ROI should be empty by default")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "settings.json"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s != Default() {
		t.Errorf("Load() = %+v, want defaults", s)
	}
}

func TestLoad_BackfillsMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	content := `{"speak_hotkey": "ctrl+shift+s", "renpy_mode": false}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.SpeakHotkey != "ctrl+shift+s" {
		t.Errorf("SpeakHotkey = %q", s.SpeakHotkey)
	}
	if s.RenpyMode {
		t.Error("RenpyMode = true, want false from file")
	}
	if s.CancelHotkey != "x" || s.FileWatchInterval != 200 || s.HotkeyResetCrop != "ctrl+r" {
		t.Errorf("missing keys not backfilled: %+v", s)
	}
}

func TestLoad_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	os.WriteFile(path, []byte("{not json"), 0644)

	s, err := Load(path)
	if err == nil {
		t.Error("Load() expected error")
	}
	if s != Default() {
		t.Error("Load() should fall back to defaults on parse error")
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.json")
	s := Default()
	s.FileWatchInterval = 500
	s.ROI = Rect{X: 10, Y: 20, Width: 300, Height: 80}
	s.SaveDebugImages = true

	if err := Save(path, s); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != s {
		t.Errorf("Load() = %+v, want %+v", got, s)
	}
}

func TestParseRect(t *testing.T) {
	tests := []struct {
		input   string
		want    Rect
		wantErr bool
	}{
		{"300x80+10+20", Rect{X: 10, Y: 20, Width: 300, Height: 80}, false},
		{" 1x1+0+0 ", Rect{Width: 1, Height: 1}, false},
		{"300x80", Rect{}, true},
		{"300+10+20", Rect{}, true},
		{"axb+1+2", Rect{}, true},
		{"", Rect{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRect(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRect(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseRect(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
			if !tt.wantErr && got.String() != tt.want.String() {
				t.Errorf("String() = %q", got.String())
			}
		})
	}
}

func TestSettings_Set(t *testing.T) {
	tests := []struct {
		key, value string
		wantErr    bool
		check      func(Settings) bool
	}{
		{"speak_hotkey", "f5", false, func(s Settings) bool { return s.SpeakHotkey == "f5" }},
		{"file_watch_interval", "350", false, func(s Settings) bool { return s.FileWatchInterval == 350 }},
		{"file_watch_interval", "-1", true, nil},
		{"renpy_mode", "false", false, func(s Settings) bool { return !s.RenpyMode }},
		{"renpy_mode", "maybe", true, nil},
		{"save_debug_images", "true", false, func(s Settings) bool { return s.SaveDebugImages }},
		{"roi", "10x10+1+2", false, func(s Settings) bool { return s.ROI == Rect{X: 1, Y: 2, Width: 10, Height: 10} }},
		{"volume", "11", true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			s := Default()
			err := s.Set(tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Set() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil && !tt.check(s) {
				t.Errorf("Set(%q, %q) gave %+v", tt.key, tt.value, s)
			}
		})
	}
}
