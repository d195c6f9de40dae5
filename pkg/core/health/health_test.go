package health

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

func TestStatus_Constants(t *testing.T) {
	if StatusHealthy != "healthy" {
		t.Errorf("StatusHealthy = %v, want healthy", StatusHealthy)
	}
	if StatusUnhealthy != "unhealthy" {
		t.Errorf("StatusUnhealthy = %v, want unhealthy", StatusUnhealthy)
	}
	if StatusDegraded != "degraded" {
		t.Errorf("StatusDegraded = %v, want degraded", StatusDegraded)
	}
}

func TestNewChecker(t *testing.T) {
	checker := NewChecker("test-checker", func(ctx context.Context) CheckResult {
		return CheckResult{Status: StatusHealthy, Message: "test passed"}
	})

	if checker.Name() != "test-checker" {
		t.Errorf("Name() = %v, want test-checker", checker.Name())
	}
	result := checker.Check(context.Background())
	if result.Status != StatusHealthy || result.Message != "test passed" {
		t.Errorf("Check() = %+v", result)
	}
}

func TestRegistry_Check(t *testing.T) {
	tests := []struct {
		name     string
		statuses []Status
		want     Status
	}{
		{"empty", nil, StatusHealthy},
		{"all healthy", []Status{StatusHealthy, StatusHealthy}, StatusHealthy},
		{"degraded", []Status{StatusHealthy, StatusDegraded}, StatusDegraded},
		{"unhealthy wins", []Status{StatusDegraded, StatusUnhealthy, StatusHealthy}, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := NewRegistry("neurospeak", "1.0.0")
			for i, s := range tt.statuses {
				s := s
				registry.RegisterFunc(string(rune('a'+i)), func(ctx context.Context) CheckResult {
					return CheckResult{Status: s}
				})
			}

			report := registry.CheckWithTimeout(time.Second)
			if report.Status != tt.want {
				t.Errorf("Status = %v, want %v", report.Status, tt.want)
			}
			if len(report.Checks) != len(tt.statuses) {
				t.Fatalf("len(Checks) = %d, want %d", len(report.Checks), len(tt.statuses))
			}
			for i, c := range report.Checks {
				if want := string(rune('a' + i)); c.Name != want {
					t.Errorf("Checks[%d].Name = %q, want %q (sorted, defaulted from checker)", i, c.Name, want)
				}
				if c.Timestamp.IsZero() {
					t.Errorf("Checks[%d].Timestamp not set", i)
				}
			}
			if report.Program != "neurospeak" || report.Version != "1.0.0" {
				t.Errorf("report = %s", report)
			}
		})
	}
}

func TestBinaryCheck(t *testing.T) {
	bin := "sh"
	if runtime.GOOS == "windows" {
		bin = "cmd"
	}
	if got := BinaryCheck("shell", bin).Check(context.Background()); got.Status != StatusHealthy {
		t.Errorf("BinaryCheck(%s) = %+v, want healthy", bin, got)
	}
	if got := BinaryCheck("missing", "no-such-binary-neurospeak").Check(context.Background()); got.Status != StatusUnhealthy {
		t.Errorf("BinaryCheck(missing) = %+v, want unhealthy", got)
	}
}

func TestFileCheck(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "voice.onnx")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		path string
		want Status
	}{
		{file, StatusHealthy},
		{dir, StatusUnhealthy},
		{filepath.Join(dir, "missing"), StatusUnhealthy},
	}
	for _, tt := range tests {
		if got := FileCheck("model", tt.path).Check(context.Background()); got.Status != tt.want {
			t.Errorf("FileCheck(%s) = %v, want %v", tt.path, got.Status, tt.want)
		}
	}
}

func TestWritableDirCheck(t *testing.T) {
	dir := t.TempDir()
	if got := WritableDirCheck("signal", dir).Check(context.Background()); got.Status != StatusHealthy {
		t.Errorf("WritableDirCheck() = %+v, want healthy", got)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("write-check file left behind: %v", entries)
	}

	missing := filepath.Join(dir, "missing")
	if got := WritableDirCheck("signal", missing).Check(context.Background()); got.Status != StatusUnhealthy {
		t.Errorf("WritableDirCheck(missing) = %+v, want unhealthy", got)
	}
}

func TestTCPCheck(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()

	if got := TCPCheck("bridge", addr, time.Second).Check(context.Background()); got.Status != StatusHealthy {
		t.Errorf("TCPCheck(listening) = %+v, want healthy", got)
	}

	ln.Close()
	if got := TCPCheck("bridge", addr, 200*time.Millisecond).Check(context.Background()); got.Status != StatusDegraded {
		t.Errorf("TCPCheck(closed) = %+v, want degraded", got)
	}
}
