package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the environment variable that points at the config file
const EnvConfigPath = "NEUROSPEAK_CONFIG"

// ErrNotFound is returned by LoadFromEnv when no config file could be located
var ErrNotFound = errors.New("no config file found")

// Config holds the complete application configuration
type Config struct {
	General GeneralConfig `toml:"general" yaml:"general"`
	Signal  SignalConfig  `toml:"signal" yaml:"signal"`
	TTS     TTSConfig     `toml:"tts" yaml:"tts"`
	Audio   AudioConfig   `toml:"audio" yaml:"audio"`
	Scanner ScannerConfig `toml:"scanner" yaml:"scanner"`
	History HistoryConfig `toml:"history" yaml:"history"`
}

// GeneralConfig holds general application settings
type GeneralConfig struct {
	LogLevel     string `toml:"log_level" yaml:"log_level"`
	LogFormat    string `toml:"log_format" yaml:"log_format"`
	DataDir      string `toml:"data_dir" yaml:"data_dir"`
	SettingsFile string `toml:"settings_file" yaml:"settings_file"`
	EnvFile      string `toml:"env_file" yaml:"env_file"`
}

// SignalConfig holds the file-flag channel and websocket bridge settings
type SignalConfig struct {
	Dir          string `toml:"dir" yaml:"dir"`
	DisableWatch bool   `toml:"disable_watch" yaml:"disable_watch"`
	WSEnabled    bool   `toml:"ws_enabled" yaml:"ws_enabled"`
	WSAddr       string `toml:"ws_addr" yaml:"ws_addr"`
}

// TTSConfig holds speech synthesis settings
type TTSConfig struct {
	Engine      string   `toml:"engine" yaml:"engine"`
	PiperBinary string   `toml:"piper_binary" yaml:"piper_binary"`
	ModelsDir   string   `toml:"models_dir" yaml:"models_dir"`
	Model       string   `toml:"model" yaml:"model"`
	Speaker     int      `toml:"speaker" yaml:"speaker"`
	LengthScale float64  `toml:"length_scale" yaml:"length_scale"`
	SampleRate  int      `toml:"sample_rate" yaml:"sample_rate"`
	Timeout     Duration `toml:"timeout" yaml:"timeout"`
	// CacheEntries bounds the sentence audio cache; negative disables it
	CacheEntries int      `toml:"cache_entries" yaml:"cache_entries"`
	CacheTTL     Duration `toml:"cache_ttl" yaml:"cache_ttl"`
}

// AudioConfig holds output device settings
type AudioConfig struct {
	SampleRate      int      `toml:"sample_rate" yaml:"sample_rate"`
	FramesPerBuffer int      `toml:"frames_per_buffer" yaml:"frames_per_buffer"`
	DrainPoll       Duration `toml:"drain_poll" yaml:"drain_poll"`
}

// ScannerConfig holds capture and OCR settings
type ScannerConfig struct {
	Tesseract      string   `toml:"tesseract" yaml:"tesseract"`
	Language       string   `toml:"language" yaml:"language"`
	PSM            int      `toml:"psm" yaml:"psm"`
	OEM            int      `toml:"oem" yaml:"oem"`
	CaptureCommand []string `toml:"capture_command" yaml:"capture_command"`
	MaxScanTime    Duration `toml:"max_scan_time" yaml:"max_scan_time"`
	ScanInterval   Duration `toml:"scan_interval" yaml:"scan_interval"`
	CancelSettle   Duration `toml:"cancel_settle" yaml:"cancel_settle"`
	DebugDir       string   `toml:"debug_dir" yaml:"debug_dir"`
}

// HistoryConfig holds utterance history settings
type HistoryConfig struct {
	Enabled bool   `toml:"enabled" yaml:"enabled"`
	Path    string `toml:"path" yaml:"path"`
}

// Duration wraps time.Duration for TOML and YAML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// UnmarshalYAML parses a duration scalar
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	return d.UnmarshalText([]byte(node.Value))
}

// Default returns a configuration with every default applied
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a TOML or YAML file, chosen by extension
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	default:
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyDefaults()
	cfg.expandEnvVars()

	return &cfg, nil
}

// LoadFromEnv loads the .env file and then the config named by NEUROSPEAK_CONFIG
// or found in one of the default locations
func LoadFromEnv() (*Config, error) {
	LoadDotEnv()

	path := os.Getenv(EnvConfigPath)
	if path == "" {
		home, _ := os.UserHomeDir()
		defaultPaths := []string{
			"./configs/neurospeak.toml",
			"./neurospeak.toml",
			"./neurospeak.yaml",
			filepath.Join(home, ".config/neurospeak/config.toml"),
		}
		for _, p := range defaultPaths {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}

	if path == "" {
		return nil, fmt.Errorf("%w, set %s or create configs/neurospeak.toml", ErrNotFound, EnvConfigPath)
	}

	return Load(path)
}

// LoadDotEnv reads KEY=VALUE pairs into the process environment without
// overriding variables that are already set. Missing files are ignored.
func LoadDotEnv(paths ...string) {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		_ = godotenv.Load(p)
	}
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	// General
	if c.General.LogLevel == "" {
		c.General.LogLevel = "info"
	}
	if c.General.LogFormat == "" {
		c.General.LogFormat = "text"
	}
	if c.General.DataDir == "" {
		c.General.DataDir = "."
	}
	if c.General.SettingsFile == "" {
		c.General.SettingsFile = "settings.json"
	}

	// Signal
	if c.Signal.Dir == "" {
		c.Signal.Dir = "."
	}
	if c.Signal.WSAddr == "" {
		c.Signal.WSAddr = "127.0.0.1:7313"
	}

	// TTS
	if c.TTS.Engine == "" {
		c.TTS.Engine = "piper"
	}
	if c.TTS.PiperBinary == "" {
		c.TTS.PiperBinary = "piper"
	}
	if c.TTS.ModelsDir == "" {
		c.TTS.ModelsDir = "./models"
	}
	if c.TTS.LengthScale == 0 {
		c.TTS.LengthScale = 1.0
	}
	if c.TTS.SampleRate == 0 {
		c.TTS.SampleRate = 22050
	}
	if c.TTS.Timeout.Duration == 0 {
		c.TTS.Timeout.Duration = 60 * time.Second
	}
	if c.TTS.CacheEntries == 0 {
		c.TTS.CacheEntries = 128
	}
	if c.TTS.CacheTTL.Duration == 0 {
		c.TTS.CacheTTL.Duration = 30 * time.Minute
	}

	// Audio
	if c.Audio.SampleRate == 0 {
		c.Audio.SampleRate = c.TTS.SampleRate
	}
	if c.Audio.FramesPerBuffer == 0 {
		c.Audio.FramesPerBuffer = 1024
	}
	if c.Audio.DrainPoll.Duration == 0 {
		c.Audio.DrainPoll.Duration = 100 * time.Millisecond
	}

	// Scanner
	if c.Scanner.Tesseract == "" {
		c.Scanner.Tesseract = "tesseract"
	}
	if c.Scanner.Language == "" {
		c.Scanner.Language = "eng"
	}
	if c.Scanner.PSM == 0 {
		c.Scanner.PSM = 6
	}
	if c.Scanner.OEM == 0 {
		c.Scanner.OEM = 3
	}
	if len(c.Scanner.CaptureCommand) == 0 {
		c.Scanner.CaptureCommand = []string{"import", "-window", "root", "-crop", "{w}x{h}+{x}+{y}", "png:-"}
	}
	if c.Scanner.MaxScanTime.Duration == 0 {
		c.Scanner.MaxScanTime.Duration = 5 * time.Second
	}
	if c.Scanner.ScanInterval.Duration == 0 {
		c.Scanner.ScanInterval.Duration = 250 * time.Millisecond
	}
	if c.Scanner.CancelSettle.Duration == 0 {
		c.Scanner.CancelSettle.Duration = 100 * time.Millisecond
	}
	if c.Scanner.DebugDir == "" {
		c.Scanner.DebugDir = "./debug"
	}

	// History
	if c.History.Path == "" {
		c.History.Path = filepath.Join(c.General.DataDir, "history.db")
	}
}

// expandEnvVars expands environment variables in path-like values
func (c *Config) expandEnvVars() {
	c.General.DataDir = os.ExpandEnv(c.General.DataDir)
	c.General.SettingsFile = os.ExpandEnv(c.General.SettingsFile)
	c.Signal.Dir = os.ExpandEnv(c.Signal.Dir)
	c.TTS.PiperBinary = os.ExpandEnv(c.TTS.PiperBinary)
	c.TTS.ModelsDir = os.ExpandEnv(c.TTS.ModelsDir)
	c.TTS.Model = os.ExpandEnv(c.TTS.Model)
	c.Scanner.Tesseract = os.ExpandEnv(c.Scanner.Tesseract)
	c.Scanner.DebugDir = os.ExpandEnv(c.Scanner.DebugDir)
	c.History.Path = os.ExpandEnv(c.History.Path)
}

// ModelPath resolves the configured voice model against ModelsDir
func (c *Config) ModelPath() string {
	if c.TTS.Model == "" || filepath.IsAbs(c.TTS.Model) || strings.ContainsRune(c.TTS.Model, os.PathSeparator) {
		return c.TTS.Model
	}
	return filepath.Join(c.TTS.ModelsDir, c.TTS.Model)
}

// SettingsPath resolves the user settings file against DataDir
func (c *Config) SettingsPath() string {
	if filepath.IsAbs(c.General.SettingsFile) {
		return c.General.SettingsFile
	}
	return filepath.Join(c.General.DataDir, c.General.SettingsFile)
}
