package tts

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// VoiceInfo holds information about a Piper voice model
type VoiceInfo struct {
	Name       string
	Language   string
	Quality    string
	ModelPath  string
	SampleRate int
	Speakers   []Speaker
}

// Speaker is one voice inside a multi-speaker model
type Speaker struct {
	Name string
	ID   int
}

// modelConfig mirrors the fields of a Piper .onnx.json we care about
type modelConfig struct {
	Audio struct {
		SampleRate int    `json:"sample_rate"`
		Quality    string `json:"quality"`
	} `json:"audio"`
	Language struct {
		Code string `json:"code"`
	} `json:"language"`
	NumSpeakers  int            `json:"num_speakers"`
	SpeakerIDMap map[string]int `json:"speaker_id_map"`
}

// ReadVoiceInfo reads the .onnx.json next to a model
func ReadVoiceInfo(modelPath string) (VoiceInfo, error) {
	info := VoiceInfo{
		Name:      strings.TrimSuffix(filepath.Base(modelPath), ".onnx"),
		ModelPath: modelPath,
	}

	data, err := os.ReadFile(modelPath + ".json")
	if err != nil {
		return info, fmt.Errorf("failed to read model config: %w", err)
	}

	var mc modelConfig
	if err := json.Unmarshal(data, &mc); err != nil {
		return info, fmt.Errorf("failed to parse model config: %w", err)
	}

	info.Language = mc.Language.Code
	info.Quality = mc.Audio.Quality
	info.SampleRate = mc.Audio.SampleRate
	for name, id := range mc.SpeakerIDMap {
		info.Speakers = append(info.Speakers, Speaker{Name: name, ID: id})
	}
	sort.Slice(info.Speakers, func(i, j int) bool {
		return info.Speakers[i].ID < info.Speakers[j].ID
	})

	return info, nil
}

// GetAvailableVoices lists the .onnx models in a directory. Models whose
// config cannot be read are listed with what the file name tells.
func GetAvailableVoices(voicesDir string) ([]VoiceInfo, error) {
	entries, err := os.ReadDir(voicesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read voices directory: %w", err)
	}

	var voices []VoiceInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".onnx") {
			continue
		}
		info, _ := ReadVoiceInfo(filepath.Join(voicesDir, entry.Name()))
		voices = append(voices, info)
	}

	return voices, nil
}
