package pipeline

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/crypto/blake2b"

	"retailfx/internal/config"
)

// Manifest records what a run read, how each step went and what it wrote.
type Manifest struct {
	RunID      string       `json:"run_id"`
	Version    string       `json:"version"`
	Status     string       `json:"status"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
	Input      InputInfo    `json:"input"`
	Settings   RunSettings  `json:"settings"`
	Steps      []StepReport `json:"steps"`
	Outputs    []OutputFile `json:"outputs"`
	Error      string       `json:"error,omitempty"`
}

// InputInfo identifies the source file of a run.
type InputInfo struct {
	Path   string `json:"path"`
	Bytes  int64  `json:"bytes"`
	Digest string `json:"blake2b_256"`
	Rows   int    `json:"rows"`
}

// RunSettings are the configuration values that shape the outputs.
type RunSettings struct {
	TieBreak string   `json:"tie_break"`
	Parallel bool     `json:"parallel"`
	MaxRows  int      `json:"max_rows"`
	Sinks    []string `json:"sinks"`
}

// OutputFile describes one persisted file.
type OutputFile struct {
	Name    string `json:"name"`
	Path    string `json:"path"`
	Records int    `json:"records,omitempty"`
	Bytes   int64  `json:"bytes"`
	Digest  string `json:"blake2b_256"`
}

// DigestFile returns the hex BLAKE2b-256 digest and size of a file.
func DigestFile(path string) (string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	h, err := blake2b.New256(nil)
	if err != nil {
		return "", 0, err
	}
	n, err := io.Copy(h, f)
	if err != nil {
		return "", 0, err
	}
	return hex.EncodeToString(h.Sum(nil)), n, nil
}

// WriteManifest writes m as indented JSON, replacing path atomically.
func WriteManifest(path string, m *Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create manifest directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".manifest-*.json")
	if err != nil {
		return fmt.Errorf("failed to create manifest: %w", err)
	}
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// ReadManifest loads a manifest written by WriteManifest.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to decode manifest %s: %w", path, err)
	}
	return &m, nil
}

// BuildManifest summarizes a finished run. order lists step IDs in execution
// order; runErr is the error Run returned, if any.
func BuildManifest(state *RunState, order []string, s Settings, runErr error) *Manifest {
	m := &Manifest{
		RunID:      state.ID,
		Version:    config.AppVersion,
		Status:     "completed",
		StartedAt:  state.StartTime.UTC(),
		FinishedAt: time.Now().UTC(),
		Input:      state.Input(),
		Settings: RunSettings{
			TieBreak: string(s.TieBreak),
			Parallel: s.Parallel,
			MaxRows:  s.MaxRows,
			Sinks:    append([]string(nil), s.Sinks...),
		},
		Steps:   state.Reports(order),
		Outputs: state.Outputs(),
	}
	if m.Input.Path == "" {
		m.Input.Path = s.InputPath
	}
	if runErr != nil {
		m.Status = "failed"
		m.Error = runErr.Error()
	}
	return m
}
