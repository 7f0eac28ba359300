package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// FileName is the report's name inside the output directory.
const FileName = "imgproc.report.json"

// New creates an empty report with defaults.
func New(preset string) *Report {
	return &Report{
		Version:     SupportedVersion,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Preset:      preset,
		Items:       []Item{},
	}
}

// ComputeStats recalculates aggregate statistics from items. Input bytes
// count only items that succeeded so the totals compare like with like.
func (r *Report) ComputeStats() {
	var s Stats
	s.TotalItems = len(r.Items)
	for _, it := range r.Items {
		if !it.OK() {
			s.Failed++
			continue
		}
		s.Succeeded++
		s.TotalInputBytes += it.InputSize
		if it.Output != nil {
			s.TotalOutputBytes += it.Output.Size
		}
		if it.Thumbnail != nil {
			s.Thumbnails++
			s.TotalOutputBytes += it.Thumbnail.Size
		}
	}
	r.Stats = s
}

// WriteJSON serializes the report to path. The file is replaced atomically
// so a watcher never reads a partial report.
func WriteJSON(r *Report, path string) error {
	r.ComputeStats()

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(path), ".report-*.json")
	if err != nil {
		return fmt.Errorf("create temp report: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close report: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Read loads a report. A directory is taken to contain FileName.
func Read(path string) (*Report, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		path = filepath.Join(path, FileName)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse report: %w", err)
	}
	return &r, nil
}
