package model

import "fmt"

// FileStatus is the overall state of one file after a cleanup run.
type FileStatus int

const (
	// FileUnchanged indicates the pipeline produced the input text again.
	FileUnchanged FileStatus = iota
	// FileChanged indicates the pipeline produced new text.
	FileChanged
	// FileFailed indicates the file could not be processed (e.g. it does not parse).
	FileFailed
)

func (s FileStatus) String() string {
	switch s {
	case FileUnchanged:
		return "unchanged"
	case FileChanged:
		return "changed"
	case FileFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// MarshalText encodes the status by name.
func (s FileStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a status name written by MarshalText.
func (s *FileStatus) UnmarshalText(text []byte) error {
	switch string(text) {
	case "unchanged":
		*s = FileUnchanged
	case "changed":
		*s = FileChanged
	case "failed":
		*s = FileFailed
	default:
		return fmt.Errorf("unknown file status %q", text)
	}

	return nil
}

// FileReport is the result of running the formatting pipeline on one file.
// Error is kept as text so reports can be spilled and persisted.
type FileReport struct {
	File    File       `yaml:"file"`
	Status  FileStatus `yaml:"status"`
	Applied []string   `yaml:"applied,omitempty"`
	Error   string     `yaml:"error,omitempty"`

	Original string `yaml:"-"`
	Result   string `yaml:"-"`
}

// Summary aggregates file reports of a run.
type Summary struct {
	Files     int
	Changed   int
	Unchanged int
	Failed    int
	// Applied counts accepted changes per mutator id.
	Applied map[string]int
}

// Add folds report into the summary.
func (s *Summary) Add(report FileReport) {
	s.Files++

	switch report.Status {
	case FileChanged:
		s.Changed++
	case FileFailed:
		s.Failed++
	case FileUnchanged:
		s.Unchanged++
	}

	if s.Applied == nil {
		s.Applied = make(map[string]int)
	}

	for _, id := range report.Applied {
		s.Applied[id]++
	}
}

// Summarize folds reports into a new Summary.
func Summarize(reports []FileReport) Summary {
	var summary Summary

	for _, report := range reports {
		summary.Add(report)
	}

	return summary
}
