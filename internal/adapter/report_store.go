package adapter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
	m "spruce.dev/pkg/spruce/internal/model"
)

const (
	reportFileName    = "report.yaml"
	shardDirPrefix    = "shard_"
	reportFileVersion = 1
)

// ErrNoReports is returned when a reports directory holds no report file.
var ErrNoReports = errors.New("no reports found")

// ReportStore persists and retrieves cleanup reports.
type ReportStore interface {
	SaveReports(dir m.Path, reports []m.FileReport) error
	LoadReports(dir m.Path) ([]m.FileReport, error)
	// LoadShards loads the reports of every shard_* subdirectory of dir.
	LoadShards(dir m.Path) ([]m.FileReport, error)
}

type reportDocument struct {
	Version int            `yaml:"version"`
	Files   []m.FileReport `yaml:"files"`
}

type reportStore struct{}

// NewReportStore constructs a ReportStore writing YAML documents.
func NewReportStore() ReportStore {
	return &reportStore{}
}

// ShardReportDir is the subdirectory of dir holding the reports of shard index.
func ShardReportDir(dir m.Path, index int) m.Path {
	return m.Path(filepath.Join(string(dir), fmt.Sprintf("%s%d", shardDirPrefix, index)))
}

func (rs *reportStore) SaveReports(dir m.Path, reports []m.FileReport) error {
	if err := os.MkdirAll(string(dir), 0o750); err != nil {
		return fmt.Errorf("create reports directory: %w", err)
	}

	data, err := yaml.Marshal(reportDocument{Version: reportFileVersion, Files: reports})
	if err != nil {
		return fmt.Errorf("encode reports: %w", err)
	}

	path := filepath.Join(string(dir), reportFileName)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return nil
}

func (rs *reportStore) LoadReports(dir m.Path) ([]m.FileReport, error) {
	path := filepath.Join(string(dir), reportFileName)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w in %s", ErrNoReports, dir)
		}

		return nil, err
	}

	var doc reportDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	if doc.Version > reportFileVersion {
		return nil, fmt.Errorf("%s: unsupported report version %d", path, doc.Version)
	}

	return doc.Files, nil
}

func (rs *reportStore) LoadShards(dir m.Path) ([]m.FileReport, error) {
	entries, err := os.ReadDir(string(dir))
	if err != nil {
		return nil, err
	}

	var shards []string

	for _, entry := range entries {
		if entry.IsDir() && strings.HasPrefix(entry.Name(), shardDirPrefix) {
			shards = append(shards, entry.Name())
		}
	}

	if len(shards) == 0 {
		return nil, fmt.Errorf("%w: no %s* directories in %s", ErrNoReports, shardDirPrefix, dir)
	}

	slices.Sort(shards)

	var reports []m.FileReport

	for _, shard := range shards {
		loaded, err := rs.LoadReports(m.Path(filepath.Join(string(dir), shard)))
		if err != nil {
			return nil, err
		}

		reports = append(reports, loaded...)
	}

	slices.SortStableFunc(reports, func(a, b m.FileReport) int {
		return strings.Compare(string(a.File.ShortPath), string(b.File.ShortPath))
	})

	return reports, nil
}
