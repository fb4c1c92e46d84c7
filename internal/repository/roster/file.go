package roster

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/talentdex/internal/domain/professional"
)

// File reads the roster from a YAML document. The file is re-parsed only
// when its size or modification time changes.
type File struct {
	path string

	mu      sync.Mutex
	modTime time.Time
	size    int64
	snap    professional.Snapshot
}

// NewFile creates a file roster source.
func NewFile(path string) *File {
	return &File{path: path}
}

// fileDocument is the on-disk roster layout.
type fileDocument struct {
	Professionals []fileRecord `yaml:"professionals"`
}

type fileRecord struct {
	ID            string     `yaml:"id"`
	FullName      string     `yaml:"full_name"`
	WorkHistory   string     `yaml:"work_history"`
	Education     string     `yaml:"education"`
	Skills        []string   `yaml:"skills"`
	Languages     []string   `yaml:"languages"`
	Technologies  []string   `yaml:"technologies"`
	City          string     `yaml:"city"`
	Available     bool       `yaml:"available"`
	AvailableFrom *time.Time `yaml:"available_from"`
}

// Ping checks that the roster file is readable.
func (f *File) Ping(_ context.Context) error {
	if _, err := os.Stat(f.path); err != nil {
		return fmt.Errorf("stat roster: %w", err)
	}
	return nil
}

// Snapshot returns the current roster.
func (f *File) Snapshot(_ context.Context) (professional.Snapshot, error) {
	info, err := os.Stat(f.path)
	if err != nil {
		return professional.Snapshot{}, fmt.Errorf("stat roster: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.snap.Version != "" && info.ModTime().Equal(f.modTime) && info.Size() == f.size {
		return f.snap, nil
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		return professional.Snapshot{}, fmt.Errorf("read roster: %w", err)
	}
	snap, err := ParseFile(data)
	if err != nil {
		return professional.Snapshot{}, err
	}

	f.snap, f.modTime, f.size = snap, info.ModTime(), info.Size()
	return snap, nil
}

// ParseFile decodes a YAML roster. The version is a digest of the content.
func ParseFile(data []byte) (professional.Snapshot, error) {
	var doc fileDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return professional.Snapshot{}, fmt.Errorf("parse roster: %w", err)
	}

	seen := make(map[string]struct{}, len(doc.Professionals))
	records := make([]professional.Record, 0, len(doc.Professionals))
	for i, fr := range doc.Professionals {
		if fr.ID == "" {
			return professional.Snapshot{}, fmt.Errorf("parse roster: professionals[%d]: id is required", i)
		}
		if _, dup := seen[fr.ID]; dup {
			return professional.Snapshot{}, fmt.Errorf("parse roster: duplicate id %q", fr.ID)
		}
		seen[fr.ID] = struct{}{}

		row := recordRow{
			ID: fr.ID, FullName: fr.FullName, WorkHistory: fr.WorkHistory, Education: fr.Education,
			Skills: fr.Skills, Languages: fr.Languages, Technologies: fr.Technologies,
			City: fr.City, Available: fr.Available, AvailableFrom: fr.AvailableFrom,
		}
		records = append(records, row.record())
	}

	sum := sha256.Sum256(data)
	return professional.Snapshot{
		Version: "file:" + hex.EncodeToString(sum[:8]),
		Records: records,
	}, nil
}
