package roster

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const sampleRoster = `
professionals:
  - id: p1
    full_name: Anna Kovács
    work_history: "Backend engineer|||Senior Engineer at Prezi (2019 - 2023): Rendering"
    education: "MSc at ELTE (2012 - 2014)"
    skills: ["Leadership (expert)", "Mentoring"]
    technologies: ["Rust (expert)", "Go (advanced)"]
    languages: ["Hungarian (native)"]
    city: Budapest
    available: true
    available_from: 2025-01-01
  - id: p2
    full_name: Bob Smith
    city: Vienna
    available_from: 2025-03-01
`

func TestParseFile(t *testing.T) {
	snap, err := ParseFile([]byte(sampleRoster))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snap.Records) != 2 {
		t.Fatalf("records = %d, want 2", len(snap.Records))
	}
	if !strings.HasPrefix(snap.Version, "file:") {
		t.Errorf("Version = %q", snap.Version)
	}

	p1 := snap.Records[0]
	if p1.FullName != "Anna Kovács" || p1.City != "Budapest" || !p1.Available {
		t.Errorf("p1 = %+v", p1)
	}
	if len(p1.Technologies) != 2 || p1.Technologies[0].Name != "Rust" || p1.Technologies[0].Level != "expert" {
		t.Errorf("p1 technologies = %+v", p1.Technologies)
	}
	if p1.AvailableFrom != nil {
		t.Error("available record kept an availability date")
	}

	p2 := snap.Records[1]
	want := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	if p2.AvailableFrom == nil || !p2.AvailableFrom.Equal(want) {
		t.Errorf("p2 available_from = %v, want %v", p2.AvailableFrom, want)
	}
}

func TestParseFile_VersionTracksContent(t *testing.T) {
	a, _ := ParseFile([]byte(sampleRoster))
	b, _ := ParseFile([]byte(sampleRoster))
	c, _ := ParseFile([]byte(sampleRoster + "\n  - id: p3\n    full_name: Carol\n"))
	if a.Version != b.Version {
		t.Error("same content, different versions")
	}
	if a.Version == c.Version {
		t.Error("different content, same version")
	}
}

func TestParseFile_Invalid(t *testing.T) {
	tests := map[string]string{
		"missing id":   "professionals:\n  - full_name: X\n",
		"duplicate id": "professionals:\n  - id: a\n  - id: a\n",
		"bad yaml":     "professionals: [",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseFile([]byte(doc)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestFile_Snapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.yaml")
	if err := os.WriteFile(path, []byte(sampleRoster), 0o600); err != nil {
		t.Fatal(err)
	}
	f := NewFile(path)
	ctx := context.Background()

	if err := f.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	first, err := f.Snapshot(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated := sampleRoster + "  - id: p3\n    full_name: Carol White\n"
	if err := os.WriteFile(path, []byte(updated), 0o600); err != nil {
		t.Fatal(err)
	}
	second, err := f.Snapshot(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Version == first.Version || len(second.Records) != 3 {
		t.Errorf("reload missed: version %q -> %q, %d records", first.Version, second.Version, len(second.Records))
	}
}

func TestFile_Missing(t *testing.T) {
	f := NewFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if _, err := f.Snapshot(context.Background()); err == nil {
		t.Error("expected error for missing file")
	}
	if err := f.Ping(context.Background()); err == nil {
		t.Error("expected Ping error for missing file")
	}
}
