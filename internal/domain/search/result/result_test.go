package result

import (
	"testing"

	"github.com/kailas-cloud/talentdex/internal/domain/professional"
)

func TestFromRecords(t *testing.T) {
	hits := FromRecords([]professional.Record{{ID: "a"}, {ID: "b"}})
	if len(hits) != 2 {
		t.Fatalf("len = %d, want 2", len(hits))
	}
	if hits[0].ID() != "a" || hits[1].ID() != "b" {
		t.Errorf("ids = %q, %q", hits[0].ID(), hits[1].ID())
	}
	if hits[0].Score != nil || hits[0].DistanceKM != nil {
		t.Error("new hit should carry no score or distance")
	}
}
