package visibility

import (
	"testing"

	"github.com/Not-Another-Coach/nac-backend/internal/engagement"
)

func TestSeedMatrixParsesAndCoversGrid(t *testing.T) {
	m, err := SeedMatrix()
	if err != nil {
		t.Fatalf("SeedMatrix: %v", err)
	}

	contents := []ContentType{
		ContentName, ContentPhoto, ContentRating, ContentPricing,
		ContentTestimonials, ContentBio, ContentContact,
	}
	for _, ct := range contents {
		for _, g := range engagement.AllGroups() {
			if _, ok := m[Key{Content: ct, Group: g}]; !ok {
				t.Errorf("seed matrix missing %s/%s", ct, g)
			}
		}
	}
	if want := len(contents) * len(engagement.AllGroups()); len(m) != want {
		t.Errorf("seed matrix has %d entries, want %d", len(m), want)
	}
}

func TestSeedMatrixOpensUpWithEngagement(t *testing.T) {
	m, err := SeedMatrix()
	if err != nil {
		t.Fatalf("SeedMatrix: %v", err)
	}
	if got := m.Lookup(ContentContact, engagement.GroupDiscovery); got != StateHidden {
		t.Errorf("contact at discovery = %s, want hidden", got)
	}
	if got := m.Lookup(ContentContact, engagement.GroupChosen); got != StateVisible {
		t.Errorf("contact at chosen = %s, want visible", got)
	}
	if got := m.Lookup(ContentName, engagement.GroupChosen); got != StateVisible {
		t.Errorf("name at chosen = %s, want visible", got)
	}
}
