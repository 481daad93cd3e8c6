package visibility

import (
	"testing"

	"github.com/Not-Another-Coach/nac-backend/internal/engagement"
)

func TestMatrixLookupFailsClosed(t *testing.T) {
	var nilMatrix Matrix
	if got := nilMatrix.Lookup(ContentPricing, engagement.GroupSaved); got != StateHidden {
		t.Errorf("nil matrix lookup = %s, want hidden", got)
	}

	m := Matrix{
		{Content: ContentPricing, Group: engagement.GroupChosen}: StateVisible,
	}
	if got := m.Lookup(ContentPricing, engagement.GroupChosen); got != StateVisible {
		t.Errorf("present pair = %s, want visible", got)
	}
	if got := m.Lookup(ContentPricing, engagement.GroupDiscovery); got != StateHidden {
		t.Errorf("missing pair = %s, want hidden", got)
	}
	if got := m.Lookup(ContentBio, engagement.GroupChosen); got != StateHidden {
		t.Errorf("missing content type = %s, want hidden", got)
	}
}

func TestMatrixForStageResolvesGroup(t *testing.T) {
	m := Matrix{
		{Content: ContentRating, Group: engagement.GroupShortlisted}: StateVisible,
	}
	// discovery_in_progress maps to the shortlisted group.
	if got := m.ForStage(ContentRating, engagement.StageDiscoveryInProgress); got != StateVisible {
		t.Errorf("ForStage(discovery_in_progress) = %s, want visible", got)
	}
	if got := m.ForStage(ContentRating, engagement.StageBrowsing); got != StateHidden {
		t.Errorf("ForStage(browsing) = %s, want hidden", got)
	}
}

func TestParseState(t *testing.T) {
	for _, raw := range []string{"hidden", "blurred", "visible"} {
		if _, ok := ParseState(raw); !ok {
			t.Errorf("ParseState(%s) should succeed", raw)
		}
	}
	if _, ok := ParseState("translucent"); ok {
		t.Error("ParseState(translucent) should fail")
	}
}

func TestIsContentType(t *testing.T) {
	if !IsContentType("pricing") {
		t.Error("pricing should be a content type")
	}
	if IsContentType("shoe_size") {
		t.Error("shoe_size should not be a content type")
	}
}
