package visibility

import (
	"github.com/Not-Another-Coach/nac-backend/internal/engagement"
)

// State is the render mode for a single profile field. Hidden fields are
// never serialized to the viewer; blurred fields carry the value but must be
// obscured by the client; visible fields render as-is.
type State string

const (
	StateHidden  State = "hidden"
	StateBlurred State = "blurred"
	StateVisible State = "visible"
)

func ParseState(raw string) (State, bool) {
	switch State(raw) {
	case StateHidden, StateBlurred, StateVisible:
		return State(raw), true
	}
	return "", false
}

// ContentType is a logical profile field category gated independently of the
// others.
type ContentType string

const (
	ContentName         ContentType = "name"
	ContentPhoto        ContentType = "photo"
	ContentRating       ContentType = "rating"
	ContentPricing      ContentType = "pricing"
	ContentTestimonials ContentType = "testimonials"
	ContentBio          ContentType = "bio"
	ContentContact      ContentType = "contact"
)

func AllContentTypes() []ContentType {
	return []ContentType{
		ContentName, ContentPhoto, ContentRating, ContentPricing,
		ContentTestimonials, ContentBio, ContentContact,
	}
}

func IsContentType(raw string) bool {
	for _, ct := range AllContentTypes() {
		if ct == ContentType(raw) {
			return true
		}
	}
	return false
}

type Key struct {
	Content ContentType
	Group   engagement.StageGroup
}

// Matrix is a snapshot of the default visibility table. Lookups on missing
// keys fail closed.
type Matrix map[Key]State

func (m Matrix) Lookup(ct ContentType, group engagement.StageGroup) State {
	if m == nil {
		return StateHidden
	}
	if st, ok := m[Key{Content: ct, Group: group}]; ok {
		return st
	}
	return StateHidden
}

// ForStage resolves through the journey-group mapping.
func (m Matrix) ForStage(ct ContentType, stage engagement.Stage) State {
	return m.Lookup(ct, engagement.GroupOf(stage))
}
