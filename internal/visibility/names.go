package visibility

import (
	"fmt"
	"strings"

	"github.com/Not-Another-Coach/nac-backend/internal/engagement"
)

// NameFields are the raw identity fields a trainer registered with.
type NameFields struct {
	FirstName string
	LastName  string
	Handle    string
}

// DisplayName implements progressive name disclosure: the rendered form of a
// trainer's name graduates with the viewer's engagement, independently of the
// general content gate except that a hidden name always anonymizes. Pure and
// deterministic.
func DisplayName(n NameFields, stage engagement.Stage, state State) string {
	if state == StateHidden {
		return anonymizedHandle(n)
	}
	switch engagement.GroupOf(stage) {
	case engagement.GroupDiscovery, engagement.GroupSaved:
		if state == StateBlurred {
			return anonymizedHandle(n)
		}
		return firstNameInitial(n)
	case engagement.GroupShortlisted, engagement.GroupWaitlist:
		return firstNameInitial(n)
	case engagement.GroupChosen:
		return fullName(n)
	}
	return anonymizedHandle(n)
}

func anonymizedHandle(n NameFields) string {
	h := strings.TrimSpace(n.Handle)
	if h != "" {
		return h
	}
	return "Coach"
}

func firstNameInitial(n NameFields) string {
	first := strings.TrimSpace(n.FirstName)
	last := strings.TrimSpace(n.LastName)
	if first == "" {
		return anonymizedHandle(n)
	}
	if last == "" {
		return first
	}
	return fmt.Sprintf("%s %s.", first, strings.ToUpper(last[:1]))
}

func fullName(n NameFields) string {
	full := strings.TrimSpace(strings.TrimSpace(n.FirstName) + " " + strings.TrimSpace(n.LastName))
	if full == "" {
		return anonymizedHandle(n)
	}
	return full
}
