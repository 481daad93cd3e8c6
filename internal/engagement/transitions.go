package engagement

import "fmt"

// Transitions a client may drive from each stage. Declining is allowed from
// any pre-chosen stage; a declined card can only be dismissed.
var allowedTransitions = map[Stage][]Stage{
	StageBrowsing:            {StageLiked, StageSaved, StageDeclined},
	StageLiked:               {StageSaved, StageBrowsing, StageDeclined},
	StageSaved:               {StageShortlisted, StageBrowsing, StageDeclined},
	StageShortlisted:         {StageDiscoveryInProgress, StageSaved, StageDeclined},
	StageDiscoveryInProgress: {StageDiscoveryCompleted, StageDeclined},
	StageDiscoveryCompleted:  {StageWaitlist, StageAgreed, StageDeclined},
	StageWaitlist:            {StageAgreed, StageDeclined},
	StageAgreed:              {StagePaymentPending, StageDeclined},
	StagePaymentPending:      {StageActiveClient, StageDeclined},
	StageActiveClient:        {StageChosen, StageDeclined},
	StageChosen:              {StageDeclined},
	StageDeclined:            {StageDeclinedDismissed},
	StageDeclinedDismissed:   {StageBrowsing},
}

// CanTransition reports whether moving from one stage to another is a legal
// client action.
func CanTransition(from, to Stage) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func ValidateTransition(from, to Stage) error {
	if !IsValid(from) {
		return fmt.Errorf("unknown engagement stage %q", from)
	}
	if !IsValid(to) {
		return fmt.Errorf("unknown engagement stage %q", to)
	}
	if !CanTransition(from, to) {
		return fmt.Errorf("cannot move engagement from %s to %s", from, to)
	}
	return nil
}
