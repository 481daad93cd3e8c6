package engagement

import "fmt"

// Stage is the fine-grained step a client's relationship with a trainer is
// in, from first browse to active coaching.
type Stage string

const (
	StageBrowsing            Stage = "browsing"
	StageLiked               Stage = "liked"
	StageSaved               Stage = "saved"
	StageShortlisted         Stage = "shortlisted"
	StageDiscoveryInProgress Stage = "discovery_in_progress"
	StageDiscoveryCompleted  Stage = "discovery_completed"
	StageWaitlist            Stage = "waitlist"
	StageAgreed              Stage = "agreed"
	StagePaymentPending      Stage = "payment_pending"
	StageActiveClient        Stage = "active_client"
	StageChosen              Stage = "chosen"
	StageDeclined            Stage = "declined"
	StageDeclinedDismissed   Stage = "declined_dismissed"
)

// StageGroup is the coarse journey stage used for content gating and the
// funnel board. Declined relationships fold back into discovery.
type StageGroup string

const (
	GroupDiscovery   StageGroup = "discovery"
	GroupSaved       StageGroup = "saved"
	GroupShortlisted StageGroup = "shortlisted"
	GroupWaitlist    StageGroup = "waitlist"
	GroupChosen      StageGroup = "chosen"
)

var stageGroups = map[Stage]StageGroup{
	StageBrowsing:            GroupDiscovery,
	StageLiked:               GroupDiscovery,
	StageSaved:               GroupSaved,
	StageShortlisted:         GroupShortlisted,
	StageDiscoveryInProgress: GroupShortlisted,
	StageDiscoveryCompleted:  GroupShortlisted,
	StageWaitlist:            GroupWaitlist,
	StageAgreed:              GroupChosen,
	StagePaymentPending:      GroupChosen,
	StageActiveClient:        GroupChosen,
	StageChosen:              GroupChosen,
	StageDeclined:            GroupDiscovery,
	StageDeclinedDismissed:   GroupDiscovery,
}

// AllStages lists every stage in progression order.
func AllStages() []Stage {
	return []Stage{
		StageBrowsing, StageLiked, StageSaved, StageShortlisted,
		StageDiscoveryInProgress, StageDiscoveryCompleted, StageWaitlist,
		StageAgreed, StagePaymentPending, StageActiveClient, StageChosen,
		StageDeclined, StageDeclinedDismissed,
	}
}

func AllGroups() []StageGroup {
	return []StageGroup{GroupDiscovery, GroupSaved, GroupShortlisted, GroupWaitlist, GroupChosen}
}

// GroupOf maps a stage to its journey group. Total over the declared enum;
// an unknown stage is a configuration error and folds into discovery.
func GroupOf(s Stage) StageGroup {
	if g, ok := stageGroups[s]; ok {
		return g
	}
	return GroupDiscovery
}

func IsValid(s Stage) bool {
	_, ok := stageGroups[s]
	return ok
}

func Parse(raw string) (Stage, error) {
	s := Stage(raw)
	if !IsValid(s) {
		return "", fmt.Errorf("unknown engagement stage %q", raw)
	}
	return s, nil
}
