package matching

import (
	"fmt"
	"math"
	"strings"
)

// ClientInput is the scoring-relevant slice of a client profile.
type ClientInput struct {
	Goals            []string
	City             string
	PreferredStyles  []string
	AvailableDays    []string
	BudgetPerSession float64
	DesiredWeeks     int
}

// TrainerInput is the scoring-relevant slice of a trainer profile.
type TrainerInput struct {
	Specialties     []string
	City            string
	OffersRemote    bool
	CoachingStyles  []string
	AvailableDays   []string
	PricePerSession float64
	PackageWeeks    []int
}

type Label string

const (
	LabelTop     Label = "top_match"
	LabelGood    Label = "good_match"
	LabelNeutral Label = "match"
)

// Result is the scorer's full output. Score is an integer in [0, 100].
// Excluded candidates and candidates under min_match_to_show must not be
// surfaced; Show folds both rules together.
type Result struct {
	Score    int      `json:"score"`
	Label    Label    `json:"label"`
	Reasons  []string `json:"reasons"`
	Show     bool     `json:"show"`
	Excluded bool     `json:"excluded"`
}

// Score computes the weighted compatibility between a client and a trainer
// under the given config. Pure: no I/O, no side effects.
func Score(client ClientInput, trainer TrainerInput, cfg Config) Result {
	var total float64
	var reasons []string
	excluded := false

	// Goals
	if sub, frac := overlapScore(client.Goals, expandSpecialties(trainer.Specialties), cfg.Weights.Goals.Value); frac > 0 {
		total += sub
		if frac >= 0.5 {
			reasons = append(reasons, "Specializes in your training goals")
		}
	}

	// Location
	switch {
	case sameCity(client.City, trainer.City):
		total += cfg.Weights.Location.Value
		reasons = append(reasons, fmt.Sprintf("Based in %s like you", strings.TrimSpace(trainer.City)))
	case trainer.OffersRemote:
		total += cfg.Weights.Location.Value * 0.7
		reasons = append(reasons, "Offers remote coaching")
	}

	// Coaching style
	if sub, frac := overlapScore(client.PreferredStyles, trainer.CoachingStyles, cfg.Weights.CoachingStyle.Value); frac > 0 {
		total += sub
		if frac >= 0.5 {
			reasons = append(reasons, "Coaching style fits your preference")
		}
	}

	// Schedule
	if cfg.Flags.EnableAvailabilityScoring {
		overlap := overlapCount(client.AvailableDays, trainer.AvailableDays)
		switch {
		case overlap >= cfg.Availability.FullMatchDays:
			total += cfg.Weights.Schedule.Value
			reasons = append(reasons, "Available on your training days")
		case overlap >= cfg.Availability.PartialMatchDays && cfg.Availability.PartialMatchDays > 0:
			total += cfg.Weights.Schedule.Value * 0.5
		}
	}

	// Budget
	budgetSub, budgetReason, hardMiss := budgetScore(client.BudgetPerSession, trainer.PricePerSession, cfg)
	total += budgetSub
	if budgetReason != "" {
		reasons = append(reasons, budgetReason)
	}
	if hardMiss && cfg.Flags.EnableHardExclusions {
		excluded = true
	}

	// Package duration
	if cfg.Flags.EnablePackageScoring && client.DesiredWeeks > 0 {
		want := packageBucket(client.DesiredWeeks, cfg.Packages)
		for _, weeks := range trainer.PackageWeeks {
			if packageBucket(weeks, cfg.Packages) == want {
				total += cfg.Weights.PackageDuration.Value
				reasons = append(reasons, "Offers the program length you want")
				break
			}
		}
	}

	score := int(math.Round(clamp(total, 0, 100)))
	if score < cfg.Thresholds.MinBaselineScore {
		score = cfg.Thresholds.MinBaselineScore
	}
	if excluded {
		score = 0
		reasons = nil
	}

	return Result{
		Score:    score,
		Label:    labelFor(score, cfg.Thresholds),
		Reasons:  reasons,
		Show:     !excluded && score >= cfg.Thresholds.MinMatchToShow,
		Excluded: excluded,
	}
}

func labelFor(score int, t Thresholds) Label {
	switch {
	case score >= t.TopMatchLabel:
		return LabelTop
	case score >= t.GoodMatchLabel:
		return LabelGood
	default:
		return LabelNeutral
	}
}

// budgetScore degrades over the soft tolerance band and reports a hard miss
// beyond the hard band. A client with no budget set scores the full weight.
func budgetScore(budget, price float64, cfg Config) (float64, string, bool) {
	w := cfg.Weights.Budget.Value
	if budget <= 0 {
		return w, "", false
	}
	if price <= budget {
		return w, "Within your budget", false
	}
	overPct := (price - budget) / budget * 100
	if overPct <= cfg.Budget.SoftPercent {
		return w * 0.7, "Close to your budget", false
	}
	if overPct <= cfg.Budget.HardPercent {
		return w * 0.3, "", false
	}
	return 0, "", true
}

type packageKind int

const (
	packageSingle packageKind = iota
	packageShortTerm
	packageOngoing
)

func packageBucket(weeks int, b PackageBoundaries) packageKind {
	switch {
	case weeks <= b.SingleSessionMaxWeeks:
		return packageSingle
	case weeks <= b.ShortTermMaxWeeks:
		return packageShortTerm
	default:
		return packageOngoing
	}
}

// overlapScore returns weight * (matched wanted items / wanted items) and the
// match fraction. Empty wants score zero rather than full, so clients who
// state nothing are not inflated.
func overlapScore(wants, offers []string, weight float64) (float64, float64) {
	if len(wants) == 0 {
		return 0, 0
	}
	offerSet := normalizeSet(offers)
	matched := 0
	for _, want := range wants {
		if _, ok := offerSet[normalizeTag(want)]; ok {
			matched++
		}
	}
	frac := float64(matched) / float64(len(wants))
	return weight * frac, frac
}

func overlapCount(a, b []string) int {
	set := normalizeSet(b)
	seen := make(map[string]struct{}, len(a))
	count := 0
	for _, day := range a {
		key := normalizeTag(day)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if _, ok := set[key]; ok {
			count++
		}
	}
	return count
}

func normalizeSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if key := normalizeTag(v); key != "" {
			set[key] = struct{}{}
		}
	}
	return set
}

func normalizeTag(v string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(v), " ", "_"))
}

// expandSpecialties adds common aliases so "fat_loss" trainers match
// "weight_loss" goals.
func expandSpecialties(specialties []string) []string {
	out := make([]string, 0, len(specialties)*2)
	for _, s := range specialties {
		key := normalizeTag(s)
		out = append(out, key)
		switch key {
		case "fat_loss", "weight_loss":
			out = append(out, "weight_loss", "fat_loss")
		case "bodybuilding", "muscle_gain", "hypertrophy":
			out = append(out, "muscle_gain", "bodybuilding")
		case "strength_training", "strength", "powerlifting":
			out = append(out, "strength", "strength_training")
		case "yoga", "mobility", "flexibility":
			out = append(out, "flexibility", "mobility")
		}
	}
	return out
}

func sameCity(a, b string) bool {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	return a != "" && a == b
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
