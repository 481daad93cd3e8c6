package matching

import "fmt"

// Weight is one tunable dimension weight. Value must stay inside [Min, Max];
// the bounds ship with the config so the admin surface and the server enforce
// the same envelope.
type Weight struct {
	Value float64 `json:"value"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

type Weights struct {
	Goals           Weight `json:"goals"`
	Location        Weight `json:"location"`
	CoachingStyle   Weight `json:"coaching_style"`
	Schedule        Weight `json:"schedule"`
	Budget          Weight `json:"budget"`
	PackageDuration Weight `json:"package_duration"`
}

type Thresholds struct {
	MinMatchToShow   int `json:"min_match_to_show"`
	GoodMatchLabel   int `json:"good_match_label"`
	TopMatchLabel    int `json:"top_match_label"`
	MinBaselineScore int `json:"min_baseline_score"`
}

// PackageBoundaries bucket a coaching engagement by duration in weeks.
type PackageBoundaries struct {
	SingleSessionMaxWeeks int `json:"single_session_max_weeks"`
	ShortTermMaxWeeks     int `json:"short_term_max_weeks"`
}

// BudgetTolerance is how far above a client's budget a trainer's rate may sit
// before the budget sub-score degrades (soft) or the candidate is excluded
// outright (hard, flag-gated).
type BudgetTolerance struct {
	SoftPercent float64 `json:"soft_percent"`
	HardPercent float64 `json:"hard_percent"`
}

// AvailabilityWindows set how many overlapping weekdays count as a full or
// partial schedule match.
type AvailabilityWindows struct {
	FullMatchDays    int `json:"full_match_days"`
	PartialMatchDays int `json:"partial_match_days"`
}

type Flags struct {
	EnableHardExclusions      bool `json:"enable_hard_exclusions"`
	EnableAvailabilityScoring bool `json:"enable_availability_scoring"`
	EnablePackageScoring      bool `json:"enable_package_scoring"`
}

// Config is the payload of one matching-config version. The admin UI edits it
// as JSON; the scorer consumes it table-driven so operators can retune
// without a deploy.
type Config struct {
	Weights      Weights             `json:"weights"`
	Thresholds   Thresholds          `json:"thresholds"`
	Packages     PackageBoundaries   `json:"package_boundaries"`
	Budget       BudgetTolerance     `json:"budget_tolerance"`
	Availability AvailabilityWindows `json:"availability_windows"`
	Flags        Flags               `json:"flags"`
}

// DefaultConfig is the payload seeded as the first live version.
func DefaultConfig() Config {
	return Config{
		Weights: Weights{
			Goals:           Weight{Value: 30, Min: 10, Max: 40},
			Location:        Weight{Value: 15, Min: 0, Max: 25},
			CoachingStyle:   Weight{Value: 15, Min: 0, Max: 25},
			Schedule:        Weight{Value: 15, Min: 0, Max: 25},
			Budget:          Weight{Value: 15, Min: 5, Max: 30},
			PackageDuration: Weight{Value: 10, Min: 0, Max: 20},
		},
		Thresholds: Thresholds{
			MinMatchToShow:   30,
			GoodMatchLabel:   60,
			TopMatchLabel:    80,
			MinBaselineScore: 0,
		},
		Packages: PackageBoundaries{
			SingleSessionMaxWeeks: 1,
			ShortTermMaxWeeks:     12,
		},
		Budget: BudgetTolerance{
			SoftPercent: 10,
			HardPercent: 50,
		},
		Availability: AvailabilityWindows{
			FullMatchDays:    3,
			PartialMatchDays: 1,
		},
		Flags: Flags{
			EnableHardExclusions:      true,
			EnableAvailabilityScoring: true,
			EnablePackageScoring:      true,
		},
	}
}

// Validate rejects configs the scorer could not interpret sanely. Runs before
// any write, so a malformed draft never reaches the table.
func (c Config) Validate() error {
	weights := []struct {
		name string
		w    Weight
	}{
		{"goals", c.Weights.Goals},
		{"location", c.Weights.Location},
		{"coaching_style", c.Weights.CoachingStyle},
		{"schedule", c.Weights.Schedule},
		{"budget", c.Weights.Budget},
		{"package_duration", c.Weights.PackageDuration},
	}
	total := 0.0
	for _, entry := range weights {
		if entry.w.Min < 0 || entry.w.Max < entry.w.Min {
			return fmt.Errorf("weight %s: bounds [%g, %g] are invalid", entry.name, entry.w.Min, entry.w.Max)
		}
		if entry.w.Value < entry.w.Min || entry.w.Value > entry.w.Max {
			return fmt.Errorf("weight %s: value %g outside bounds [%g, %g]", entry.name, entry.w.Value, entry.w.Min, entry.w.Max)
		}
		total += entry.w.Value
	}
	if total <= 0 {
		return fmt.Errorf("weights sum to %g, nothing to score", total)
	}
	t := c.Thresholds
	if t.MinMatchToShow < 0 || t.MinMatchToShow > 100 {
		return fmt.Errorf("min_match_to_show %d outside [0, 100]", t.MinMatchToShow)
	}
	if t.GoodMatchLabel < t.MinMatchToShow || t.TopMatchLabel < t.GoodMatchLabel || t.TopMatchLabel > 100 {
		return fmt.Errorf("match label thresholds must satisfy min_match_to_show <= good <= top <= 100")
	}
	if t.MinBaselineScore < 0 || t.MinBaselineScore > 100 {
		return fmt.Errorf("min_baseline_score %d outside [0, 100]", t.MinBaselineScore)
	}
	if c.Budget.SoftPercent < 0 || c.Budget.HardPercent < c.Budget.SoftPercent {
		return fmt.Errorf("budget tolerance must satisfy 0 <= soft <= hard")
	}
	if c.Packages.SingleSessionMaxWeeks < 0 || c.Packages.ShortTermMaxWeeks < c.Packages.SingleSessionMaxWeeks {
		return fmt.Errorf("package boundaries must satisfy 0 <= single_session <= short_term")
	}
	if c.Availability.PartialMatchDays < 0 || c.Availability.FullMatchDays < c.Availability.PartialMatchDays {
		return fmt.Errorf("availability windows must satisfy 0 <= partial <= full")
	}
	return nil
}
