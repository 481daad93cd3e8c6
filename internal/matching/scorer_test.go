package matching

import "testing"

func fullMatchClient() ClientInput {
	return ClientInput{
		Goals:            []string{"weight_loss", "strength"},
		City:             "Austin",
		PreferredStyles:  []string{"supportive"},
		AvailableDays:    []string{"monday", "wednesday", "friday"},
		BudgetPerSession: 80,
		DesiredWeeks:     8,
	}
}

func fullMatchTrainer() TrainerInput {
	return TrainerInput{
		Specialties:     []string{"weight_loss", "strength_training"},
		City:            "Austin",
		OffersRemote:    false,
		CoachingStyles:  []string{"supportive", "data_driven"},
		AvailableDays:   []string{"monday", "wednesday", "friday", "saturday"},
		PricePerSession: 70,
		PackageWeeks:    []int{8, 24},
	}
}

func TestScoreFullMatch(t *testing.T) {
	got := Score(fullMatchClient(), fullMatchTrainer(), DefaultConfig())
	if got.Score != 100 {
		t.Errorf("score = %d, want 100", got.Score)
	}
	if got.Label != LabelTop {
		t.Errorf("label = %s, want top_match", got.Label)
	}
	if !got.Show || got.Excluded {
		t.Errorf("show/excluded = %v/%v, want true/false", got.Show, got.Excluded)
	}
	if len(got.Reasons) == 0 {
		t.Error("full match should carry reasons")
	}
}

func TestScoreMinMatchToShowBoundary(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Weights.Budget.Value = 0
	cfg.Weights.Budget.Min = 0
	client := ClientInput{Goals: []string{"weight_loss"}}
	trainer := TrainerInput{Specialties: []string{"weight_loss"}}

	cfg.Weights.Goals.Value = 30
	if got := Score(client, trainer, cfg); !got.Show || got.Score != 30 {
		t.Errorf("score at threshold: score=%d show=%v, want 30/true", got.Score, got.Show)
	}

	cfg.Weights.Goals.Value = 29
	if got := Score(client, trainer, cfg); got.Show || got.Score != 29 {
		t.Errorf("score under threshold: score=%d show=%v, want 29/false", got.Score, got.Show)
	}
}

func TestScoreHardExclusion(t *testing.T) {
	client := fullMatchClient()
	trainer := fullMatchTrainer()
	trainer.PricePerSession = client.BudgetPerSession * 2 // well past the hard band

	cfg := DefaultConfig()
	got := Score(client, trainer, cfg)
	if !got.Excluded {
		t.Fatal("price over hard tolerance should exclude")
	}
	if got.Score != 0 || got.Show || got.Reasons != nil {
		t.Errorf("excluded result = score %d show %v reasons %v, want 0/false/nil", got.Score, got.Show, got.Reasons)
	}

	cfg.Flags.EnableHardExclusions = false
	got = Score(client, trainer, cfg)
	if got.Excluded {
		t.Error("exclusion flag off should keep the candidate")
	}
	if got.Score == 0 {
		t.Error("non-budget dimensions should still score with exclusions off")
	}
}

func TestScoreBudgetBands(t *testing.T) {
	cfg := DefaultConfig()
	base := ClientInput{BudgetPerSession: 100}

	within := Score(base, TrainerInput{PricePerSession: 100}, cfg)
	soft := Score(base, TrainerInput{PricePerSession: 108}, cfg) // 8% over, inside soft band
	hard := Score(base, TrainerInput{PricePerSession: 140}, cfg) // 40% over, inside hard band

	if within.Score != 15 {
		t.Errorf("within budget score = %d, want full budget weight 15", within.Score)
	}
	if soft.Score != 11 { // 15 * 0.7 rounded
		t.Errorf("soft band score = %d, want 11", soft.Score)
	}
	if hard.Score != 5 { // 15 * 0.3 rounded
		t.Errorf("hard band score = %d, want 5", hard.Score)
	}
	if hard.Excluded {
		t.Error("inside the hard band is degraded, not excluded")
	}
}

func TestScoreNoBudgetSetScoresFullWeight(t *testing.T) {
	got := Score(ClientInput{}, TrainerInput{PricePerSession: 500}, DefaultConfig())
	if got.Score != 15 {
		t.Errorf("no-budget client score = %d, want budget weight 15", got.Score)
	}
	if got.Show {
		t.Error("budget weight alone sits under min_match_to_show")
	}
}

func TestScoreEmptyWantsScoreNothing(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Weights.Budget.Value = 5
	client := ClientInput{BudgetPerSession: 50}
	trainer := TrainerInput{
		Specialties:    []string{"yoga"},
		CoachingStyles: []string{"tough_love"},
		AvailableDays:  []string{"monday"},
	}
	got := Score(client, trainer, cfg)
	if got.Score != 5 {
		t.Errorf("score = %d, want only the budget weight 5", got.Score)
	}
}

func TestScoreSpecialtyAliases(t *testing.T) {
	cfg := DefaultConfig()
	client := ClientInput{Goals: []string{"weight_loss"}}
	trainer := TrainerInput{Specialties: []string{"Fat Loss"}}
	got := Score(client, trainer, cfg)
	if got.Score < int(cfg.Weights.Goals.Value) {
		t.Errorf("fat_loss should satisfy a weight_loss goal, score = %d", got.Score)
	}
}

func TestScoreRemoteTrainerPartialLocationCredit(t *testing.T) {
	cfg := DefaultConfig()
	local := Score(ClientInput{City: "Denver"}, TrainerInput{City: "Denver"}, cfg)
	remote := Score(ClientInput{City: "Denver"}, TrainerInput{City: "Miami", OffersRemote: true}, cfg)
	elsewhere := Score(ClientInput{City: "Denver"}, TrainerInput{City: "Miami"}, cfg)

	if !(local.Score > remote.Score && remote.Score > elsewhere.Score) {
		t.Errorf("location credit ordering wrong: local=%d remote=%d elsewhere=%d",
			local.Score, remote.Score, elsewhere.Score)
	}
}

func TestScoreLabels(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Weights.Budget.Value = 0
	cfg.Weights.Budget.Min = 0
	client := ClientInput{Goals: []string{"a"}}
	trainer := TrainerInput{Specialties: []string{"a"}}

	cases := []struct {
		weight float64
		want   Label
	}{
		{40, LabelNeutral},
		{60, LabelGood},
		{79, LabelGood},
		{80, LabelTop},
	}
	for _, tc := range cases {
		cfg.Weights.Goals.Value = tc.weight
		cfg.Weights.Goals.Max = 100
		if got := Score(client, trainer, cfg); got.Label != tc.want {
			t.Errorf("weight %g: label = %s, want %s", tc.weight, got.Label, tc.want)
		}
	}
}

func TestScoreClampsAt100(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Weights.Goals.Value = 150
	cfg.Weights.Goals.Max = 200
	got := Score(ClientInput{Goals: []string{"a"}}, TrainerInput{Specialties: []string{"a"}}, cfg)
	if got.Score != 100 {
		t.Errorf("score = %d, want clamp at 100", got.Score)
	}
}

func TestScoreScheduleWindows(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Weights.Budget.Value = 0
	cfg.Weights.Budget.Min = 0

	full := Score(
		ClientInput{AvailableDays: []string{"monday", "tuesday", "wednesday"}},
		TrainerInput{AvailableDays: []string{"monday", "tuesday", "wednesday"}},
		cfg,
	)
	partial := Score(
		ClientInput{AvailableDays: []string{"monday", "tuesday", "wednesday"}},
		TrainerInput{AvailableDays: []string{"monday"}},
		cfg,
	)
	none := Score(
		ClientInput{AvailableDays: []string{"monday"}},
		TrainerInput{AvailableDays: []string{"sunday"}},
		cfg,
	)

	if full.Score != 15 {
		t.Errorf("full schedule overlap score = %d, want 15", full.Score)
	}
	if partial.Score != 8 { // 15 * 0.5 rounded
		t.Errorf("partial overlap score = %d, want 8", partial.Score)
	}
	if none.Score != 0 {
		t.Errorf("no overlap score = %d, want 0", none.Score)
	}

	cfg.Flags.EnableAvailabilityScoring = false
	off := Score(
		ClientInput{AvailableDays: []string{"monday", "tuesday", "wednesday"}},
		TrainerInput{AvailableDays: []string{"monday", "tuesday", "wednesday"}},
		cfg,
	)
	if off.Score != 0 {
		t.Errorf("availability scoring off should contribute nothing, got %d", off.Score)
	}
}

func TestScorePackageBuckets(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Weights.Budget.Value = 0
	cfg.Weights.Budget.Min = 0

	// 8 desired weeks and a 12-week package land in the same short-term bucket.
	sameBucket := Score(
		ClientInput{DesiredWeeks: 8},
		TrainerInput{PackageWeeks: []int{12}},
		cfg,
	)
	if sameBucket.Score != 10 {
		t.Errorf("same bucket score = %d, want package weight 10", sameBucket.Score)
	}

	// 1 week is single-session; 20 weeks is ongoing. Neither matches short-term.
	otherBucket := Score(
		ClientInput{DesiredWeeks: 8},
		TrainerInput{PackageWeeks: []int{1, 20}},
		cfg,
	)
	if otherBucket.Score != 0 {
		t.Errorf("different bucket score = %d, want 0", otherBucket.Score)
	}
}
