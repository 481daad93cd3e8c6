package matching

import "testing"

func TestDefaultConfigValidates(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("packaged default config failed validation: %v", err)
	}
}

func TestValidateRejectsBadConfigs(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"weight above its max", func(c *Config) { c.Weights.Goals.Value = 99 }},
		{"weight below its min", func(c *Config) { c.Weights.Budget.Value = 1 }},
		{"inverted weight bounds", func(c *Config) { c.Weights.Location.Min = 30; c.Weights.Location.Max = 10; c.Weights.Location.Value = 20 }},
		{"negative weight min", func(c *Config) { c.Weights.Schedule.Min = -5; c.Weights.Schedule.Value = -1 }},
		{"min_match_to_show over 100", func(c *Config) { c.Thresholds.MinMatchToShow = 120 }},
		{"good label below min_match_to_show", func(c *Config) { c.Thresholds.GoodMatchLabel = 10 }},
		{"top label below good label", func(c *Config) { c.Thresholds.TopMatchLabel = 50 }},
		{"top label over 100", func(c *Config) { c.Thresholds.TopMatchLabel = 150 }},
		{"baseline score over 100", func(c *Config) { c.Thresholds.MinBaselineScore = 101 }},
		{"budget soft above hard", func(c *Config) { c.Budget.SoftPercent = 60; c.Budget.HardPercent = 40 }},
		{"negative budget soft", func(c *Config) { c.Budget.SoftPercent = -1 }},
		{"package short term below single session", func(c *Config) { c.Packages.SingleSessionMaxWeeks = 20 }},
		{"availability full below partial", func(c *Config) { c.Availability.FullMatchDays = 0; c.Availability.PartialMatchDays = 2 }},
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: Validate should reject", tt.name)
		}
	}
}

func TestValidateRejectsZeroWeightTotal(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Weights = Weights{
		Goals:           Weight{Value: 0, Min: 0, Max: 40},
		Location:        Weight{Value: 0, Min: 0, Max: 25},
		CoachingStyle:   Weight{Value: 0, Min: 0, Max: 25},
		Schedule:        Weight{Value: 0, Min: 0, Max: 25},
		Budget:          Weight{Value: 0, Min: 0, Max: 30},
		PackageDuration: Weight{Value: 0, Min: 0, Max: 20},
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("all-zero weights should be rejected")
	}
}
