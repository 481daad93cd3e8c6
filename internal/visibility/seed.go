package visibility

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/Not-Another-Coach/nac-backend/internal/engagement"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type seedEntry struct {
	Content string            `yaml:"content"`
	States  map[string]string `yaml:"states"`
}

type seedFile struct {
	Defaults []seedEntry `yaml:"defaults"`
}

// SeedMatrix parses the packaged default matrix used to populate the
// visibility_default table on first boot.
func SeedMatrix() (Matrix, error) {
	var f seedFile
	if err := yaml.Unmarshal(defaultsYAML, &f); err != nil {
		return nil, fmt.Errorf("Failed to parse packaged visibility defaults: %w", err)
	}
	m := make(Matrix)
	for _, entry := range f.Defaults {
		if !IsContentType(entry.Content) {
			return nil, fmt.Errorf("unknown content type %q in packaged visibility defaults", entry.Content)
		}
		for group, state := range entry.States {
			st, ok := ParseState(state)
			if !ok {
				return nil, fmt.Errorf("unknown visibility state %q for %s/%s", state, entry.Content, group)
			}
			found := false
			for _, g := range engagement.AllGroups() {
				if g == engagement.StageGroup(group) {
					found = true
					break
				}
			}
			if !found {
				return nil, fmt.Errorf("unknown stage group %q in packaged visibility defaults", group)
			}
			m[Key{Content: ContentType(entry.Content), Group: engagement.StageGroup(group)}] = st
		}
	}
	return m, nil
}
