package platform

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"ghostjob-engine/internal/parse/strategy"
)

// yamlProfile is the on-disk form of a Profile. Users drop extra platform
// definitions into parsers.yml without recompiling.
type yamlProfile struct {
	Name       string              `yaml:"name"`
	Version    string              `yaml:"version"`
	Confidence float64             `yaml:"confidence"`
	Hosts      []string            `yaml:"hosts"`
	Selectors  map[string][]string `yaml:"selectors"`
	Patterns   map[string][]string `yaml:"patterns"`
}

// LoadOverlay reads user-supplied profiles. A missing file is not an error;
// a malformed one is, so a typo doesn't silently drop a parser.
func LoadOverlay(path string) ([]*Profile, error) {
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var raw []yamlProfile
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("parsers overlay: %w", err)
	}

	out := make([]*Profile, 0, len(raw))
	for _, yp := range raw {
		if yp.Name == "" || len(yp.Hosts) == 0 {
			return nil, fmt.Errorf("parsers overlay: profile needs name and hosts")
		}
		p := &Profile{
			Name:           yp.Name,
			Version:        yp.Version,
			SelfConfidence: yp.Confidence,
			HostPatterns:   yp.Hosts,
			Selectors: strategy.Selectors{
				Title:       yp.Selectors["title"],
				Company:     yp.Selectors["company"],
				Location:    yp.Selectors["location"],
				Description: yp.Selectors["description"],
				Salary:      yp.Selectors["salary"],
			},
		}
		if p.SelfConfidence <= 0 {
			p.SelfConfidence = 0.70
		}
		if len(yp.Patterns) > 0 {
			p.Patterns = strategy.FieldPatterns{}
			for field, pats := range yp.Patterns {
				for _, pat := range pats {
					re, err := regexp.Compile(pat)
					if err != nil {
						return nil, fmt.Errorf("parsers overlay: profile %s field %s: %w", yp.Name, field, err)
					}
					p.Patterns[field] = append(p.Patterns[field], re)
				}
			}
		}
		out = append(out, p)
	}
	return out, nil
}
