package matching

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Weights are the relative importance of each sub-score. They do not need to
// sum to 100; scores are normalized by the total.
type Weights struct {
	Sport        float64 `yaml:"sport"`
	Geography    float64 `yaml:"geography"`
	Followers    float64 `yaml:"followers"`
	Engagement   float64 `yaml:"engagement"`
	Budget       float64 `yaml:"budget"`
	Availability float64 `yaml:"availability"`
}

func DefaultWeights() Weights {
	return Weights{
		Sport:        30,
		Geography:    15,
		Followers:    20,
		Engagement:   15,
		Budget:       15,
		Availability: 5,
	}
}

func (w Weights) Total() float64 {
	return w.Sport + w.Geography + w.Followers + w.Engagement + w.Budget + w.Availability
}

func (w Weights) Validate() error {
	for name, v := range map[string]float64{
		"sport":        w.Sport,
		"geography":    w.Geography,
		"followers":    w.Followers,
		"engagement":   w.Engagement,
		"budget":       w.Budget,
		"availability": w.Availability,
	} {
		if v < 0 {
			return fmt.Errorf("weight %s must be >= 0", name)
		}
	}
	if w.Total() <= 0 {
		return fmt.Errorf("weights must sum to more than zero")
	}
	return nil
}

type weightsFile struct {
	Weights Weights `yaml:"weights"`
}

// ParseWeights reads a YAML document with a top level "weights" mapping.
// Keys that are absent keep their default value.
func ParseWeights(raw []byte) (Weights, error) {
	doc := weightsFile{Weights: DefaultWeights()}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return Weights{}, fmt.Errorf("decode match weights: %w", err)
	}
	if err := doc.Weights.Validate(); err != nil {
		return Weights{}, err
	}
	return doc.Weights, nil
}

// LoadWeights returns DefaultWeights when path is empty.
func LoadWeights(path string) (Weights, error) {
	if path == "" {
		return DefaultWeights(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Weights{}, fmt.Errorf("read match weights file: %w", err)
	}
	return ParseWeights(raw)
}
