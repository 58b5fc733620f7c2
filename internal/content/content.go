// Package content loads the tutorial, achievement and challenge catalog.
//
// Catalog files are YAML. Each is converted to a JSON value, validated
// against its JSON Schema, checked for a supported schema_version, then
// decoded into typed records and cross-checked against the algorithm
// registry.
package content

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/abhisek/algoquest/internal/achievements"
)

//go:embed catalog/*.yaml
var catalogFS embed.FS

//go:embed schema/*.json
var schemaFS embed.FS

// ErrVersion is returned for a schema_version this build cannot read.
var ErrVersion = errors.New("unsupported schema version")

// SupportedMajor is the catalog schema major version this build reads.
const SupportedMajor = "v1"

// Tutorial is a short multi-step lesson, usually about one algorithm.
type Tutorial struct {
	ID        string         `json:"id" mapstructure:"id"`
	Title     string         `json:"title" mapstructure:"title"`
	Algorithm string         `json:"algorithm,omitempty" mapstructure:"algorithm"`
	Summary   string         `json:"summary" mapstructure:"summary"`
	XPReward  int            `json:"xp_reward" mapstructure:"xp_reward"`
	Steps     []TutorialStep `json:"steps" mapstructure:"steps"`
}

// TutorialStep is one markdown page of a tutorial.
type TutorialStep struct {
	Title string `json:"title" mapstructure:"title"`
	Body  string `json:"body" mapstructure:"body"`
}

// Challenge is a coding exercise checked against fixed cases.
type Challenge struct {
	ID         string `json:"id" mapstructure:"id"`
	Title      string `json:"title" mapstructure:"title"`
	Prompt     string `json:"prompt" mapstructure:"prompt"`
	Algorithm  string `json:"algorithm,omitempty" mapstructure:"algorithm"`
	Difficulty string `json:"difficulty,omitempty" mapstructure:"difficulty"`
	Signature  string `json:"signature" mapstructure:"signature"`
	Starter    string `json:"starter,omitempty" mapstructure:"starter"`
	XPReward   int    `json:"xp_reward" mapstructure:"xp_reward"`
	Cases      []Case `json:"cases" mapstructure:"cases"`
}

// Case is one input/expected-output pair. Want holds an int or a []int
// after loading.
type Case struct {
	Input  []int `json:"input" mapstructure:"input"`
	Target *int  `json:"target,omitempty" mapstructure:"target"`
	Want   any   `json:"want" mapstructure:"want"`
}

// Catalog is the loaded content.
type Catalog struct {
	Achievements []achievements.Definition
	Challenges   []Challenge
	Tutorials    []Tutorial
}

// Achievement returns the achievement with id.
func (c *Catalog) Achievement(id string) (achievements.Definition, bool) {
	return achievements.Find(c.Achievements, id)
}

// Challenge returns the challenge with id.
func (c *Catalog) Challenge(id string) (Challenge, bool) {
	for _, ch := range c.Challenges {
		if ch.ID == id {
			return ch, true
		}
	}
	return Challenge{}, false
}

// Tutorial returns the tutorial with id, or the one teaching the algorithm
// named id.
func (c *Catalog) Tutorial(id string) (Tutorial, bool) {
	for _, t := range c.Tutorials {
		if t.ID == id {
			return t, true
		}
	}
	for _, t := range c.Tutorials {
		if t.Algorithm != "" && t.Algorithm == id {
			return t, true
		}
	}
	return Tutorial{}, false
}

// Load reads the embedded catalog.
func Load() (*Catalog, error) {
	sub, err := fs.Sub(catalogFS, "catalog")
	if err != nil {
		return nil, fmt.Errorf("catalog fs: %w", err)
	}
	return LoadFS(sub)
}

// LoadFS reads achievements.yaml, challenges.yaml and tutorials.yaml from
// fsys.
func LoadFS(fsys fs.FS) (*Catalog, error) {
	var (
		achFile struct {
			Achievements []achievements.Definition `mapstructure:"achievements"`
		}
		chFile struct {
			Challenges []Challenge `mapstructure:"challenges"`
		}
		tutFile struct {
			Tutorials []Tutorial `mapstructure:"tutorials"`
		}
	)

	files := []struct {
		name   string
		schema string
		out    any
	}{
		{"achievements.yaml", "achievements", &achFile},
		{"challenges.yaml", "challenges", &chFile},
		{"tutorials.yaml", "tutorials", &tutFile},
	}
	for _, f := range files {
		if err := loadFile(fsys, f.name, f.schema, f.out); err != nil {
			return nil, err
		}
	}

	cat := &Catalog{
		Achievements: achFile.Achievements,
		Challenges:   chFile.Challenges,
		Tutorials:    tutFile.Tutorials,
	}
	if err := normalize(cat); err != nil {
		return nil, err
	}
	if err := check(cat); err != nil {
		return nil, err
	}
	return cat, nil
}
