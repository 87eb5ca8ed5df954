// Package profile holds the personal details shown on the home page.
package profile

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed profile.yaml
var defaultProfile []byte

type Profile struct {
	Name       string       `yaml:"name"`
	Role       string       `yaml:"role"`
	Location   string       `yaml:"location"`
	Hero       Hero         `yaml:"hero"`
	About      About        `yaml:"about"`
	Education  []Education  `yaml:"education"`
	Experience []Experience `yaml:"experience"`
	TechStack  []TechGroup  `yaml:"techStack"`
	Contact    Contact      `yaml:"contact"`
	Links      []Link       `yaml:"links"`
}

type Hero struct {
	Headline []string `yaml:"headline"`
	Summary  string   `yaml:"summary"`
	CVURL    string   `yaml:"cvUrl"`
}

type About struct {
	Paragraphs []string    `yaml:"paragraphs"`
	Highlights []Highlight `yaml:"highlights"`
}

type Highlight struct {
	Label string `yaml:"label"`
	Value string `yaml:"value"`
}

type Education struct {
	Degree      string `yaml:"degree"`
	School      string `yaml:"school"`
	Period      string `yaml:"period"`
	Location    string `yaml:"location"`
	Description string `yaml:"description"`
}

type Experience struct {
	Role        string `yaml:"role"`
	Company     string `yaml:"company"`
	Period      string `yaml:"period"`
	Description string `yaml:"description"`
}

type TechGroup struct {
	Group string   `yaml:"group"`
	Items []string `yaml:"items"`
}

type Contact struct {
	Email    string `yaml:"email"`
	Phone    string `yaml:"phone"`
	Location string `yaml:"location"`
}

type Link struct {
	Label string `yaml:"label"`
	URL   string `yaml:"url"`
}

// Load reads the profile at path, or the embedded default when path is empty.
func Load(path string) (*Profile, error) {
	if path == "" {
		return Parse(defaultProfile)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile %s: %w", path, err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}
	if p.Name == "" {
		return nil, errors.New("profile name is required")
	}
	return &p, nil
}
