package spec

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ChicagoDave/tourplanner/pkg/economics"
	"github.com/ChicagoDave/tourplanner/pkg/environment"
	"github.com/ChicagoDave/tourplanner/pkg/fatigue"
)

// ProjectFile is the project file name LoadProject looks for.
const ProjectFile = "tour.yaml"

// CurrentVersion is written by ApplyDefaults when spec_version is missing.
const CurrentVersion = "0.1.0"

// Load reads a tour spec from a YAML file and applies defaults.
func Load(path string) (*TourSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading spec file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a tour spec from YAML and applies defaults.
func Parse(data []byte) (*TourSpec, error) {
	var spec TourSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parsing spec YAML: %w", err)
	}
	ApplyDefaults(&spec)
	return &spec, nil
}

// LoadProject loads a tour spec from a project directory.
// It looks for tour.yaml in the given directory.
func LoadProject(projectDir string) (*TourSpec, error) {
	return Load(filepath.Join(projectDir, ProjectFile))
}

// ApplyDefaults fills optional fields left empty in the file.
func ApplyDefaults(s *TourSpec) {
	if s.SpecVersion == "" {
		s.SpecVersion = CurrentVersion
	}
	if s.Tour.ID == "" {
		s.Tour.ID = "tour"
	}
	if s.Tour.Name == "" {
		s.Tour.Name = s.Tour.ID
	}
	if s.Travel.FatigueThreshold == 0 {
		s.Travel.FatigueThreshold = fatigue.DefaultThreshold
	}
	if s.Environment.Timeout == "" {
		s.Environment.Timeout = environment.DefaultTimeout.String()
	}
	for i := range s.Stops {
		if s.Stops[i].ShowType == "" {
			s.Stops[i].ShowType = string(economics.ShowStandard)
		}
	}
	for i := range s.Environment.Effects {
		if len(s.Environment.Effects[i].Locations) == 0 {
			s.Environment.Effects[i].Locations = []string{environment.AnyLocation}
		}
	}
}
