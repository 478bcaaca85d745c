package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/beacon/internal/config"
	"github.com/roach88/beacon/internal/geom"
	"github.com/roach88/beacon/internal/registration"
)

// Scenario defines a registration scenario and its expected outcome.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Input is the scanner report file. LoadScenario resolves it relative
	// to the scenario file.
	Input string `yaml:"input"`

	// Threshold, Orientations and Workers override the defaults when set.
	Threshold    int    `yaml:"threshold,omitempty"`
	Orientations string `yaml:"orientations,omitempty"`
	Workers      int    `yaml:"workers,omitempty"`

	// Expect holds the checks applied to the outcome.
	Expect Expectation `yaml:"expect"`
}

// Expectation lists the checks for one scenario. Unset fields are not
// checked. Error is exclusive with the success checks.
type Expectation struct {
	UniqueBeacons *int           `yaml:"unique_beacons,omitempty"`
	MaxDistance   *int           `yaml:"max_distance,omitempty"`
	Positions     map[int]string `yaml:"positions,omitempty"`
	Error         *ExpectedError `yaml:"error,omitempty"`
}

// ExpectedError is a registration failure a scenario expects.
type ExpectedError struct {
	Code string `yaml:"code"`

	// Unresolved, when set, must equal the failure's unresolved IDs.
	Unresolved []int `yaml:"unresolved,omitempty"`
}

func (e Expectation) empty() bool {
	return e.UniqueBeacons == nil && e.MaxDistance == nil && len(e.Positions) == 0 && e.Error == nil
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict decoding catches typos like "expects:" vs "expect:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Resolve the input path BEFORE validation
	if scenario.Input != "" && !filepath.IsAbs(scenario.Input) {
		scenario.Input = filepath.Join(filepath.Dir(path), scenario.Input)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// Config returns the registration settings for s: defaults overlaid with
// the fields the scenario sets.
func (s *Scenario) Config() (config.Config, error) {
	cfg := config.Default()
	if s.Threshold != 0 {
		cfg.Threshold = s.Threshold
	}
	if s.Orientations != "" {
		mode, err := geom.ParseMode(s.Orientations)
		if err != nil {
			return config.Config{}, err
		}
		cfg.Orientations = mode
	}
	if s.Workers != 0 {
		cfg.Workers = s.Workers
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Input == "" {
		return fmt.Errorf("input is required")
	}
	if _, err := os.Stat(s.Input); os.IsNotExist(err) {
		return fmt.Errorf("input file not found: %s", s.Input)
	}

	if _, err := s.Config(); err != nil {
		return err
	}

	if s.Expect.empty() {
		return fmt.Errorf("expect must name at least one check")
	}

	if e := s.Expect.Error; e != nil {
		if e.Code == "" {
			return fmt.Errorf("expect.error: code is required")
		}
		if s.Expect.UniqueBeacons != nil || s.Expect.MaxDistance != nil || len(s.Expect.Positions) > 0 {
			return fmt.Errorf("expect.error cannot be combined with result checks")
		}
		switch registration.ErrorCode(e.Code) {
		case registration.ErrCodeStalled, registration.ErrCodeEmptyInput,
			registration.ErrCodeDuplicateScanner, registration.ErrCodeInvalidThreshold,
			registration.ErrCodeInvalidOrientations:
		default:
			return fmt.Errorf("expect.error: unknown code %q", e.Code)
		}
	}

	for id, pos := range s.Expect.Positions {
		if _, err := geom.ParsePoint(pos); err != nil {
			return fmt.Errorf("expect.positions[%d]: %w", id, err)
		}
	}

	return nil
}
