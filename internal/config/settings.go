package config

import (
	"fmt"
	"os"
	"sort"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Settings holds the defaults needed to talk to AWS
type Settings struct {
	ProjectName    string            `yaml:"project_name"`
	DefaultRegion  string            `yaml:"default_region"`
	Partition      string            `yaml:"partition"`
	Regions        map[string]string `yaml:"regions,omitempty"`
	SecurityGroups map[string]string `yaml:"security_groups,omitempty"`
}

// Default returns the built-in settings. Oregon is the only region served.
func Default() *Settings {
	return &Settings{
		ProjectName:   "neutrino",
		DefaultRegion: "us-west-2",
		Partition:     "aws",
		Regions: map[string]string{
			"us-east-1":      "US East (N. Virginia)",
			"us-east-2":      "US East (Ohio)",
			"us-west-1":      "US West (N. California)",
			"us-west-2":      "US West (Oregon)",
			"ca-central-1":   "Canada (Central)",
			"eu-west-1":      "EU (Ireland)",
			"eu-central-1":   "EU (Frankfurt)",
			"eu-west-2":      "EU (London)",
			"eu-west-3":      "EU (Paris)",
			"eu-north-1":     "EU (Stockholm)",
			"ap-northeast-1": "Asia Pacific (Tokyo)",
			"ap-northeast-2": "Asia Pacific (Seoul)",
			"ap-southeast-1": "Asia Pacific (Singapore)",
			"ap-southeast-2": "Asia Pacific (Sydney)",
			"ap-south-1":     "Asia Pacific (Mumbai)",
			"sa-east-1":      "South America (São Paulo)",
			"us-gov-west-1":  "US Gov West 1",
			"us-gov-east-1":  "US Gov East 1",
		},
		SecurityGroups: map[string]string{},
	}
}

// LoadSettingsFromFile loads settings from a YAML file on top of the defaults
func LoadSettingsFromFile(filePath string) (*Settings, error) {
	_, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("settings file not found: %s", filePath)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrap(err, "error reading settings file")
	}

	return ParseSettings(data)
}

// ParseSettings decodes YAML settings. Keys missing from the document keep their defaults;
// region entries are merged into the built-in table.
func ParseSettings(data []byte) (*Settings, error) {
	settings := Default()
	regions := settings.Regions
	// decoded into a fresh map, so only the file's entries land here
	settings.Regions = nil

	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, errors.Wrap(err, "error parsing settings file")
	}

	for code, name := range settings.Regions {
		regions[code] = name
	}
	settings.Regions = regions
	if settings.SecurityGroups == nil {
		settings.SecurityGroups = map[string]string{}
	}

	if err := settings.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid settings")
	}

	return settings, nil
}

// Validate checks the settings are usable
func (s *Settings) Validate() error {
	if s.ProjectName == "" {
		return fmt.Errorf("project_name is required")
	}

	if s.DefaultRegion == "" {
		return fmt.Errorf("default_region is required")
	}

	if !s.KnownRegion(s.DefaultRegion) {
		return fmt.Errorf("default_region %q is not a known region", s.DefaultRegion)
	}

	if s.Partition == "" {
		return fmt.Errorf("partition is required")
	}

	return nil
}

// KnownRegion reports whether code is in the regions table
func (s *Settings) KnownRegion(code string) bool {
	_, ok := s.Regions[code]
	return ok
}

// RegionCodes returns the known region codes in sorted order
func (s *Settings) RegionCodes() []string {
	codes := make([]string, 0, len(s.Regions))
	for code := range s.Regions {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// ProjectSecurityGroups returns the security group configured for the project,
// falling back to the "default" entry
func (s *Settings) ProjectSecurityGroups() []string {
	if sg, ok := s.SecurityGroups[s.ProjectName]; ok && sg != "" {
		return []string{sg}
	}
	if sg, ok := s.SecurityGroups["default"]; ok && sg != "" {
		return []string{sg}
	}
	return nil
}
