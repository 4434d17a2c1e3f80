package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile is the optional YAML run profile named by ANALYSIS_PROFILE.
// It carries the per-run parameters that are awkward as environment
// variables; any value here can still be overridden from the
// environment.
type Profile struct {
	RunUUID                string   `yaml:"run_uuid"`
	ClustersOfInterest     []string `yaml:"clusters_of_interest"`
	OutputRoot             string   `yaml:"output_root"`
	OriginalsDir           string   `yaml:"originals_dir"`
	UserHotspotPath        string   `yaml:"user_hotspot_path"`
	UserClustersOfInterest []string `yaml:"user_clusters_of_interest"`
	SampleSize             int      `yaml:"sample_size"`
	RandomSeed             *int64   `yaml:"random_seed"`
	CopyWorkers            int      `yaml:"copy_workers"`
}

// LoadProfile reads and decodes a YAML run profile.
func LoadProfile(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("failed to read run profile %s: %w", path, err)
	}
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("failed to parse run profile %s: %w", path, err)
	}
	return p, nil
}
