package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Top-level YAML config key names used for shallow merge.
const (
	keyLogging = "logging"
	keyOutput  = "output"
	keyAPI     = "api"
)

// ShallowMergeYAML loads a YAML file and merges its top-level keys onto
// the target Config. A section present in the file is decoded over the
// target's current section, so keys it omits keep their defaults. Sections
// absent from the file, and unknown sections, are left alone.
func ShallowMergeYAML(target *Config, overlayPath string) error {
	if target == nil {
		return errors.New("nil target *Config in ShallowMergeYAML")
	}

	data, err := os.ReadFile(overlayPath)
	if err != nil {
		return fmt.Errorf("reading settings file %s: %w", overlayPath, err)
	}
	return mergeYAML(target, data, overlayPath)
}

func mergeYAML(target *Config, data []byte, source string) error {
	var overlay map[string]yaml.Node
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parsing settings YAML from %s: %w", source, err)
	}

	// Empty or comment-only file: nothing to merge.
	if len(overlay) == 0 {
		return nil
	}

	for key, node := range overlay {
		if err := decodeSection(target, key, &node); err != nil {
			return fmt.Errorf("applying settings section %q from %s: %w", key, source, err)
		}
	}
	return nil
}

// decodeSection decodes node into the field of target named by key.
func decodeSection(target *Config, key string, node *yaml.Node) error {
	switch key {
	case keyLogging:
		return node.Decode(&target.Logging)
	case keyOutput:
		return node.Decode(&target.Output)
	case keyAPI:
		return node.Decode(&target.API)
	default:
		return nil
	}
}
