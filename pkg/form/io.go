package form

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// File formats for case serialization.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Load reads a case from a YAML or JSON file. Fields missing from the file
// keep their stock defaults, matching what a fresh case would carry.
func Load(path string) (Case, error) {
	if strings.HasSuffix(path, ".gz") {
		return Case{}, fmt.Errorf("unable to manage gzipped case file %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Case{}, fmt.Errorf("unable to read case file: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return Case{}, fmt.Errorf("case file %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a case from YAML or JSON bytes and validates it.
func Parse(data []byte) (Case, error) {
	c := New("")
	if jsonErr := json.Unmarshal(data, &c); jsonErr != nil {
		c = New("")
		if yamlErr := yaml.Unmarshal(data, &c); yamlErr != nil {
			return Case{}, fmt.Errorf("case is neither JSON (%v) nor YAML: %w",
				jsonErr, yamlErr)
		}
	}
	if err := c.Validate(); err != nil {
		return Case{}, err
	}
	return c, nil
}

// Save writes the case next to prefix with the extension of the chosen
// format and returns the final filename. An empty prefix falls back to the
// case name; a directory prefix keeps the case name as basename.
func (c Case) Save(prefix, format string) (string, error) {
	if format != FormatYAML && format != FormatJSON {
		return "", fmt.Errorf("available formats are %s or %s", FormatYAML, FormatJSON)
	}
	if prefix == "" {
		prefix = c.Name()
	} else if info, err := os.Stat(prefix); err == nil && info.IsDir() {
		prefix = filepath.Join(prefix, c.Name())
	}

	var (
		data []byte
		err  error
		path string
	)
	if format == FormatYAML {
		data, err = yaml.Marshal(c)
		path = prefix + ".yml"
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
		path = prefix + ".json"
	}
	if err != nil {
		return "", fmt.Errorf("unable to serialize case %s: %w", c.Name(), err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

// LoadCorrections reads one correction set from a YAML or JSON file.
func LoadCorrections(path string) (CorrectionSet, error) {
	if strings.HasSuffix(path, ".gz") {
		return nil, fmt.Errorf("unable to manage gzipped corrections file %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read corrections file: %w", err)
	}
	var cs CorrectionSet
	if jsonErr := json.Unmarshal(data, &cs); jsonErr != nil {
		if yamlErr := yaml.Unmarshal(data, &cs); yamlErr != nil {
			return nil, fmt.Errorf("corrections file %s is neither JSON (%v) nor YAML: %w",
				path, jsonErr, yamlErr)
		}
	}
	return cs, nil
}
