package pipeline

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/luskyqi1995/topobuilder/pkg/form"
)

// LoadProtocols resolves the protocol list for a run. Exactly one source
// must provide it: the case configuration or a protocol file. An empty file
// argument means no file was given.
func LoadProtocols(c form.Case, file string) ([]form.Protocol, error) {
	fromCase := c.Configuration.Protocols
	if len(fromCase) == 1 && fromCase[0].Name == "" {
		fromCase = nil
	}

	switch {
	case len(fromCase) == 0 && file == "":
		return nil, ErrNoProtocols
	case len(fromCase) > 0 && file != "":
		return nil, ErrProtocolSource
	case file != "":
		return readProtocolFile(file)
	default:
		return fromCase, nil
	}
}

// readProtocolFile parses a protocol list from a JSON or YAML file. Each
// entry is a map carrying at least "name"; everything else becomes node
// options.
func readProtocolFile(file string) ([]form.Protocol, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read protocol file: %w", err)
	}

	var raw []map[string]any
	if jerr := json.Unmarshal(data, &raw); jerr != nil {
		if yerr := yaml.Unmarshal(data, &raw); yerr != nil {
			return nil, fmt.Errorf("parse protocol file %s: %w", file, yerr)
		}
	}

	out := make([]form.Protocol, 0, len(raw))
	for i, entry := range raw {
		name, _ := entry["name"].(string)
		if name == "" {
			return nil, fmt.Errorf("protocol entry %d: missing name field", i)
		}
		status, _ := entry["status"].(bool)
		opts := make(map[string]any, len(entry))
		for k, v := range entry {
			if k == "name" || k == "status" {
				continue
			}
			opts[k] = v
		}
		out = append(out, form.Protocol{Name: name, Options: opts, Status: status})
	}
	return out, nil
}

// Validate builds every pending protocol's node, failing before any
// execution when a plugin is unknown or its options are invalid. Data-shape
// checks run later, against the cases each node actually receives.
func Validate(reg *Registry, protocols []form.Protocol) error {
	for _, p := range protocols {
		if p.Status {
			continue
		}
		if _, err := reg.Build(p); err != nil {
			return err
		}
	}
	return nil
}
