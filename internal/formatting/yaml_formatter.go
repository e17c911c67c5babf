package formatting

import (
	"fmt"

	"sigs.k8s.io/yaml"
)

// PrettyYAML renders v as YAML by way of its JSON encoding, so json tags and
// custom marshallers (ordered rows, nodes) apply.
func PrettyYAML(v interface{}) (string, error) {
	out, err := yaml.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode YAML: %w", err)
	}
	return string(out), nil
}
