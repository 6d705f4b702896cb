package loader

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Policy is the declarative IAM policy document loaded at startup.
type Policy struct {
	Permissions []PolicyPermission    `yaml:"permissions"`
	Roles       map[string]PolicyRole `yaml:"roles"`
}

type PolicyPermission struct {
	Code     string `yaml:"code"`
	Resource string `yaml:"resource"`
	Action   string `yaml:"action"`
}

// PolicyRole declares a role's scope type and permission codes. Codes may use
// a trailing ".*" wildcard, expanded against the resource column at load time.
type PolicyRole struct {
	Scope       string   `yaml:"scope"`
	Permissions []string `yaml:"permissions"`
}

// ParseFile reads and parses a policy file.
func ParseFile(path string) (Policy, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("read policy file: %w", err)
	}

	var policy Policy
	if err := yaml.Unmarshal(raw, &policy); err != nil {
		return Policy{}, fmt.Errorf("parse policy file: %w", err)
	}
	return policy, nil
}
