// Package rules loads sport policies from external YAML rule files.
// Files are validated against an embedded CUE schema before decoding,
// so a malformed rule file fails with a schema error rather than a
// half-populated policy.
package rules

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/encoding/yaml"

	"github.com/courtlog/courtlog/internal/match"
)

//go:embed schema.cue
var schemaSource string

// Load reads a YAML rule file and returns the policy it defines.
func Load(path string) (match.Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return match.Policy{}, fmt.Errorf("read rule file: %w", err)
	}
	policy, err := Parse(path, data)
	if err != nil {
		return match.Policy{}, fmt.Errorf("rule file %s: %w", path, err)
	}
	return policy, nil
}

// Parse validates YAML rule-file contents against the schema and decodes
// the policy. The filename is used in error positions only.
func Parse(filename string, data []byte) (match.Policy, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return match.Policy{}, fmt.Errorf("compile schema: %w", err)
	}

	file, err := yaml.Extract(filename, data)
	if err != nil {
		return match.Policy{}, fmt.Errorf("parse yaml: %w", err)
	}
	doc := ctx.BuildFile(file)
	if err := doc.Err(); err != nil {
		return match.Policy{}, fmt.Errorf("build rule file: %w", err)
	}

	unified := schema.Unify(doc)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return match.Policy{}, fmt.Errorf("validate against schema: %w", err)
	}

	var policy match.Policy
	if err := unified.LookupPath(cue.ParsePath("policy")).Decode(&policy); err != nil {
		return match.Policy{}, fmt.Errorf("decode policy: %w", err)
	}
	if err := policy.Validate(); err != nil {
		return match.Policy{}, err
	}
	return policy, nil
}

// Resolve returns the policy for a sport name, preferring built-ins and
// falling back to a rule file when rulePath is non-empty. A rule file
// whose sport disagrees with the requested name is rejected.
func Resolve(sport string, rulePath string) (match.Policy, error) {
	if rulePath != "" {
		policy, err := Load(rulePath)
		if err != nil {
			return match.Policy{}, err
		}
		if sport != "" && policy.Sport != match.Sport(sport) {
			return match.Policy{}, fmt.Errorf("rule file defines sport %q, not %q", policy.Sport, sport)
		}
		return policy, nil
	}
	policy, ok := match.PolicyFor(match.Sport(sport))
	if !ok {
		return match.Policy{}, fmt.Errorf("unknown sport %q (known: %v)", sport, match.Sports())
	}
	return policy, nil
}
