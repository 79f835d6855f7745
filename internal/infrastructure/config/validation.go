package config

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/goccy/go-yaml"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/agentos-dev/agentos/internal/domain/entities"
	"github.com/agentos-dev/agentos/internal/infrastructure/build"
)

// profileConfigSchema is the structural contract for profile-config.yml.
// Unknown keys are tolerated so older engines keep loading newer
// profiles; only the fields the engine reads are constrained.
const profileConfigSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "profile-config",
  "type": "object",
  "properties": {
    "name": {"type": "string"},
    "description": {"type": "string"},
    "version": {"type": "string"},
    "min_engine_version": {"type": "string"},
    "inherits_from": {"type": ["string", "boolean"]},
    "exclude_inherited_files": {
      "type": "array",
      "items": {"type": "string", "minLength": 1}
    }
  },
  "additionalProperties": true
}`

// ConfigValidator checks profile configs against the embedded JSON
// schema and gates on min_engine_version.
type ConfigValidator struct {
	schema        *jsonschema.Schema
	engineVersion *semver.Version
}

// NewConfigValidator compiles the embedded schema and parses the running
// build's version.
func NewConfigValidator() (*ConfigValidator, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("profile-config.schema.json", strings.NewReader(profileConfigSchema)); err != nil {
		return nil, fmt.Errorf("loading profile config schema: %w", err)
	}
	schema, err := compiler.Compile("profile-config.schema.json")
	if err != nil {
		return nil, fmt.Errorf("compiling profile config schema: %w", err)
	}

	engineVersion, err := semver.NewVersion(build.Version)
	if err != nil {
		return nil, fmt.Errorf("parsing engine version %q: %w", build.Version, err)
	}

	return &ConfigValidator{schema: schema, engineVersion: engineVersion}, nil
}

// ValidateConfig parses the raw YAML generically and validates it
// against the schema.
func (v *ConfigValidator) ValidateConfig(profileID string, raw []byte) error {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("profile %s: parsing %s: %w", profileID, configFileName, err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	if err := v.schema.Validate(doc); err != nil {
		return fmt.Errorf("profile %s: %s is not valid: %w", profileID, configFileName, err)
	}
	return nil
}

// CheckEngineVersion enforces an optional min_engine_version constraint
// (any range expression semver understands, e.g. ">= 0.3.0").
func (v *ConfigValidator) CheckEngineVersion(profileID, constraint string) error {
	if constraint == "" {
		return nil
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return entities.NewConfigError(entities.ErrIncompatibleEngine, profileID, "",
			fmt.Sprintf("min_engine_version %q is not a valid constraint", constraint))
	}
	if !c.Check(v.engineVersion) {
		return entities.NewConfigError(entities.ErrIncompatibleEngine, profileID, "",
			fmt.Sprintf("requires engine %s, running %s", constraint, v.engineVersion))
	}
	return nil
}
