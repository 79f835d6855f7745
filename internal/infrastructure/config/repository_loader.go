// Package config provides infrastructure for loading profile
// repositories from disk: YAML parsing, schema validation, and the
// namespace file trees.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"

	"github.com/goccy/go-yaml"

	"github.com/agentos-dev/agentos/internal/domain/entities"
)

const (
	profilesDir    = "profiles"
	configFileName = "profile-config.yml"
)

// profileConfig mirrors profiles/<id>/profile-config.yml.
type profileConfig struct {
	Name                  string    `yaml:"name"`
	Description           string    `yaml:"description"`
	Version               string    `yaml:"version"`
	MinEngineVersion      string    `yaml:"min_engine_version"`
	InheritsFrom          parentRef `yaml:"inherits_from"`
	ExcludeInheritedFiles []string  `yaml:"exclude_inherited_files"`
}

// parentRef accepts a parent profile id or the literal false (no parent).
type parentRef string

// UnmarshalYAML implements yaml.BytesUnmarshaler.
func (p *parentRef) UnmarshalYAML(data []byte) error {
	var value any
	if err := yaml.Unmarshal(data, &value); err != nil {
		return err
	}
	switch v := value.(type) {
	case nil:
		*p = ""
	case bool:
		if v {
			return fmt.Errorf("inherits_from: true is not a profile id")
		}
		*p = ""
	case string:
		*p = parentRef(v)
	default:
		return fmt.Errorf("inherits_from must be a profile id or false, got %T", value)
	}
	return nil
}

// RepositoryLoader builds an in-memory ProfileRepository from a
// filesystem laid out as profiles/<id>/{profile-config.yml,<namespaces>}.
// It takes an fs.FS so tests run against fstest.MapFS.
type RepositoryLoader struct {
	validator *ConfigValidator
	logger    *slog.Logger
}

// NewRepositoryLoader creates a loader. A nil logger falls back to the
// default.
func NewRepositoryLoader(validator *ConfigValidator, logger *slog.Logger) *RepositoryLoader {
	if logger == nil {
		logger = slog.Default()
	}
	return &RepositoryLoader{validator: validator, logger: logger}
}

// Load reads every profile directory under profiles/ and assembles the
// repository. Profile ids are the directory names, visited in sorted
// order.
func (l *RepositoryLoader) Load(fsys fs.FS) (*entities.ProfileRepository, error) {
	dirEntries, err := fs.ReadDir(fsys, profilesDir)
	if err != nil {
		return nil, fmt.Errorf("reading %s directory: %w", profilesDir, err)
	}

	ids := make([]string, 0, len(dirEntries))
	for _, entry := range dirEntries {
		if entry.IsDir() {
			ids = append(ids, entry.Name())
		}
	}
	sort.Strings(ids)

	profiles := make([]*entities.Profile, 0, len(ids))
	for _, id := range ids {
		profile, err := l.loadProfile(fsys, id)
		if err != nil {
			return nil, err
		}
		l.logger.Debug("loaded profile", "id", id, "parent", profile.Parent, "files", len(profile.Files))
		profiles = append(profiles, profile)
	}

	return entities.NewProfileRepository(profiles...)
}

func (l *RepositoryLoader) loadProfile(fsys fs.FS, id string) (*entities.Profile, error) {
	configPath := path.Join(profilesDir, id, configFileName)
	raw, err := fs.ReadFile(fsys, configPath)
	if err != nil {
		return nil, fmt.Errorf("profile %s: reading %s: %w", id, configFileName, err)
	}

	if l.validator != nil {
		if err := l.validator.ValidateConfig(id, raw); err != nil {
			return nil, err
		}
	}

	var cfg profileConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("profile %s: decoding %s: %w", id, configFileName, err)
	}

	if l.validator != nil {
		if err := l.validator.CheckEngineVersion(id, cfg.MinEngineVersion); err != nil {
			return nil, err
		}
	}

	files, err := l.loadFiles(fsys, id)
	if err != nil {
		return nil, err
	}

	return &entities.Profile{
		ID: id,
		Metadata: entities.ProfileMetadata{
			Name:        cfg.Name,
			Description: cfg.Description,
			Version:     cfg.Version,
		},
		Parent:            string(cfg.InheritsFrom),
		ExcludedInherited: cfg.ExcludeInheritedFiles,
		Files:             files,
	}, nil
}

// loadFiles walks the four namespace subtrees. A namespace directory a
// profile does not carry is simply skipped.
func (l *RepositoryLoader) loadFiles(fsys fs.FS, id string) (map[string][]byte, error) {
	files := make(map[string][]byte)
	root := path.Join(profilesDir, id)

	for _, namespace := range entities.Namespaces {
		nsRoot := path.Join(root, namespace)
		err := fs.WalkDir(fsys, nsRoot, func(filePath string, entry fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if entry.IsDir() {
				return nil
			}
			content, readErr := fs.ReadFile(fsys, filePath)
			if readErr != nil {
				return readErr
			}
			relPath := filePath[len(root)+1:]
			files[relPath] = content
			return nil
		})
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("profile %s: walking %s: %w", id, namespace, err)
		}
	}

	return files, nil
}
