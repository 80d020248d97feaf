package source

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"gatehouse/internal/config/schema"
	coreerrors "gatehouse/internal/core/errors"
)

// YAMLSource merges YAML files in order; missing files are skipped.
type YAMLSource struct {
	paths []string
}

func NewYAMLSource(paths ...string) *YAMLSource {
	return &YAMLSource{paths: paths}
}

func (s *YAMLSource) Name() string  { return "yaml" }
func (s *YAMLSource) Priority() int { return PriorityYAML }

func (s *YAMLSource) LoadInto(cfg *schema.Root) error {
	for _, path := range s.paths {
		if path == "" {
			continue
		}
		expanded, err := expandPath(path)
		if err != nil {
			return coreerrors.Wrapf(err, coreerrors.CodeConfigError, "expand path %q", path)
		}
		data, err := os.ReadFile(expanded)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return coreerrors.Wrapf(err, coreerrors.CodeConfigError, "read config file %q", expanded)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return coreerrors.Wrapf(err, coreerrors.CodeConfigError, "parse YAML file %q", expanded)
		}
	}
	return nil
}

// FindConfigFile returns explicit if set, otherwise the first existing
// file among the standard locations, or "".
func FindConfigFile(explicit string) string {
	if explicit != "" {
		if p, err := expandPath(explicit); err == nil {
			return p
		}
		return explicit
	}

	candidates := []string{"./gatehouse.yaml", "./config.yaml"}
	if exe, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(exe), "gatehouse.yaml"))
	}
	candidates = append(candidates, "/etc/gatehouse/gatehouse.yaml")

	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}

func expandPath(path string) (string, error) {
	if path != "" && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, path[1:])
	}
	return filepath.Clean(path), nil
}
