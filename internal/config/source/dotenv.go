package source

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"gatehouse/internal/config/schema"
	corelog "gatehouse/internal/core/log"
)

// DotEnvSource copies .env files into the process environment so the
// EnvSource that runs after it picks them up. Variables already set in
// the environment win.
type DotEnvSource struct {
	dirs   []string
	appEnv string
}

func NewDotEnvSource(dirs []string, appEnv string) *DotEnvSource {
	return &DotEnvSource{dirs: dirs, appEnv: appEnv}
}

func (s *DotEnvSource) Name() string  { return "dotenv" }
func (s *DotEnvSource) Priority() int { return PriorityDotEnv }

func (s *DotEnvSource) LoadInto(_ *schema.Root) error {
	files := []string{".env", ".env.local"}
	if s.appEnv != "" {
		files = append(files, ".env."+s.appEnv, ".env."+s.appEnv+".local")
	}
	for _, dir := range s.dirs {
		for _, f := range files {
			path := filepath.Join(dir, f)
			if err := loadEnvFile(path); err != nil {
				corelog.Debugf("skip env file %s: %v", path, err)
			}
		}
	}
	return nil
}

func loadEnvFile(path string) error {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		key, value, ok := parseEnvLine(sc.Text())
		if !ok {
			continue
		}
		if _, set := os.LookupEnv(key); set {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			corelog.Warnf("set %s from %s: %v", key, path, err)
		}
	}
	return sc.Err()
}

func parseEnvLine(line string) (key, value string, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", false
	}
	line = strings.TrimPrefix(line, "export ")
	key, value, ok = strings.Cut(line, "=")
	if !ok {
		return "", "", false
	}
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)
	if len(value) >= 2 && (value[0] == '"' || value[0] == '\'') && value[len(value)-1] == value[0] {
		value = value[1 : len(value)-1]
	}
	return key, value, key != ""
}

// FindDotEnvDirs lists the directories searched for .env files.
func FindDotEnvDirs(configFile string) []string {
	var dirs []string
	if configFile != "" {
		if dir := filepath.Dir(configFile); dir != "." {
			dirs = append(dirs, dir)
		}
	}
	if cwd, err := os.Getwd(); err == nil {
		dirs = append(dirs, cwd)
	}
	return dirs
}
