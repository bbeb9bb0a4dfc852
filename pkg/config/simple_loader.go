package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load decodes a YAML file into config after expanding ${VAR} and
// ${VAR:-default} references. Keys that config does not declare are an
// error, so a misspelled option cannot silently fall back to its default.
// An empty file leaves config unchanged.
func Load(filePath string, config interface{}) error {
	data, err := os.ReadFile(filePath) //nolint:gosec // G304: File path is controlled by caller
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader([]byte(substituteEnvVars(string(data)))))
	dec.KnownFields(true)
	if err := dec.Decode(config); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	return nil
}

// ReadJob reads a job file over the defaults without validating it. A job
// without a name is named after its file.
func ReadJob(filePath string) (*JobConfig, error) {
	cfg := NewJobConfig("")
	if err := Load(filePath, cfg); err != nil {
		return nil, err
	}
	if cfg.Name == "" {
		name := filepath.Base(filePath)
		for _, ext := range []string{".yaml", ".yml"} {
			name = strings.TrimSuffix(name, ext)
		}
		cfg.Name = name
	}
	return cfg, nil
}

// LoadJob reads a job file over the defaults and validates it
func LoadJob(filePath string) (*JobConfig, error) {
	cfg, err := ReadJob(filePath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid job %s: %w", filePath, err)
	}
	return cfg, nil
}

// SaveJob writes job as YAML, creating parent directories. The file loads
// back into an equal JobConfig.
func SaveJob(filePath string, job *JobConfig) error {
	data, err := yaml.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	if dir := filepath.Dir(filePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	if err := os.WriteFile(filePath, data, 0o644); err != nil { //nolint:gosec
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// substituteEnvVars expands ${VAR} and ${VAR:-default} left to right.
// Expanded values are not scanned again. An unterminated reference is kept
// as is.
func substituteEnvVars(content string) string {
	var b strings.Builder
	for {
		start := strings.Index(content, "${")
		if start == -1 {
			break
		}
		end := strings.IndexByte(content[start:], '}')
		if end == -1 {
			break
		}
		end += start

		b.WriteString(content[:start])
		name, def, hasDefault := strings.Cut(content[start+2:end], ":-")
		if value, ok := os.LookupEnv(name); ok && (value != "" || !hasDefault) {
			b.WriteString(value)
		} else {
			b.WriteString(def)
		}
		content = content[end+1:]
	}
	b.WriteString(content)
	return b.String()
}
