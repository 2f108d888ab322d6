package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const noRemapTomlMessage = "no remap.toml found\nplease name the script explicitly, e.g.:\n  remap run transform.rmp"

type projectManifest struct {
	Path   string
	Root   string
	Config projectConfig
}

type projectConfig struct {
	Program  programConfig  `toml:"program"`
	Pipeline pipelineConfig `toml:"pipeline"`
}

type programConfig struct {
	Script string `toml:"script"`
}

type pipelineConfig struct {
	Format  string `toml:"format"`
	Batch   int    `toml:"batch"`
	Jobs    int    `toml:"jobs"`
	Rejects string `toml:"rejects"`
}

// ScriptPath resolves [program].script relative to the manifest.
func (m *projectManifest) ScriptPath() string {
	return filepath.Join(m.Root, filepath.FromSlash(m.Config.Program.Script))
}

func findRemapToml(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "remap.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

func loadProjectManifest(startDir string) (*projectManifest, bool, error) {
	manifestPath, ok, err := findRemapToml(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := loadProjectConfig(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return &projectManifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

func loadProjectConfig(path string) (projectConfig, error) {
	var cfg projectConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return projectConfig{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("program") {
		return projectConfig{}, fmt.Errorf("%s: missing [program]", path)
	}
	if !meta.IsDefined("program", "script") || strings.TrimSpace(cfg.Program.Script) == "" {
		return projectConfig{}, fmt.Errorf("%s: missing [program].script", path)
	}
	return cfg, nil
}
