// Package config loads layered TopoBuilder settings. A .topobuilder.toml is
// looked up in the working directory first, then in the enclosing repository
// root, then in the user's home directory. The first file found wins; missing
// files fall back to defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/luskyqi1995/topobuilder/pkg/pipeline/plugins"
	"github.com/luskyqi1995/topobuilder/pkg/rosetta"
	"github.com/luskyqi1995/topobuilder/pkg/slurm"
)

// FileName is the settings file looked up during discovery.
const FileName = ".topobuilder.toml"

// System holds global behaviour switches.
type System struct {
	Verbose   bool   `toml:"verbose"`
	Debug     bool   `toml:"debug"`
	Overwrite bool   `toml:"overwrite"`
	Forced    bool   `toml:"forced"`
	Image     string `toml:"image"`
}

// Cache selects the checkpoint store backend. Addr, password and db apply
// to redis; uri, database and collection to mongo.
type Cache struct {
	Backend    string `toml:"backend"` // file, null, redis or mongo
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// Config is the full settings tree.
type Config struct {
	System  System               `toml:"system"`
	Slurm   slurm.Config         `toml:"slurm"`
	Rosetta rosetta.Config       `toml:"rosetta"`
	Master  plugins.MasterConfig `toml:"master"`
	Cache   Cache                `toml:"cache"`
}

// Default returns the settings used when no file is found.
func Default() Config {
	return Config{
		System: System{Image: "svg"},
		Slurm:  slurm.DefaultConfig(),
		Cache:  Cache{Backend: "file"},
	}
}

// LoadFile reads one settings file over the defaults.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Discover returns the first settings file visible from dir, checking dir
// itself, the repository root above it, and the home directory.
func Discover(dir string) (string, bool) {
	if path := filepath.Join(dir, FileName); exists(path) {
		return path, true
	}
	if root, ok := repoRoot(dir); ok {
		if path := filepath.Join(root, FileName); exists(path) {
			return path, true
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		if path := filepath.Join(home, FileName); exists(path) {
			return path, true
		}
	}
	return "", false
}

// Load discovers and reads settings for dir. When no file exists it returns
// the defaults and an empty path.
func Load(dir string) (Config, string, error) {
	path, ok := Discover(dir)
	if !ok {
		return Default(), "", nil
	}
	cfg, err := LoadFile(path)
	return cfg, path, err
}

// repoRoot walks up from dir to the nearest directory holding a .git or
// go.mod entry.
func repoRoot(dir string) (string, bool) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}
	for {
		if exists(filepath.Join(dir, ".git")) || exists(filepath.Join(dir, "go.mod")) {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
