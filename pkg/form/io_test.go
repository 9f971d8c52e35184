package form

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSaveAndLoadYAML(t *testing.T) {
	dir := t.TempDir()
	c, err := New("roundtrip").AddArchitecture("2H.4E.2H")
	if err != nil {
		t.Fatal(err)
	}

	path, err := c.Save(filepath.Join(dir, c.Name()), FormatYAML)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(path, "roundtrip.yml") {
		t.Errorf("unexpected filename %s", path)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Name() != "roundtrip" {
		t.Errorf("loaded name = %s", loaded.Name())
	}
	if got := loaded.ArchitectureString(); got != "2H.4E.2H" {
		t.Errorf("loaded architecture = %s", got)
	}
	if !loaded.Configuration.Relative {
		t.Error("loaded case should stay relative")
	}
}

func TestSaveAndLoadJSON(t *testing.T) {
	dir := t.TempDir()
	c, err := New("jsoncase").AddArchitecture("3E")
	if err != nil {
		t.Fatal(err)
	}
	path, err := c.Save(filepath.Join(dir, c.Name()), FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := loaded.ArchitectureString(); got != "3E" {
		t.Errorf("loaded architecture = %s", got)
	}
}

func TestSaveDirectoryPrefix(t *testing.T) {
	dir := t.TempDir()
	c := New("intodir")
	path, err := c.Save(dir, FormatYAML)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Dir(path) != dir || filepath.Base(path) != "intodir.yml" {
		t.Errorf("unexpected path %s", path)
	}
}

func TestLoadDefaultsPreserved(t *testing.T) {
	// A sparse file keeps the stock distances and relative flag.
	dir := t.TempDir()
	path := filepath.Join(dir, "sparse.yml")
	data := "configuration:\n  name: sparse\ntopology:\n  architecture:\n  - - id: A1H\n      type: H\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Configuration.Defaults.Distance.BBPair != DefaultBetaPairDistance {
		t.Errorf("defaults not preserved: %+v", c.Configuration.Defaults.Distance)
	}
	if !c.Configuration.Relative {
		t.Error("missing relative flag should default to true")
	}
}

func TestLoadRejectsGzip(t *testing.T) {
	if _, err := Load("case.yml.gz"); err == nil {
		t.Fatal("expected error for gzipped file")
	}
}

func TestSaveRejectsUnknownFormat(t *testing.T) {
	if _, err := New("x").Save("", "toml"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}
