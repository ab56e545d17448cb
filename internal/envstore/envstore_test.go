package envstore

import (
	"os"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"
)

func withHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	return dir
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	c := qt.New(t)
	withHome(t)

	s := Store{Envs: []Environment{
		{Name: "prod", Host: "prod:9092", SslCAPem: "ca-pem"},
		{Name: "local", Host: "localhost:9092"},
	}}
	c.Assert(s.Save(), qt.IsNil)

	loaded := Load()
	c.Assert(loaded.Envs, qt.HasLen, 2)
	// Sorted case-insensitively by name: "local" before "prod".
	c.Assert(loaded.Envs[0].Name, qt.Equals, "local")
	c.Assert(loaded.Envs[1].Name, qt.Equals, "prod")
	c.Assert(loaded.Envs[1].SslCAPem, qt.Equals, "ca-pem")
	c.Assert(loaded.Selected, qt.Equals, 0)
}

func TestSaveRemovesStaleFiles(t *testing.T) {
	c := qt.New(t)
	withHome(t)

	first := Store{Envs: []Environment{{Name: "a"}, {Name: "b"}}}
	c.Assert(first.Save(), qt.IsNil)

	second := Store{Envs: []Environment{{Name: "a"}}}
	c.Assert(second.Save(), qt.IsNil)

	entries, err := os.ReadDir(Dir())
	c.Assert(err, qt.IsNil)
	c.Assert(entries, qt.HasLen, 1)
	c.Assert(entries[0].Name(), qt.Equals, "a.json")
}

func TestSanitizeNameUsedAsFilename(t *testing.T) {
	c := qt.New(t)
	withHome(t)

	s := Store{Envs: []Environment{{Name: "my env/weird*name"}}}
	c.Assert(s.Save(), qt.IsNil)

	_, err := os.Stat(filepath.Join(Dir(), "my_env_weird_name.json"))
	c.Assert(err, qt.IsNil)
}

func TestLoadEmptyDirectory(t *testing.T) {
	c := qt.New(t)
	withHome(t)

	loaded := Load()
	c.Assert(loaded.Envs, qt.HasLen, 0)
	c.Assert(loaded.Selected, qt.Equals, -1)
}
