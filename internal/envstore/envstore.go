// Package envstore persists named broker+TLS material bundles as one JSON
// file per environment under a per-user directory, grounded verbatim on
// original_source/src/tui/env_store.rs.
package envstore

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bytedance/sonic"
)

// Environment is one named broker + TLS material bundle.
type Environment struct {
	Name          string `json:"name"`
	Host          string `json:"host"`
	PrivateKeyPem string `json:"private_key_pem,omitempty"`
	PublicKeyPem  string `json:"public_key_pem,omitempty"`
	SslCAPem      string `json:"ssl_ca_pem,omitempty"`
}

// Store is the loaded set of environments plus which one is selected.
type Store struct {
	Envs     []Environment
	Selected int // -1 when Envs is empty
}

// Dir returns $HOME/.rkl/envs, falling back to ./.rkl/envs when HOME is
// unset, matching original_source's config_dir.
func Dir() string {
	home, ok := os.LookupEnv("HOME")
	if !ok || home == "" {
		return filepath.Join(".rkl", "envs")
	}
	return filepath.Join(home, ".rkl", "envs")
}

// Load reads every *.json file in Dir(), ignoring files that fail to parse,
// and returns them sorted case-insensitively by name.
func Load() Store {
	dir := Dir()
	var envs []Environment

	entries, err := os.ReadDir(dir)
	if err == nil {
		for _, ent := range entries {
			if ent.IsDir() || filepath.Ext(ent.Name()) != ".json" {
				continue
			}
			data, err := os.ReadFile(filepath.Join(dir, ent.Name()))
			if err != nil {
				continue
			}
			var e Environment
			if err := sonic.Unmarshal(data, &e); err != nil {
				continue
			}
			envs = append(envs, e)
		}
	}

	sort.Slice(envs, func(i, j int) bool {
		return strings.ToLower(envs[i].Name) < strings.ToLower(envs[j].Name)
	})

	selected := -1
	if len(envs) > 0 {
		selected = 0
	}

	return Store{Envs: envs, Selected: selected}
}

// Save writes one pretty-printed JSON file per environment and removes any
// stray *.json files in Dir() that aren't among them.
func (s Store) Save() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create environment directory: %w", err)
	}

	desired := make(map[string]bool, len(s.Envs))
	for _, e := range s.Envs {
		fname := sanitize(e.Name) + ".json"
		desired[fname] = true

		data, err := sonic.MarshalIndent(e, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to serialize environment %q: %w", e.Name, err)
		}
		if err := os.WriteFile(filepath.Join(dir, fname), data, 0o644); err != nil {
			return fmt.Errorf("failed to write environment %q: %w", e.Name, err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	for _, ent := range entries {
		if ent.IsDir() || !strings.HasSuffix(ent.Name(), ".json") {
			continue
		}
		if !desired[ent.Name()] {
			_ = os.Remove(filepath.Join(dir, ent.Name()))
		}
	}

	return nil
}

func sanitize(name string) string {
	var b strings.Builder
	for _, r := range name {
		if isSafe(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

func isSafe(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') ||
		r == '-' || r == '_' || r == '.'
}
