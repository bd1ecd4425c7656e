package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Keymap names the chord bound to each editor action. Chords are written
// as "ctrl+t" or "esc"; the terminal layer compiles them against incoming
// key events.
type Keymap struct {
	Quit           string `yaml:"quit"`
	Save           string `yaml:"save"`
	Search         string `yaml:"search"`
	SearchNext     string `yaml:"search-next"`
	SearchPrevious string `yaml:"search-previous"`
	Dismiss        string `yaml:"dismiss"`
}

// DefaultKeymap returns the built-in bindings.
func DefaultKeymap() Keymap {
	return Keymap{
		Quit:           "ctrl+t",
		Save:           "ctrl+s",
		Search:         "ctrl+f",
		SearchNext:     "ctrl+n",
		SearchPrevious: "ctrl+p",
		Dismiss:        "esc",
	}
}

// LoadKeymap reads chord overrides from a keymap.yaml file. Missing file
// keeps the defaults; fields the file omits keep their default chords.
func LoadKeymap(path string) (Keymap, error) {
	km := DefaultKeymap()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return km, nil
		}
		return DefaultKeymap(), fmt.Errorf("reading keymap file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &km); err != nil {
		return DefaultKeymap(), fmt.Errorf("parsing keymap file %s: %w", path, err)
	}
	km.normalize()
	return km, nil
}

// DefaultKeymapPath returns the per-user location of keymap.yaml.
func DefaultKeymapPath() (string, error) {
	path, err := DefaultPath()
	if err != nil {
		return "", err
	}
	return filepath.Join(filepath.Dir(path), "keymap.yaml"), nil
}

// normalize lowercases chords and restores defaults for cleared fields so
// every action always has a binding.
func (k *Keymap) normalize() {
	def := DefaultKeymap()
	fix := func(chord *string, fallback string) {
		*chord = strings.ToLower(strings.TrimSpace(*chord))
		if *chord == "" {
			*chord = fallback
		}
	}
	fix(&k.Quit, def.Quit)
	fix(&k.Save, def.Save)
	fix(&k.Search, def.Search)
	fix(&k.SearchNext, def.SearchNext)
	fix(&k.SearchPrevious, def.SearchPrevious)
	fix(&k.Dismiss, def.Dismiss)
}
