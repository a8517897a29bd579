// Package settings reads and writes machine settings files.
//
// A settings file is the YAML form of enigma.Config:
//
//	rotors:
//	  - {rotor: I, ring: A, start: A}
//	  - {rotor: II, ring: A, start: A}
//	  - {rotor: III, ring: A, start: A}
//	reflector: B
//	plugboard: AB CD
//
// Files are validated strictly. Problems an operator would want to fix are
// reported together rather than silently repaired.
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vilshansen/enigmaforge-go/constants"
	"github.com/vilshansen/enigmaforge-go/enigma"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// Rotor is one rotor slot. Rotor is a catalog name ("II") or index ("1").
type Rotor struct {
	Rotor string `yaml:"rotor"`
	Ring  string `yaml:"ring"`
	Start string `yaml:"start"`
}

// Settings is a machine configuration as stored on disk.
type Settings struct {
	Rotors    []Rotor `yaml:"rotors"`
	Reflector string  `yaml:"reflector"`
	Plugboard string  `yaml:"plugboard,omitempty"`
}

// DefaultPath returns the settings file location. It respects
// XDG_CONFIG_HOME, falling back to ~/.config/enigmaforge/settings.yaml.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(".config", constants.SettingsDirectory, constants.SettingsFileName)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, constants.SettingsDirectory, constants.SettingsFileName)
}

// Parse decodes and validates a settings document.
func Parse(data []byte) (*Settings, error) {
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load reads and validates the settings file at path.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// LoadDefault loads DefaultPath. A missing file yields (nil, nil).
func LoadDefault() (*Settings, error) {
	s, err := Load(DefaultPath())
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return s, err
}

// Save writes the settings to path, creating directories as needed. Key
// sheets are secret, so the file is only readable by its owner.
func (s *Settings) Save(path string) error {
	data, err := s.Marshal()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

// Marshal encodes the settings as YAML.
func (s *Settings) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal settings: %w", err)
	}
	return data, nil
}

// Validate reports every problem in s, combined with multierr.
func (s *Settings) Validate() error {
	var err error
	if len(s.Rotors) != enigma.NumSlots {
		err = multierr.Append(err, fmt.Errorf("want %d rotors, got %d", enigma.NumSlots, len(s.Rotors)))
	}
	for i, r := range s.Rotors {
		if _, ok := enigma.RotorIndex(r.Rotor); !ok {
			err = multierr.Append(err, fmt.Errorf("rotor %d: unknown rotor %q", i, r.Rotor))
		}
		if !isLetter(r.Ring) {
			err = multierr.Append(err, fmt.Errorf("rotor %d: ring %q must be a single letter", i, r.Ring))
		}
		if !isLetter(r.Start) {
			err = multierr.Append(err, fmt.Errorf("rotor %d: start %q must be a single letter", i, r.Start))
		}
	}
	if s.Reflector != "" && !isLetter(s.Reflector) {
		err = multierr.Append(err, fmt.Errorf("reflector %q must be a single letter", s.Reflector))
	} else if s.Reflector != "" {
		if _, ok := enigma.Reflectors[upperByte(s.Reflector[0])]; !ok {
			err = multierr.Append(err, fmt.Errorf("unknown reflector %q", s.Reflector))
		}
	}
	err = multierr.Append(err, enigma.ValidatePlugboard(s.Plugboard))
	if err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}

// Config converts validated settings into a machine configuration. An
// empty reflector means enigma.DefaultReflector.
func (s *Settings) Config() (enigma.Config, error) {
	var cfg enigma.Config
	if err := s.Validate(); err != nil {
		return cfg, err
	}
	for i, r := range s.Rotors {
		idx, _ := enigma.RotorIndex(r.Rotor)
		cfg.Rotors[i] = enigma.RotorSetting{
			Rotor: idx,
			Ring:  upperByte(r.Ring[0]),
			Start: upperByte(r.Start[0]),
		}
	}
	cfg.Reflector = enigma.DefaultReflector
	if s.Reflector != "" {
		cfg.Reflector = upperByte(s.Reflector[0])
	}
	pb, _ := enigma.ParsePlugboard(s.Plugboard)
	cfg.Plugboard = pb.String()
	return cfg, nil
}

// FromConfig is the inverse of Config.
func FromConfig(cfg enigma.Config) *Settings {
	s := &Settings{
		Rotors:    make([]Rotor, 0, enigma.NumSlots),
		Reflector: string(upperByte(cfg.Reflector)),
	}
	for _, r := range cfg.Rotors {
		s.Rotors = append(s.Rotors, Rotor{
			Rotor: enigma.RotorName(r.Rotor),
			Ring:  string(upperByte(r.Ring)),
			Start: string(upperByte(r.Start)),
		})
	}
	pb, _ := enigma.ParsePlugboard(cfg.Plugboard)
	s.Plugboard = pb.String()
	return s
}

func isLetter(s string) bool {
	if len(s) != 1 {
		return false
	}
	c := upperByte(s[0])
	return c >= 'A' && c <= 'Z'
}

func upperByte(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}
