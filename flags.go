package main

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vilshansen/enigmaforge-go/enigma"
	"github.com/vilshansen/enigmaforge-go/settings"
)

const (
	defaultRotors = "I,II,III"
	defaultRings  = "AAA"
	defaultStart  = "AAA"
)

// machineFlags selects the machine settings for a command.
type machineFlags struct {
	SettingsPath string
	Rotors       string
	Rings        string
	Start        string
	Reflector    string
	Plugboard    string
}

var machineFlagNames = []string{"rotors", "rings", "start", "reflector", "plugboard"}

func (f *machineFlags) Bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.SettingsPath, "settings", "", "Settings file (YAML)")
	cmd.Flags().StringVar(&f.Rotors, "rotors", defaultRotors, "Rotors left to right, by name or index")
	cmd.Flags().StringVar(&f.Rings, "rings", defaultRings, "Ring settings left to right")
	cmd.Flags().StringVar(&f.Start, "start", defaultStart, "Start positions left to right")
	cmd.Flags().StringVar(&f.Reflector, "reflector", "B", "Reflector")
	cmd.Flags().StringVar(&f.Plugboard, "plugboard", "", `Plugboard pairs, e.g. "AB CD"`)
}

func (f *machineFlags) machineFlagsChanged(cmd *cobra.Command) bool {
	for _, name := range machineFlagNames {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

// Resolve returns the machine settings and whether any were given. The
// order is --settings, then the machine flags, then the default settings
// file.
func (f *machineFlags) Resolve(cmd *cobra.Command) (enigma.Config, bool, error) {
	flagsSet := f.machineFlagsChanged(cmd)
	switch {
	case f.SettingsPath != "" && flagsSet:
		return enigma.Config{}, false, fmt.Errorf("--settings cannot be combined with --%s", strings.Join(machineFlagNames, "/--"))
	case f.SettingsPath != "":
		s, err := settings.Load(f.SettingsPath)
		if err != nil {
			return enigma.Config{}, false, err
		}
		slog.Debug("using settings file", "path", f.SettingsPath)
		cfg, err := s.Config()
		return cfg, true, err
	case flagsSet:
		cfg, err := f.flagConfig()
		return cfg, true, err
	}

	s, err := settings.LoadDefault()
	if err != nil {
		return enigma.Config{}, false, err
	}
	if s == nil {
		return enigma.Config{}, false, nil
	}
	slog.Debug("using default settings file", "path", settings.DefaultPath())
	cfg, err := s.Config()
	return cfg, true, err
}

// ResolveOrDefault is Resolve falling back to the machine flag defaults.
func (f *machineFlags) ResolveOrDefault(cmd *cobra.Command) (enigma.Config, error) {
	cfg, ok, err := f.Resolve(cmd)
	if err != nil || ok {
		return cfg, err
	}
	return f.flagConfig()
}

func (f *machineFlags) flagConfig() (enigma.Config, error) {
	var cfg enigma.Config

	names := strings.Split(f.Rotors, ",")
	if len(names) != enigma.NumSlots {
		return cfg, fmt.Errorf("%w: --rotors wants %d comma-separated rotors, got %q", enigma.ErrInvalidConfiguration, enigma.NumSlots, f.Rotors)
	}
	if len(f.Rings) != enigma.NumSlots {
		return cfg, fmt.Errorf("%w: --rings wants %d letters, got %q", enigma.ErrInvalidConfiguration, enigma.NumSlots, f.Rings)
	}
	if len(f.Start) != enigma.NumSlots {
		return cfg, fmt.Errorf("%w: --start wants %d letters, got %q", enigma.ErrInvalidConfiguration, enigma.NumSlots, f.Start)
	}
	if len(f.Reflector) > 1 {
		return cfg, fmt.Errorf("%w: --reflector wants one letter, got %q", enigma.ErrInvalidConfiguration, f.Reflector)
	}

	for i, name := range names {
		idx, ok := enigma.RotorIndex(name)
		if !ok {
			// Out-of-range indexes are left for enigma.New to reject.
			n, err := strconv.Atoi(strings.TrimSpace(name))
			if err != nil {
				return cfg, fmt.Errorf("%w: unknown rotor %q", enigma.ErrInvalidConfiguration, name)
			}
			idx = n
		}
		cfg.Rotors[i] = enigma.RotorSetting{Rotor: idx, Ring: f.Rings[i], Start: f.Start[i]}
	}

	cfg.Reflector = enigma.DefaultReflector
	if f.Reflector != "" {
		cfg.Reflector = strings.ToUpper(f.Reflector)[0]
	}

	cfg.Plugboard = f.Plugboard
	if _, dropped := enigma.ParsePlugboard(f.Plugboard); len(dropped) > 0 {
		slog.Warn("ignoring malformed plugboard tokens", "tokens", strings.Join(dropped, " "))
	}

	if _, err := enigma.New(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
