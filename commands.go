package main

import (
	"crypto/cipher"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vilshansen/enigmaforge-go/constants"
	"github.com/vilshansen/enigmaforge-go/cryptoutils"
	"github.com/vilshansen/enigmaforge-go/enigma"
	"github.com/vilshansen/enigmaforge-go/fileutils"
	"github.com/vilshansen/enigmaforge-go/settings"
	"github.com/vilshansen/enigmaforge-go/ui"
)

func textCmd() *cobra.Command {
	var mf machineFlags

	cmd := &cobra.Command{
		Use:   "text [WORDS...]",
		Short: "Encipher or decipher text from the arguments or stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := mf.ResolveOrDefault(cmd)
			if err != nil {
				return err
			}
			m, err := enigma.New(cfg)
			if err != nil {
				return err
			}
			slog.Debug("machine ready", "config", cfg.String())

			if len(args) > 0 {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), m.ProcessText(strings.Join(args, " ")))
				return err
			}
			if _, err := io.Copy(cmd.OutOrStdout(), &cipher.StreamReader{S: m, R: cmd.InOrStdin()}); err != nil {
				return fmt.Errorf("process stdin: %w", err)
			}
			return nil
		},
	}
	mf.Bind(cmd)
	return cmd
}

type fileFlags struct {
	Input      string
	Output     string
	Passphrase string
}

func (f *fileFlags) Bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.Input, "input", "i", "", "Input file or wildcard pattern")
	cmd.Flags().StringVarP(&f.Output, "output", "o", "", "Output file (single input only)")
	cmd.Flags().StringVarP(&f.Passphrase, "passphrase", "p", "", "Passphrase (optional)")
	_ = cmd.MarkFlagRequired("input")
}

func encryptCmd() *cobra.Command {
	return fileCmd("encrypt", "Encipher files", true)
}

func decryptCmd() *cobra.Command {
	return fileCmd("decrypt", "Decipher files", false)
}

func fileCmd(operation, short string, encrypt bool) *cobra.Command {
	var (
		mf machineFlags
		ff fileFlags
	)

	cmd := &cobra.Command{
		Use:   operation,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, err := fileutils.ExpandInputPath(ff.Input)
			if err != nil {
				return err
			}
			if ff.Output != "" && len(inputs) > 1 {
				return fmt.Errorf("-o cannot be used with %d input files", len(inputs))
			}

			key, err := resolveKey(cmd, &mf, operation, ff.Passphrase)
			if err != nil {
				return err
			}
			defer cryptoutils.ZeroBytes(key.Passphrase)
			if key.PassphraseFunc != nil {
				// Prompt once for all inputs.
				var wipe func()
				key, wipe = cachePassphrase(key)
				defer wipe()
			}

			for _, in := range inputs {
				out := ff.Output
				if out == "" {
					out = fileutils.OutputPath(in, encrypt)
				}
				if encrypt {
					err = fileutils.EncryptFile(in, out, key)
				} else {
					err = fileutils.DecryptFile(in, out, key)
				}
				if err != nil {
					return fmt.Errorf("%s %s: %w", operation, in, err)
				}
				fmt.Fprintln(cmd.ErrOrStderr(), ui.SuccessMsg("%s %s -> %s", operation, in, ui.Bold(out)))
			}
			return nil
		},
	}
	mf.Bind(cmd)
	ff.Bind(cmd)
	return cmd
}

// resolveKey prefers machine settings over a passphrase. Without either,
// encryption generates a passphrase and decryption prompts for one.
func resolveKey(cmd *cobra.Command, mf *machineFlags, operation, passphrase string) (fileutils.Key, error) {
	cfg, ok, err := mf.Resolve(cmd)
	if err != nil {
		return fileutils.Key{}, err
	}
	if ok && passphrase != "" && (mf.SettingsPath != "" || mf.machineFlagsChanged(cmd)) {
		return fileutils.Key{}, errors.New("use either machine settings or a passphrase, not both")
	}
	if ok && passphrase == "" {
		return fileutils.Key{Config: &cfg}, nil
	}
	return resolvePassphrase(operation, passphrase, cmd.ErrOrStderr())
}

// cachePassphrase wraps key.PassphraseFunc so the prompt runs at most once.
// The returned func zeroes the cached passphrase.
func cachePassphrase(key fileutils.Key) (fileutils.Key, func()) {
	prompt := key.PassphraseFunc
	var cached []byte
	key.PassphraseFunc = func() ([]byte, error) {
		if cached != nil {
			return cached, nil
		}
		p, err := prompt()
		if err != nil {
			return nil, err
		}
		cached = p
		return p, nil
	}
	return key, func() { cryptoutils.ZeroBytes(cached) }
}

func keygenCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a random key sheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cryptoutils.GenerateSettings()
			if err != nil {
				return err
			}
			s := settings.FromConfig(cfg)

			if output == "" {
				data, err := s.Marshal()
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := s.Save(output); err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), ui.SuccessMsg("wrote key sheet %s", ui.Bold(output)))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the key sheet to a file instead of stdout")
	return cmd
}

func showCmd() *cobra.Command {
	var mf machineFlags

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the resolved machine settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := mf.ResolveOrDefault(cmd)
			if err != nil {
				return err
			}
			pb, _ := enigma.ParsePlugboard(cfg.Plugboard)

			slots := []string{"left", "middle", "right"}
			rows := make([][]string, 0, enigma.NumSlots)
			for i, r := range cfg.Rotors {
				rows = append(rows, []string{
					slots[i],
					enigma.RotorName(r.Rotor),
					string(enigma.Rotors[r.Rotor].Notch),
					string(r.Ring),
					string(r.Start),
				})
			}

			starts := make([]byte, 0, enigma.NumSlots)
			for _, r := range cfg.Rotors {
				starts = append(starts, r.Start)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, ui.Window(strings.ToUpper(string(starts))))
			fmt.Fprintln(w, ui.Table([]string{"slot", "rotor", "notch", "ring", "start"}, rows))
			plugs := pb.String()
			if plugs == "" {
				plugs = ui.Muted("none")
			}
			reflector := string(enigma.ResolveReflector(cfg.Reflector))
			if _, known := enigma.Reflectors[cfg.Reflector]; !known {
				reflector += " " + ui.Muted(fmt.Sprintf("(fallback for unknown %q)", cfg.Reflector))
			}
			fmt.Fprint(w, ui.KeyValues("",
				ui.KV("reflector", reflector),
				ui.KV("plugboard", plugs),
				ui.KV("summary", ui.Accent(cfg.String())),
			))
			if pairs := len(pb.Pairs()); pairs != 0 && pairs != constants.PlugboardPairs {
				fmt.Fprintln(w, ui.WarnMsg("%d plugboard pairs, key sheets usually have %d", pairs, constants.PlugboardPairs))
			}
			return nil
		},
	}
	mf.Bind(cmd)
	return cmd
}
