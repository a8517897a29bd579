package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/vilshansen/enigmaforge-go/constants"
	"github.com/vilshansen/enigmaforge-go/fileutils"
	"github.com/vilshansen/enigmaforge-go/logging"
	"github.com/vilshansen/enigmaforge-go/ui"
	"golang.org/x/term"
)

var version = "dev"

func main() {
	if err := logging.Configure(logging.LevelWarn); err != nil {
		_, _ = os.Stderr.WriteString("configure logger: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.ErrorMsg("error: %v", err))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var debug bool

	root := &cobra.Command{
		Use:           "enigmaforge",
		Short:         "Encipher text and files with an emulated Enigma machine",
		Long:          constants.HelpText,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := logging.LevelWarn
			if debug {
				level = logging.LevelDebug
			}
			if err := logging.ConfigureWriter(cmd.ErrOrStderr(), level); err != nil {
				return err
			}

			fileutils.ProgressOutput = io.Discard
			if f, ok := cmd.ErrOrStderr().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
				fileutils.ProgressOutput = f
			}
			return nil
		},
	}
	root.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	root.AddCommand(textCmd())
	root.AddCommand(encryptCmd())
	root.AddCommand(decryptCmd())
	root.AddCommand(keygenCmd())
	root.AddCommand(showCmd())
	return root
}
