package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/vilshansen/enigmaforge-go/constants"
	"github.com/vilshansen/enigmaforge-go/cryptoutils"
	"github.com/vilshansen/enigmaforge-go/fileutils"
	"github.com/vilshansen/enigmaforge-go/ui"
	"golang.org/x/term"
)

// resolvePassphrase builds a passphrase key. An empty passphrase is
// generated and printed to errOut when encrypting, and prompted for on the
// terminal when decrypting.
func resolvePassphrase(operation, given string, errOut io.Writer) (fileutils.Key, error) {
	if given != "" {
		return fileutils.Key{Passphrase: []byte(given)}, nil
	}

	switch operation {
	case "encrypt":
		pass, err := cryptoutils.GeneratePassphrase(constants.PassphraseLength)
		if err != nil {
			return fileutils.Key{}, err
		}
		fmt.Fprintln(errOut, ui.WarnMsg("Generated a random passphrase. Store it safely: %s", ui.Bold(string(pass))))
		return fileutils.Key{Passphrase: pass}, nil
	case "decrypt":
		return fileutils.Key{PassphraseFunc: promptPassphrase}, nil
	default:
		return fileutils.Key{}, fmt.Errorf("invalid operation %q", operation)
	}
}

func promptPassphrase() ([]byte, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, errors.New("stdin is not a terminal; pass the passphrase with -p")
	}
	fmt.Fprint(os.Stderr, "Enter passphrase: ")
	pass, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, err
	}
	return pass, nil
}
