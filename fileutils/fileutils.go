// Package fileutils enciphers streams and files with the machine.
//
// Every enciphered stream starts with a headers.FileHeader. The body is
// enciphered at a fresh random message key; the header carries that key
// enciphered at the base settings (the indicator), so only a holder of the
// base settings or passphrase can recover it.
package fileutils

import (
	"crypto/cipher"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vilshansen/enigmaforge-go/constants"
	"github.com/vilshansen/enigmaforge-go/cryptoutils"
	"github.com/vilshansen/enigmaforge-go/enigma"
	"github.com/vilshansen/enigmaforge-go/headers"
)

// Key supplies the base machine settings. Set Config, or one of Passphrase
// and PassphraseFunc. PassphraseFunc is only called when a passphrase is
// actually needed, which for decryption depends on the file header.
type Key struct {
	Config         *enigma.Config
	Passphrase     []byte
	PassphraseFunc func() ([]byte, error)
}

func (k Key) hasPassphrase() bool {
	return len(k.Passphrase) > 0 || k.PassphraseFunc != nil
}

func (k Key) validate() error {
	switch {
	case k.Config != nil && k.hasPassphrase():
		return errors.New("key has both machine settings and a passphrase")
	case k.Config == nil && !k.hasPassphrase():
		return errors.New("key has neither machine settings nor a passphrase")
	}
	return nil
}

func (k Key) source() headers.KeySource {
	if k.Config != nil {
		return headers.KeySourceSettings
	}
	return headers.KeySourcePassphrase
}

func (k Key) passphrase() ([]byte, error) {
	if len(k.Passphrase) > 0 {
		return k.Passphrase, nil
	}
	if k.PassphraseFunc == nil {
		return nil, errors.New("passphrase required")
	}
	p, err := k.PassphraseFunc()
	if err != nil {
		return nil, fmt.Errorf("error reading passphrase: %w", err)
	}
	if len(p) == 0 {
		return nil, errors.New("passphrase cannot be empty")
	}
	return p, nil
}

// baseConfig resolves the settings the indicator is enciphered at.
func (k Key) baseConfig(header headers.FileHeader) (enigma.Config, error) {
	if header.KeySource == headers.KeySourceSettings {
		return *k.Config, nil
	}
	pass, err := k.passphrase()
	if err != nil {
		return enigma.Config{}, err
	}
	return cryptoutils.DeriveSettings(pass, header.Salt)
}

func bodyMachine(cfg enigma.Config, messageKey string) (*enigma.Machine, error) {
	m, err := enigma.New(cfg)
	if err != nil {
		return nil, err
	}
	if err := m.SetWindow(messageKey); err != nil {
		return nil, err
	}
	return m, nil
}

// EncryptStream writes a header for fileName followed by the enciphered
// contents of r.
func EncryptStream(r io.Reader, w io.Writer, fileName string, key Key) error {
	if err := key.validate(); err != nil {
		return err
	}

	header := headers.FileHeader{
		MagicMarker: constants.MagicMarker,
		KeySource:   key.source(),
		FileName:    fileName,
	}
	if header.KeySource == headers.KeySourcePassphrase {
		salt, err := cryptoutils.GenerateSalt()
		if err != nil {
			return err
		}
		header.Salt = salt
	}

	cfg, err := key.baseConfig(header)
	if err != nil {
		return err
	}
	indicatorMachine, err := enigma.New(cfg)
	if err != nil {
		return fmt.Errorf("unable to set up machine: %w", err)
	}

	messageKey, err := cryptoutils.GenerateMessageKey()
	if err != nil {
		return err
	}
	header.Indicator = indicatorMachine.ProcessText(messageKey)

	body, err := bodyMachine(cfg, messageKey)
	if err != nil {
		return fmt.Errorf("unable to set up machine: %w", err)
	}
	slog.Debug("enciphering stream", "file", fileName, "key_source", header.KeySource, "indicator", header.Indicator)

	if _, err := headers.WriteFileHeader(header, w); err != nil {
		return err
	}

	streamWriter := &cipher.StreamWriter{S: body, W: w}
	if _, err := io.CopyBuffer(streamWriter, r, make([]byte, constants.ChunkSize)); err != nil {
		return fmt.Errorf("error during streaming encryption: %w", err)
	}
	return nil
}

// DecryptStream reads a header from r and writes the deciphered body to w.
// The header is returned even when deciphering fails after it was read.
func DecryptStream(r io.Reader, w io.Writer, key Key) (headers.FileHeader, error) {
	if err := key.validate(); err != nil {
		return headers.FileHeader{}, err
	}

	header, err := headers.ReadFileHeader(r)
	if err != nil {
		return header, fmt.Errorf("error reading header: %w", err)
	}
	if header.KeySource != key.source() {
		return header, fmt.Errorf("file was enciphered with a %s key, got a %s key", header.KeySource, key.source())
	}

	cfg, err := key.baseConfig(header)
	if err != nil {
		return header, err
	}
	indicatorMachine, err := enigma.New(cfg)
	if err != nil {
		return header, fmt.Errorf("unable to set up machine: %w", err)
	}
	messageKey := indicatorMachine.ProcessText(header.Indicator)

	body, err := bodyMachine(cfg, messageKey)
	if err != nil {
		return header, fmt.Errorf("unable to set up machine: %w", err)
	}
	slog.Debug("deciphering stream", "file", header.FileName, "key_source", header.KeySource, "indicator", header.Indicator)

	streamReader := &cipher.StreamReader{S: body, R: r}
	if _, err := io.CopyBuffer(w, streamReader, make([]byte, constants.ChunkSize)); err != nil {
		return header, fmt.Errorf("error during streaming decryption: %w", err)
	}
	return header, nil
}

// EncryptFile enciphers inputFile into outputFile.
func EncryptFile(inputFile, outputFile string, key Key) error {
	return processFile(inputFile, outputFile, "Encrypting", func(in io.Reader, out io.Writer) error {
		return EncryptStream(in, out, filepath.Base(inputFile), key)
	})
}

// DecryptFile deciphers inputFile into outputFile.
func DecryptFile(inputFile, outputFile string, key Key) error {
	return processFile(inputFile, outputFile, "Decrypting", func(in io.Reader, out io.Writer) error {
		_, err := DecryptStream(in, out, key)
		return err
	})
}

func processFile(inputFile, outputFile, label string, run func(io.Reader, io.Writer) error) (err error) {
	if sameFile(inputFile, outputFile) {
		return fmt.Errorf("input and output are the same file: %s", inputFile)
	}

	inFile, err := os.Open(inputFile)
	if err != nil {
		return fmt.Errorf("unable to open input file: %w", err)
	}
	defer inFile.Close()

	fileInfo, err := inFile.Stat()
	if err != nil {
		return fmt.Errorf("unable to stat input file: %w", err)
	}

	outFile, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("unable to create output file: %w", err)
	}
	defer func() {
		if cerr := outFile.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("unable to close output file: %w", cerr)
		}
		if err != nil {
			os.Remove(outputFile)
		}
	}()

	pw := &ProgressWriter{
		Writer:     outFile,
		Label:      fmt.Sprintf("%s %s", label, filepath.Base(inputFile)),
		TotalBytes: fileInfo.Size(),
		StartTime:  time.Now(),
		Out:        ProgressOutput,
	}
	defer pw.Finish()

	slog.Debug("processing file", "input", inputFile, "output", outputFile, "bytes", fileInfo.Size())
	return run(inFile, pw)
}

func sameFile(a, b string) bool {
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}

// OutputPath returns the default output name for inputFile: the
// constants.FileExtension is appended when encrypting and stripped when
// decrypting. A decrypted file without the extension gets ".out".
func OutputPath(inputFile string, encrypt bool) string {
	if encrypt {
		return inputFile + constants.FileExtension
	}
	if trimmed, ok := strings.CutSuffix(inputFile, constants.FileExtension); ok && trimmed != "" {
		return trimmed
	}
	return inputFile + ".out"
}

// ExpandInputPath takes a path or a wildcard pattern and returns a list of matching files.
func ExpandInputPath(inputPattern string) ([]string, error) {
	if !strings.ContainsAny(inputPattern, "*?[]") {
		_, err := os.Stat(inputPattern)
		if err != nil {
			return nil, fmt.Errorf("input file does not exist: %w", err)
		}
		return []string{inputPattern}, nil
	}

	matches, err := filepath.Glob(inputPattern)
	if err != nil {
		return nil, fmt.Errorf("error during expansion of wildcard pattern: %w", err)
	}

	if len(matches) == 0 {
		return nil, fmt.Errorf("no match found for pattern: %s", inputPattern)
	}

	return matches, nil
}
