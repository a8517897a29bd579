package fileutils

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vilshansen/enigmaforge-go/enigma"
	"github.com/vilshansen/enigmaforge-go/headers"
)

func init() {
	ProgressOutput = io.Discard
}

func testConfig() *enigma.Config {
	return &enigma.Config{
		Rotors: [enigma.NumSlots]enigma.RotorSetting{
			{Rotor: 2, Ring: 'C', Start: 'L'},
			{Rotor: 0, Ring: 'Q', Start: 'F'},
			{Rotor: 1, Ring: 'E', Start: 'Z'},
		},
		Reflector: 'B',
		Plugboard: "AZ BY CX DW",
	}
}

const plaintext = "The quick brown fox jumps over the lazy dog.\nÆble, 42!\n"

func TestStreamRoundTripSettings(t *testing.T) {
	key := Key{Config: testConfig()}

	var enc bytes.Buffer
	if err := EncryptStream(strings.NewReader(plaintext), &enc, "fox.txt", key); err != nil {
		t.Fatalf("EncryptStream() error = %v", err)
	}
	if bytes.Contains(enc.Bytes(), []byte("quick")) {
		t.Error("ciphertext contains plaintext")
	}

	var dec bytes.Buffer
	header, err := DecryptStream(bytes.NewReader(enc.Bytes()), &dec, key)
	if err != nil {
		t.Fatalf("DecryptStream() error = %v", err)
	}
	if dec.String() != plaintext {
		t.Errorf("round trip = %q, want %q", dec.String(), plaintext)
	}
	if header.FileName != "fox.txt" || header.KeySource != headers.KeySourceSettings {
		t.Errorf("header = %+v", header)
	}
}

func TestStreamBodyUsesMessageKey(t *testing.T) {
	key := Key{Config: testConfig()}

	var enc bytes.Buffer
	if err := EncryptStream(strings.NewReader(plaintext), &enc, "", key); err != nil {
		t.Fatal(err)
	}
	header, err := headers.ReadFileHeader(bytes.NewReader(enc.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	body := enc.Bytes()[len(headers.GetFileHeaderBytes(header)):]

	// Recover the message key by hand and decipher the body directly.
	m, err := enigma.New(*testConfig())
	if err != nil {
		t.Fatal(err)
	}
	messageKey := m.ProcessText(header.Indicator)

	bodyMachine, err := enigma.New(*testConfig())
	if err != nil {
		t.Fatal(err)
	}
	if err := bodyMachine.SetWindow(messageKey); err != nil {
		t.Fatal(err)
	}
	if got := bodyMachine.ProcessText(string(body)); got != plaintext {
		t.Errorf("manual decipher = %q, want %q", got, plaintext)
	}
}

func TestStreamRoundTripPassphrase(t *testing.T) {
	key := Key{Passphrase: []byte("secure-test-pass")}

	var enc bytes.Buffer
	if err := EncryptStream(strings.NewReader(plaintext), &enc, "p.txt", key); err != nil {
		t.Fatalf("EncryptStream() error = %v", err)
	}

	prompted := 0
	promptKey := Key{PassphraseFunc: func() ([]byte, error) {
		prompted++
		return []byte("secure-test-pass"), nil
	}}
	var dec bytes.Buffer
	header, err := DecryptStream(bytes.NewReader(enc.Bytes()), &dec, promptKey)
	if err != nil {
		t.Fatalf("DecryptStream() error = %v", err)
	}
	if dec.String() != plaintext {
		t.Errorf("round trip = %q", dec.String())
	}
	if prompted != 1 {
		t.Errorf("passphrase prompted %d times, want 1", prompted)
	}
	if header.KeySource != headers.KeySourcePassphrase || len(header.Salt) == 0 {
		t.Errorf("header = %+v", header)
	}

	var wrong bytes.Buffer
	if _, err := DecryptStream(bytes.NewReader(enc.Bytes()), &wrong, Key{Passphrase: []byte("wrong")}); err != nil {
		t.Fatalf("DecryptStream(wrong passphrase) error = %v", err)
	}
	if wrong.String() == plaintext {
		t.Error("wrong passphrase reproduced the plaintext")
	}
}

func TestDecryptStreamKeySourceMismatch(t *testing.T) {
	var enc bytes.Buffer
	if err := EncryptStream(strings.NewReader("HELLO"), &enc, "", Key{Config: testConfig()}); err != nil {
		t.Fatal(err)
	}
	_, err := DecryptStream(bytes.NewReader(enc.Bytes()), io.Discard, Key{Passphrase: []byte("x")})
	if err == nil || !strings.Contains(err.Error(), "settings") {
		t.Errorf("DecryptStream() error = %v, want key source mismatch", err)
	}
}

func TestKeyValidation(t *testing.T) {
	tests := []struct {
		name string
		key  Key
	}{
		{name: "empty key", key: Key{}},
		{name: "both", key: Key{Config: testConfig(), Passphrase: []byte("x")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := EncryptStream(strings.NewReader("A"), io.Discard, "", tt.key); err == nil {
				t.Error("EncryptStream() succeeded")
			}
			if _, err := DecryptStream(strings.NewReader("A"), io.Discard, tt.key); err == nil {
				t.Error("DecryptStream() succeeded")
			}
		})
	}
}

func TestPassphraseFuncError(t *testing.T) {
	key := Key{PassphraseFunc: func() ([]byte, error) { return nil, errors.New("no tty") }}
	err := EncryptStream(strings.NewReader("A"), io.Discard, "", key)
	if err == nil || !strings.Contains(err.Error(), "no tty") {
		t.Errorf("EncryptStream() error = %v", err)
	}
}

func TestEncryptionRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "test.txt")
	enc := OutputPath(src, true)
	dec := filepath.Join(dir, "test_dec.txt")

	if err := os.WriteFile(src, []byte(plaintext), 0o644); err != nil {
		t.Fatal(err)
	}
	key := Key{Passphrase: []byte("secure-test-pass")}

	// Test Encrypt
	if err := EncryptFile(src, enc, key); err != nil {
		t.Fatalf("Encryption failed: %v", err)
	}

	// Test Decrypt
	if err := DecryptFile(enc, dec, key); err != nil {
		t.Fatalf("Decryption failed: %v", err)
	}

	// Compare Result
	decryptedData, err := os.ReadFile(dec)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal([]byte(plaintext), decryptedData) {
		t.Error("Decrypted data does not match original plaintext")
	}
}

func TestDecryptFileRemovesPartialOutput(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "garbage.enf")
	out := filepath.Join(dir, "garbage")
	if err := os.WriteFile(src, []byte("not a header"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := DecryptFile(src, out, Key{Config: testConfig()}); err == nil {
		t.Fatal("DecryptFile() succeeded on garbage")
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Errorf("partial output left behind: %v", err)
	}
}

func TestProcessFileRejectsSamePath(t *testing.T) {
	src := filepath.Join(t.TempDir(), "same.txt")
	if err := os.WriteFile(src, []byte("HELLO"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := EncryptFile(src, src, Key{Config: testConfig()}); err == nil {
		t.Error("EncryptFile() onto its own input succeeded")
	}
	data, _ := os.ReadFile(src)
	if string(data) != "HELLO" {
		t.Errorf("input clobbered: %q", data)
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		in      string
		encrypt bool
		want    string
	}{
		{"a.txt", true, "a.txt.enf"},
		{"a.txt.enf", false, "a.txt"},
		{"a.txt", false, "a.txt.out"},
		{".enf", false, ".enf.out"},
	}
	for _, tt := range tests {
		if got := OutputPath(tt.in, tt.encrypt); got != tt.want {
			t.Errorf("OutputPath(%q, %v) = %q, want %q", tt.in, tt.encrypt, got, tt.want)
		}
	}
}

func TestExpandInputPath(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.txt", "b.txt", "c.log"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	got, err := ExpandInputPath(filepath.Join(dir, "*.txt"))
	if err != nil {
		t.Fatalf("ExpandInputPath() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("ExpandInputPath(*.txt) = %v, want 2 files", got)
	}

	if _, err := ExpandInputPath(filepath.Join(dir, "*.md")); err == nil {
		t.Error("pattern without matches succeeded")
	}
	if _, err := ExpandInputPath(filepath.Join(dir, "missing.txt")); err == nil {
		t.Error("missing file succeeded")
	}
	if got, err := ExpandInputPath(filepath.Join(dir, "c.log")); err != nil || len(got) != 1 {
		t.Errorf("ExpandInputPath(c.log) = %v, %v", got, err)
	}
}

func TestProgressWriter(t *testing.T) {
	var out, sink bytes.Buffer
	pw := &ProgressWriter{Writer: &sink, Label: "Encrypting", TotalBytes: 4, Out: &out}
	if _, err := pw.Write([]byte("ABCDEF")); err != nil {
		t.Fatal(err)
	}
	pw.Finish()
	if sink.String() != "ABCDEF" {
		t.Errorf("sink = %q", sink.String())
	}
	if !strings.Contains(out.String(), "Encrypting: 100.00%") {
		t.Errorf("progress output = %q", out.String())
	}
}

func TestFormatBytes(t *testing.T) {
	tests := map[int64]string{
		512:     "512 B",
		2048:    "2.0 KiB",
		5 << 20: "5.0 MiB",
		3 << 30: "3.0 GiB",
	}
	for in, want := range tests {
		if got := formatBytes(in); got != want {
			t.Errorf("formatBytes(%d) = %q, want %q", in, got, want)
		}
	}
}
