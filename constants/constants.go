package constants

const (
	MagicMarker       = "ENIGMAFORGE-V00001"
	FileExtension     = ".enf"
	SaltLength        = 16 // 128-bit salt for scrypt
	ScryptN           = 1 << 15
	ScryptR           = 8
	ScryptP           = 1
	DerivedKeySize    = 128 // bytes of scrypt output consumed by settings derivation
	PassphraseLength  = 24  // length of a generated passphrase
	CharacterPool     = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	PlugboardPairs    = 10 // pairs on a generated or derived key sheet, as in wartime practice
	MessageKeyLength  = 3
	ChunkSize         = 64 * 1024
	SettingsFileName  = "settings.yaml"
	SettingsDirectory = "enigmaforge"
)

// HelpText is the long description shown by the root command.
const HelpText = `enigmaforge enciphers text and files with an emulated three-rotor Enigma.

The same operation enciphers and deciphers: a message processed twice with
identical settings comes back unchanged. Only the letters A-Z and a-z are
transformed; everything else is copied through as-is.

Machine settings come from a YAML settings file (--settings, or
$XDG_CONFIG_HOME/enigmaforge/settings.yaml when present), from the machine
flags, or for files from a passphrase that is stretched with scrypt into a
full key sheet.

Files are written with a small header carrying the salt, the enciphered
message key and the original file name. Each file body is enciphered at its
own random message key, so two files never share a keystream.

Examples:
    # Encipher a line of text with the default machine:
    enigmaforge text HELLO WORLD

    # Generate a random key sheet:
    enigmaforge keygen -o daily.yaml

    # Encipher a file with a passphrase (generated and printed if omitted):
    enigmaforge encrypt -i report.txt -p "correct horse"

    # Decipher it again (the passphrase is prompted for interactively):
    enigmaforge decrypt -i report.txt.enf -o report.txt
`
