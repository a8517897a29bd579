package headers

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/vilshansen/enigmaforge-go/constants"
)

// KeySource records how the base machine settings of a file were obtained.
type KeySource byte

const (
	KeySourceSettings   KeySource = 1 // settings file or machine flags
	KeySourcePassphrase KeySource = 2 // derived from a passphrase and Salt
)

func (k KeySource) String() string {
	switch k {
	case KeySourceSettings:
		return "settings"
	case KeySourcePassphrase:
		return "passphrase"
	default:
		return fmt.Sprintf("KeySource(%d)", byte(k))
	}
}

// FileHeader precedes the enciphered body. Indicator is the message key
// enciphered at the base settings.
type FileHeader struct {
	MagicMarker string
	KeySource   KeySource
	Salt        []byte
	Indicator   string
	FileName    string
}

func GetFileHeaderBytes(header FileHeader) []byte {
	var buf bytes.Buffer

	buf.WriteString(header.MagicMarker)
	buf.WriteByte(byte(header.KeySource))

	binary.Write(&buf, binary.BigEndian, uint32(len(header.Salt)))
	buf.Write(header.Salt)

	binary.Write(&buf, binary.BigEndian, uint32(len(header.Indicator)))
	buf.WriteString(header.Indicator)

	fileNameBytes := []byte(header.FileName)
	binary.Write(&buf, binary.BigEndian, uint32(len(fileNameBytes)))
	buf.Write(fileNameBytes)

	return buf.Bytes()
}

func WriteFileHeader(header FileHeader, output io.Writer) (int64, error) {
	headerData := GetFileHeaderBytes(header)
	n, err := output.Write(headerData)
	if err != nil {
		return int64(n), fmt.Errorf("error writing header: %w", err)
	}
	return int64(n), nil
}

// ReadFileHeader reads and validates the header at the start of input.
func ReadFileHeader(input io.Reader) (FileHeader, error) {
	header := FileHeader{}
	if err := readMagicMarker(input, &header); err != nil {
		return header, err
	}
	if err := readKeySource(input, &header); err != nil {
		return header, err
	}
	if err := readSalt(input, &header); err != nil {
		return header, err
	}
	if err := readIndicator(input, &header); err != nil {
		return header, err
	}
	if err := readFileName(input, &header); err != nil {
		return header, err
	}
	return header, nil
}

func readMagicMarker(input io.Reader, fileHeader *FileHeader) error {
	magic := make([]byte, len(constants.MagicMarker))
	if _, err := io.ReadFull(input, magic); err != nil {
		return fmt.Errorf("error reading magic marker: %w", err)
	}
	fileHeader.MagicMarker = string(magic)
	if fileHeader.MagicMarker != constants.MagicMarker {
		return fmt.Errorf("unknown file format. Expected: %s, found: %q", constants.MagicMarker, fileHeader.MagicMarker)
	}
	return nil
}

func readKeySource(input io.Reader, fileHeader *FileHeader) error {
	var b [1]byte
	if _, err := io.ReadFull(input, b[:]); err != nil {
		return fmt.Errorf("error reading key source: %w", err)
	}
	fileHeader.KeySource = KeySource(b[0])
	switch fileHeader.KeySource {
	case KeySourceSettings, KeySourcePassphrase:
		return nil
	default:
		return fmt.Errorf("unknown key source %d", b[0])
	}
}

func readSalt(input io.Reader, fileHeader *FileHeader) error {
	var saltLen uint32
	if err := binary.Read(input, binary.BigEndian, &saltLen); err != nil {
		return fmt.Errorf("error reading salt length: %w", err)
	}
	want := uint32(0)
	if fileHeader.KeySource == KeySourcePassphrase {
		want = constants.SaltLength
	}
	if saltLen != want {
		return fmt.Errorf("invalid salt length %d for %s key source, expected %d", saltLen, fileHeader.KeySource, want)
	}
	if saltLen == 0 {
		return nil
	}
	fileHeader.Salt = make([]byte, saltLen)
	if _, err := io.ReadFull(input, fileHeader.Salt); err != nil {
		return fmt.Errorf("error reading salt: %w", err)
	}
	return nil
}

func readIndicator(input io.Reader, fileHeader *FileHeader) error {
	var indLen uint32
	if err := binary.Read(input, binary.BigEndian, &indLen); err != nil {
		return fmt.Errorf("error reading indicator length: %w", err)
	}
	if indLen != constants.MessageKeyLength {
		return fmt.Errorf("invalid indicator length %d, expected %d", indLen, constants.MessageKeyLength)
	}
	ind := make([]byte, indLen)
	if _, err := io.ReadFull(input, ind); err != nil {
		return fmt.Errorf("error reading indicator: %w", err)
	}
	for _, c := range ind {
		if c < 'A' || c > 'Z' {
			return fmt.Errorf("invalid indicator %q", ind)
		}
	}
	fileHeader.Indicator = string(ind)
	return nil
}

// maxFileNameLength bounds the name allocation for corrupt headers.
const maxFileNameLength = 4096

func readFileName(input io.Reader, fileHeader *FileHeader) error {
	var nameLen uint32
	if err := binary.Read(input, binary.BigEndian, &nameLen); err != nil {
		return fmt.Errorf("error reading file name length: %w", err)
	}
	if nameLen > maxFileNameLength {
		return fmt.Errorf("file name length %d exceeds %d", nameLen, maxFileNameLength)
	}
	fileNameBytes := make([]byte, nameLen)
	if _, err := io.ReadFull(input, fileNameBytes); err != nil {
		return fmt.Errorf("error reading file name: %w", err)
	}
	fileHeader.FileName = string(fileNameBytes)
	return nil
}
