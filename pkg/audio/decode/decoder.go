// ABOUTME: Decoder registry and file entry point
// ABOUTME: Picks a codec by file extension and decodes a whole file into a Clip
package decode

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/harperreed/dualdeck/pkg/audio"
)

// ErrUnsupportedFormat is returned for file extensions with no registered decoder
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// Decoder reads an entire encoded stream into memory
type Decoder func(r io.ReadSeeker) (*audio.Clip, error)

var decoders = map[string]Decoder{
	".mp3":  MP3,
	".flac": FLAC,
	".wav":  WAV,
}

// Supported reports whether a file has a decodable extension
func Supported(path string) bool {
	_, ok := decoders[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Extensions lists the registered file extensions
func Extensions() []string {
	return []string{".flac", ".mp3", ".wav"}
}

// Open decodes the file at path into a Clip
func Open(path string) (*audio.Clip, error) {
	ext := strings.ToLower(filepath.Ext(path))
	dec, ok := decoders[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q (supported: .mp3, .flac, .wav)", ErrUnsupportedFormat, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer f.Close()

	clip, err := dec(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}
	if clip.Frames() == 0 {
		return nil, fmt.Errorf("failed to decode %s: no audio frames", filepath.Base(path))
	}
	clip.Path = path

	return clip, nil
}
