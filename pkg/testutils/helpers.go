package testutils

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// CreateTestFilesWithContent creates test files with specific content
func CreateTestFilesWithContent(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		err := os.WriteFile(path, []byte(content), 0644)
		require.NoError(t, err)
	}
}

// CreateImages writes one small file per name into dir and returns their
// paths in the same order
func CreateImages(t *testing.T, dir string, names ...string) []string {
	t.Helper()
	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(dir, name)
		CreateTestFilesWithContent(t, dir, map[string]string{name: "image " + name})
	}
	return paths
}

// SetModTime sets the modification time of path
func SetModTime(t *testing.T, path string, mod time.Time) {
	t.Helper()
	require.NoError(t, os.Chtimes(path, mod, mod))
}

// ExifJPEG returns a minimal JPEG whose only content is an APP1 segment
// carrying taken as EXIF DateTimeOriginal
func ExifJPEG(taken time.Time) []byte {
	le := binary.LittleEndian
	date := append([]byte(taken.Format("2006:01:02 15:04:05")), 0)

	var tiff bytes.Buffer
	tiff.WriteString("II")
	binary.Write(&tiff, le, uint16(42))
	binary.Write(&tiff, le, uint32(8)) // IFD0

	// IFD0: one entry pointing at the Exif sub-IFD
	binary.Write(&tiff, le, uint16(1))
	binary.Write(&tiff, le, []uint16{0x8769, 4})
	binary.Write(&tiff, le, []uint32{1, 26, 0})

	// Exif IFD: DateTimeOriginal as ASCII stored after the directory
	binary.Write(&tiff, le, uint16(1))
	binary.Write(&tiff, le, []uint16{0x9003, 2})
	binary.Write(&tiff, le, []uint32{uint32(len(date)), 44, 0})
	tiff.Write(date)

	var jpeg bytes.Buffer
	jpeg.Write([]byte{0xFF, 0xD8, 0xFF, 0xE1})
	binary.Write(&jpeg, binary.BigEndian, uint16(2+6+tiff.Len()))
	jpeg.WriteString("Exif\x00\x00")
	jpeg.Write(tiff.Bytes())
	jpeg.Write([]byte{0xFF, 0xD9})
	return jpeg.Bytes()
}

// StripANSI removes ANSI escape sequences from a string
func StripANSI(str string) string {
	var result []rune
	inEscape := false
	for _, r := range str {
		if r == '\x1b' {
			inEscape = true
			continue
		}
		if inEscape {
			if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
				inEscape = false
			}
			continue
		}
		result = append(result, r)
	}
	return string(result)
}
