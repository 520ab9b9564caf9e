package util

import (
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"time"
)

// FileInfo is what the workspace remembers about a loaded atlas file.
type FileInfo struct {
	ModTime     time.Time
	Size        int64
	Fingerprint string
}

// GetFileInfo stats path and fingerprints its full content with CRC32.
func GetFileInfo(path string) (*FileInfo, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}
	if stat.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	h := crc32.NewIEEE()
	if _, err := io.Copy(h, file); err != nil {
		return nil, err
	}

	return &FileInfo{
		ModTime:     stat.ModTime(),
		Size:        stat.Size(),
		Fingerprint: fmt.Sprintf("%08x", h.Sum32()),
	}, nil
}

// FingerprintBytes fingerprints in-memory content the same way GetFileInfo does.
func FingerprintBytes(data []byte) string {
	return fmt.Sprintf("%08x", crc32.ChecksumIEEE(data))
}

// Changed reports whether other describes different content.
func (fi *FileInfo) Changed(other *FileInfo) bool {
	if fi == nil || other == nil {
		return fi != other
	}
	return fi.Size != other.Size || fi.Fingerprint != other.Fingerprint
}
