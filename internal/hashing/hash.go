// Package hashing computes content fingerprints used as deduplication keys.
package hashing

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"os"
)

var (
	ErrNotFound             = errors.New("file not found")
	ErrUnsupportedAlgorithm = errors.New("unsupported hash algorithm")
)

// DefaultAlgorithm is used when no algorithm is requested.
const DefaultAlgorithm = "sha256"

// blockSize is the read granularity; files are never loaded whole.
const blockSize = 4096

var algorithms = map[string]func() hash.Hash{
	"md5":    md5.New,
	"sha1":   sha1.New,
	"sha256": sha256.New,
	"sha512": sha512.New,
}

// Hash returns the hex digest of the file's raw bytes. The fingerprint
// depends on content only, never on file name or metadata.
func Hash(path, algorithm string) (string, error) {
	if algorithm == "" {
		algorithm = DefaultAlgorithm
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return "", fmt.Errorf("stat %s: %w", path, err)
	}

	newHash, ok := algorithms[algorithm]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, algorithm)
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	h := newHash()
	buf := make([]byte, blockSize)
	for {
		n, err := f.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("read %s: %w", path, err)
		}
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// Supported lists the registered digest algorithms.
func Supported() []string {
	out := make([]string, 0, len(algorithms))
	for name := range algorithms {
		out = append(out, name)
	}
	return out
}
