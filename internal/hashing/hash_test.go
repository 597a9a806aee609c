package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.txt")
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func TestHashDeterministic(t *testing.T) {
	path := writeTemp(t, []byte("quarterly report contents"))

	first, err := Hash(path, "sha256")
	require.NoError(t, err)
	second, err := Hash(path, "sha256")
	require.NoError(t, err)

	assert.Equal(t, first, second)

	want := sha256.Sum256([]byte("quarterly report contents"))
	assert.Equal(t, hex.EncodeToString(want[:]), first)
}

func TestHashDefaultsToSHA256(t *testing.T) {
	path := writeTemp(t, []byte("abc"))

	explicit, err := Hash(path, "sha256")
	require.NoError(t, err)
	defaulted, err := Hash(path, "")
	require.NoError(t, err)

	assert.Equal(t, explicit, defaulted)
}

func TestHashChangesWithContent(t *testing.T) {
	a := writeTemp(t, []byte("version one"))
	b := writeTemp(t, []byte("version two"))

	ha, err := Hash(a, "sha256")
	require.NoError(t, err)
	hb, err := Hash(b, "sha256")
	require.NoError(t, err)

	assert.NotEqual(t, ha, hb)
}

func TestHashLargerThanOneBlock(t *testing.T) {
	content := make([]byte, blockSize*3+17)
	for i := range content {
		content[i] = byte(i % 251)
	}
	path := writeTemp(t, content)

	got, err := Hash(path, "sha256")
	require.NoError(t, err)

	want := sha256.Sum256(content)
	assert.Equal(t, hex.EncodeToString(want[:]), got)
}

func TestHashMissingFile(t *testing.T) {
	_, err := Hash(filepath.Join(t.TempDir(), "nope.pdf"), "sha256")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHashUnsupportedAlgorithm(t *testing.T) {
	path := writeTemp(t, []byte("abc"))
	_, err := Hash(path, "crc32")
	assert.ErrorIs(t, err, ErrUnsupportedAlgorithm)
}

func TestSupported(t *testing.T) {
	assert.ElementsMatch(t, []string{"md5", "sha1", "sha256", "sha512"}, Supported())
}
