// Package digest derives the content addresses that drive incremental
// rendering. Every digest is a hex-encoded 32-byte BLAKE3 hash.
package digest

import (
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/zeebo/blake3"
)

// Hasher accumulates digest input. The zero value is not usable; call
// NewHasher.
type Hasher struct {
	h *blake3.Hasher
}

// NewHasher returns an empty hasher.
func NewHasher() *Hasher {
	return &Hasher{h: blake3.New()}
}

// WriteBytes feeds raw bytes into the digest.
func (d *Hasher) WriteBytes(data []byte) {
	_, _ = d.h.Write(data)
}

// WriteString feeds a string into the digest.
func (d *Hasher) WriteString(s string) {
	_, _ = d.h.Write([]byte(s))
}

// WriteUint64LE feeds a little-endian u64 into the digest.
func (d *Hasher) WriteUint64LE(v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	_, _ = d.h.Write(buf[:])
}

// WriteUint32LE feeds a little-endian u32 into the digest.
func (d *Hasher) WriteUint32LE(v uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, _ = d.h.Write(buf[:])
}

// HexSum finalizes the digest as lowercase hex.
func (d *Hasher) HexSum() string {
	return hex.EncodeToString(d.h.Sum(nil))
}

// Bytes digests a byte slice.
func Bytes(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// JSONPayload digests the JSON serialization of a listing payload.
func JSONPayload(payload interface{}) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to serialize cache payload: %w", err)
	}
	return Bytes(data), nil
}

// SiteInputs combines the raw config text with the templates digest.
func SiteInputs(configRaw []byte, templatesDigest string) string {
	h := NewHasher()
	h.WriteBytes(configRaw)
	h.WriteString(templatesDigest)
	return h.HexSum()
}

// Post digests a post: the main content file bytes followed, for each
// sorted attached relative path, by its normalized name, size and
// modification time.
func Post(contentPath, sourceDir string, attached []string) (string, error) {
	h := NewHasher()

	content, err := os.ReadFile(contentPath)
	if err != nil {
		return "", fmt.Errorf("failed to read content file %s: %w", contentPath, err)
	}
	h.WriteBytes(content)

	assets := append([]string(nil), attached...)
	sort.Strings(assets)

	for _, relative := range assets {
		normalized := filepath.ToSlash(filepath.Clean(relative))
		h.WriteString(normalized)
		assetPath := filepath.Join(sourceDir, filepath.FromSlash(relative))
		info, err := os.Stat(assetPath)
		if err != nil {
			return "", fmt.Errorf("failed to inspect asset %s: %w", assetPath, err)
		}
		writeFileMeta(h, info)
	}

	return h.HexSum(), nil
}

// Tree digests every file under dir in sorted path order: normalized
// relative name, file bytes, size and modification time. The seed is
// hashed first when non-empty (theme digests prepend the theme name).
// A missing directory digests to the seed alone.
func Tree(dir, seed string) (string, error) {
	h := NewHasher()
	if seed != "" {
		h.WriteString(seed)
	}

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return h.HexSum(), nil
	}

	files, err := sortedFiles(dir)
	if err != nil {
		return "", err
	}

	for _, path := range files {
		relative, err := filepath.Rel(dir, path)
		if err != nil {
			return "", fmt.Errorf("failed to relativize %s: %w", path, err)
		}
		h.WriteString(filepath.ToSlash(relative))

		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read asset %s: %w", path, err)
		}
		h.WriteBytes(data)

		info, err := os.Stat(path)
		if err != nil {
			return "", fmt.Errorf("failed to inspect asset %s: %w", path, err)
		}
		writeFileMeta(h, info)
	}

	return h.HexSum(), nil
}

func writeFileMeta(h *Hasher, info fs.FileInfo) {
	h.WriteUint64LE(uint64(info.Size()))
	modified := info.ModTime()
	secs := modified.Unix()
	if secs < 0 {
		secs = 0
	}
	h.WriteUint64LE(uint64(secs))
	h.WriteUint32LE(uint32(modified.Nanosecond()))
}

func sortedFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}
