package bsync

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
)

// ManifestKey is the well-known object key under which the manifest is
// stored in the target bucket.
const ManifestKey = "checksums.txt"

// Manifest maps relative keys to content fingerprints. It is the
// authoritative record of what the remote store holds and what each
// object's content hash was when the manifest was last published.
type Manifest map[string]string

// NewManifestFromInventory builds a manifest covering the complete local
// inventory.
func NewManifestFromInventory(inventory []*LocalFile) Manifest {
	m := make(Manifest, len(inventory))
	for _, f := range inventory {
		m[f.RelativeKey] = f.Fingerprint
	}
	return m
}

// Encode writes the manifest as one "<key> <fingerprint>" line per entry,
// keys sorted for deterministic output. Keys containing whitespace are not
// supported by this format; there is no escaping.
func (m Manifest) Encode(w io.Writer) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	bw := bufio.NewWriter(w)
	for _, k := range keys {
		if _, err := fmt.Fprintf(bw, "%s %s\n", k, m[k]); err != nil {
			return fmt.Errorf("encoding manifest: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	return nil
}

// DecodeManifest parses the line-oriented manifest format. Lines yielding
// fewer than two whitespace-separated tokens are silently skipped; this is
// tolerance for trailing blank lines, not general malformed-input recovery.
// If a key repeats, the last occurrence wins.
func DecodeManifest(r io.Reader) (Manifest, error) {
	m := make(Manifest)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}
		m[fields[0]] = fields[1]
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	return m, nil
}
