package bsync

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
)

// Fingerprint computes the content hash of r as a lowercase hex string.
// MD5 is used purely for change detection between two points in time, not
// for security. A read failure yields an error and no fingerprint; callers
// must treat that as a distinct failure state for the file, never as a
// classification.
func Fingerprint(r io.Reader) (string, error) {
	h := md5.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("hashing content: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
