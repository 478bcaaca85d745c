package canonical

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/beacon/internal/scan"
)

// Domain prefixes for content-addressed identity.
// The version suffix leaves room for a future encoding change.
const (
	DomainInput = "beacon/input/v1"
	DomainRun   = "beacon/run/v1"
)

// HashWithDomain computes SHA256(domain + 0x00 + data) as hex.
// The separator prevents domain/data boundary ambiguity.
func HashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// InputDigest identifies a scanner input by content.
// Scanner order and beacon order are significant: scanner order decides the
// global frame.
func InputDigest(scanners []scan.Scanner) (string, error) {
	list := make([]any, len(scanners))
	for i, s := range scanners {
		beacons := make([]any, len(s.Beacons))
		for j, b := range s.Beacons {
			beacons[j] = []int{b.X, b.Y, b.Z}
		}
		list[i] = map[string]any{
			"id":      s.ID,
			"beacons": beacons,
		}
	}

	data, err := Marshal(map[string]any{"scanners": list})
	if err != nil {
		return "", fmt.Errorf("input digest: %w", err)
	}
	return HashWithDomain(DomainInput, data), nil
}

// NormalizeLabel returns the stored form of a run label: trimmed and NFC
// normalized, so that "e\u0301" and "\u00e9" name the same run.
func NormalizeLabel(label string) string {
	return norm.NFC.String(strings.TrimSpace(label))
}

// RunDigest identifies a registration request: the input digest plus the
// parameters that change the outcome, plus the caller's label. Worker count
// is left out; it never changes the result.
func RunDigest(inputDigest string, threshold int, mode string, label string) (string, error) {
	if inputDigest == "" {
		return "", fmt.Errorf("run digest: empty input digest")
	}
	data, err := Marshal(map[string]any{
		"input_digest": inputDigest,
		"threshold":    threshold,
		"orientations": mode,
		"label":        NormalizeLabel(label),
	})
	if err != nil {
		return "", fmt.Errorf("run digest: %w", err)
	}
	return HashWithDomain(DomainRun, data), nil
}
