package core

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

const (
	BinarySampleSize   = 8192 // Bytes to sample for text/binary detection
	BinaryThresholdPct = 10   // Max % non-printable chars for text files
)

// CompareDrafts reports whether two payloads are identical
func CompareDrafts(stored, local []byte) bool {
	storedHash := sha256.Sum256(stored)
	localHash := sha256.Sum256(local)
	return bytes.Equal(storedHash[:], localHash[:])
}

// DetectTextType returns true if data looks like text
func DetectTextType(data []byte) bool {
	if len(data) == 0 {
		return true
	}

	// Null bytes are a strong indicator of binary
	if bytes.IndexByte(data, 0) != -1 {
		return false
	}

	sampleSize := BinarySampleSize
	if len(data) < sampleSize {
		sampleSize = len(data)
	}
	sample := data[:sampleSize]

	if !utf8.Valid(sample) {
		return false
	}

	nonPrintable := 0
	for _, b := range sample {
		// Allow common whitespace: tab, newline, carriage return
		if b < 32 && b != 9 && b != 10 && b != 13 {
			nonPrintable++
		}
		if b == 127 {
			nonPrintable++
		}
	}

	return nonPrintable*100 <= len(sample)*BinaryThresholdPct
}

// GenerateUnifiedDiff generates a unified diff between the stored draft
// and a local file using the go-diff library. Returns the diff output,
// or an empty string if the contents are identical.
func GenerateUnifiedDiff(path string, stored, local []byte) (string, error) {
	if CompareDrafts(stored, local) {
		return "", nil
	}

	if !DetectTextType(stored) || !DetectTextType(local) {
		return fmt.Sprintf("Binary draft %s has changed\n", path), nil
	}

	dmp := diffmatchpatch.New()

	// Line-mode diff for better output
	storedStr, localStr := string(stored), string(local)
	a, b, lineArray := dmp.DiffLinesToChars(storedStr, localStr)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	patches := dmp.PatchMake(storedStr, diffs)
	if len(patches) == 0 {
		return "", nil
	}

	var result strings.Builder
	result.WriteString(fmt.Sprintf("--- a/%s (stored draft)\n", path))
	result.WriteString(fmt.Sprintf("+++ b/%s\n", path))
	result.WriteString(dmp.PatchToText(patches))

	return result.String(), nil
}
