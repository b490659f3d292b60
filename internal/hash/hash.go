// Package hash computes the stable content hash that identifies a finding
// across analysis runs. The hash must survive unrelated line shifts in the
// file and position references embedded in the qualifier text, so only
// movement-invariant inputs participate.
package hash

import (
	"crypto/md5"
	"encoding/hex"
	"io"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	positionRe   = regexp.MustCompile(`(?i)\b(line|column)\s+\d+`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// NormalizeQualifier masks `line N` and `column N` references so the exact
// source position does not leak into the finding identity.
func NormalizeQualifier(qualifier string) string {
	return positionRe.ReplaceAllStringFunc(qualifier, func(m string) string {
		word := strings.Fields(m)[0]
		return word + " $_"
	})
}

// NormalizeProcName collapses cosmetic whitespace in a procedure signature
// so formatting-only changes do not alter the hash.
func NormalizeProcName(procName string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(procName, " "))
}

// Compute builds the stable identity digest for a finding. Two findings
// with the same kind, type, normalized procedure, base filename and
// normalized qualifier hash identically even when their absolute line
// numbers differ.
func Compute(kind, typeID, procName, filename, qualifier string) string {
	h := md5.New()
	fields := []string{
		kind,
		typeID,
		NormalizeProcName(procName),
		filepath.Base(filename),
		NormalizeQualifier(qualifier),
	}
	io.WriteString(h, strings.Join(fields, "|"))
	return hex.EncodeToString(h.Sum(nil))
}
