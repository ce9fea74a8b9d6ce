package source

import (
	"bytes"
	"path/filepath"
	"strings"
)

// NormalizeCRLF replaces every \r\n with \n, leaving lone \r untouched.
// Reports whether anything was replaced.
func NormalizeCRLF(content []byte) ([]byte, bool) {
	if !strings.Contains(string(content), "\r\n") {
		return content, false
	}
	out := make([]byte, 0, len(content))
	for i := 0; i < len(content); i++ {
		if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
			continue
		}
		out = append(out, content[i])
	}
	return out, true
}

// RemoveBOM strips a leading UTF-8 byte order mark.
func RemoveBOM(content []byte) ([]byte, bool) {
	if len(content) >= 3 && content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:], true
	}
	return content, false
}

// Layout records the byte conventions Normalize removed from a file.
type Layout struct {
	BOM  bool
	CRLF bool
}

// Normalize strips a byte order mark and turns CRLF line endings into LF.
func Normalize(content []byte) ([]byte, Layout) {
	var l Layout
	content, l.BOM = RemoveBOM(content)
	content, l.CRLF = NormalizeCRLF(content)
	return content, l
}

// Restore puts back what Normalize removed. Files with mixed line endings
// come back with CRLF everywhere.
func (l Layout) Restore(content []byte) []byte {
	if l.CRLF {
		content = bytes.ReplaceAll(content, []byte("\n"), []byte("\r\n"))
	}
	if l.BOM {
		content = append([]byte{0xEF, 0xBB, 0xBF}, content...)
	}
	return content
}

// NormalizePath gives paths a single slash-separated form so that ordering
// is identical across platforms.
func NormalizePath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}

// RelativePath returns target relative to base, or the normalized target when
// it lies outside base.
func RelativePath(target, base string) string {
	if base == "" {
		return NormalizePath(target)
	}
	rel, err := filepath.Rel(base, target)
	if err != nil || strings.HasPrefix(rel, "..") {
		return NormalizePath(target)
	}
	return NormalizePath(rel)
}
