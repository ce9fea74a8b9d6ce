package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Resource is a single translation unit: a source string and, when the file
// has been translated, its target string.
type Resource struct {
	Key          string
	ID           string // format-level unit id, such as an XLIFF trans-unit id
	SourceLocale string
	Source       string
	TargetLocale string
	Target       string
	HasTarget    bool
	State        string
	Comment      string
	Datatype     string
	// Project names the group the resource belongs to inside its file,
	// such as the original attribute of an XLIFF file element.
	Project      string
	// Path is the file the resource was read from.
	Path string
	// Line is 1-based, 0 when unknown.
	Line int
}

// Hash identifies a resource for uniqueness checks. Two resources with the
// same key, locales and datatype collide even when their strings differ.
func (r *Resource) Hash() string {
	h := sha256.New()
	for _, part := range []string{r.Key, r.SourceLocale, r.TargetLocale, r.Datatype} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Clone returns a shallow copy.
func (r *Resource) Clone() *Resource {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}

// Locale returns the locale the resource should be checked against.
func (r *Resource) Locale() string {
	if strings.TrimSpace(r.TargetLocale) != "" {
		return r.TargetLocale
	}
	return r.SourceLocale
}
