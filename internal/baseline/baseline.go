// Package baseline records the findings of a run so that later runs report
// only what is new.
//
// Findings are identified by a fingerprint that leaves out the line number,
// so unrelated edits that move a finding do not resurface it. The file is
// msgpack encoded and replaced atomically.
package baseline

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/vmihailenco/msgpack/v5"

	"ilint/internal/diag"
	"ilint/internal/source"
)

// DefaultFile is the baseline file name used when none is given.
const DefaultFile = ".ilint-baseline.mp"

// Current schema version; increment when the payload format changes.
const schemaVersion uint16 = 1

// ErrSchema is returned for baseline files written by an incompatible version.
var ErrSchema = errors.New("unsupported baseline schema")

// Digest is a SHA-256 fingerprint of a finding.
type Digest [32]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// Entry is one recorded finding.
type Entry struct {
	Fingerprint Digest
	Rule        string
	Path        string
	Line        int
}

// Payload is the on-disk form of a baseline.
type Payload struct {
	Schema  uint16
	Entries []Entry
}

// Baseline is a multiset of fingerprints: a finding recorded twice
// suppresses two matching findings.
type Baseline struct {
	root   string
	counts map[Digest]int
	size   int
}

// Fingerprint identifies r independently of its line. Paths are taken
// relative to root so a baseline survives moving the checkout.
func Fingerprint(root string, r diag.Result) Digest {
	h := sha256.New()
	for _, field := range []string{
		r.Rule,
		relPath(root, r.PathName),
		r.ID,
		r.Locale,
		r.Source,
		r.Target,
		r.Description,
	} {
		_, _ = h.Write([]byte(field))
		_, _ = h.Write([]byte{0})
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

func relPath(root, path string) string {
	if root == "" || !filepath.IsAbs(path) {
		return source.NormalizePath(path)
	}
	return source.RelativePath(path, root)
}

// New builds a baseline from results. Fixed results are left out.
func New(root string, results []diag.Result) *Baseline {
	b := &Baseline{root: root, counts: make(map[Digest]int)}
	for _, r := range results {
		if r.Fixed() {
			continue
		}
		b.counts[Fingerprint(root, r)]++
		b.size++
	}
	return b
}

// Len is the number of recorded findings.
func (b *Baseline) Len() int { return b.size }

// Filter returns the results the baseline does not cover, in their original
// order, and the number suppressed. Fixed results are always kept.
func (b *Baseline) Filter(results []diag.Result) ([]diag.Result, int) {
	remaining := make(map[Digest]int, len(b.counts))
	for d, n := range b.counts {
		remaining[d] = n
	}
	out := make([]diag.Result, 0, len(results))
	suppressed := 0
	for _, r := range results {
		if !r.Fixed() {
			d := Fingerprint(b.root, r)
			if remaining[d] > 0 {
				remaining[d]--
				suppressed++
				continue
			}
		}
		out = append(out, r)
	}
	return out, suppressed
}

// Write records results at path, replacing any previous baseline.
func Write(path, root string, results []diag.Result) error {
	payload := Payload{Schema: schemaVersion}
	for _, r := range results {
		if r.Fixed() {
			continue
		}
		payload.Entries = append(payload.Entries, Entry{
			Fingerprint: Fingerprint(root, r),
			Rule:        r.Rule,
			Path:        relPath(root, r.PathName),
			Line:        r.LineNumber,
		})
	}
	sort.SliceStable(payload.Entries, func(i, j int) bool {
		a, b := payload.Entries[i], payload.Entries[j]
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		return a.Line < b.Line
	})

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("write baseline: %w", err)
	}
	f, err := os.CreateTemp(filepath.Dir(path), ".baseline-*")
	if err != nil {
		return fmt.Errorf("write baseline: %w", err)
	}
	tmpName := f.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if err := msgpack.NewEncoder(f).Encode(&payload); err != nil {
		_ = f.Close()
		return fmt.Errorf("write baseline: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write baseline: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("write baseline: %w", err)
	}
	return nil
}

// Load reads the baseline at path. Paths in the file are relative to root.
func Load(path, root string) (*Baseline, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read baseline: %w", err)
	}
	defer func() { _ = f.Close() }()

	var payload Payload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, fmt.Errorf("read baseline %s: %w", path, err)
	}
	if payload.Schema != schemaVersion {
		return nil, fmt.Errorf("%w: %s has schema %d, want %d", ErrSchema, path, payload.Schema, schemaVersion)
	}
	b := &Baseline{root: root, counts: make(map[Digest]int, len(payload.Entries))}
	for _, e := range payload.Entries {
		b.counts[e.Fingerprint]++
		b.size++
	}
	return b, nil
}
