package rule

import (
	"fmt"
	"sync"

	"ilint/internal/diag"
	"ilint/internal/ir"
)

// UniqueKeys reports resources whose key is already used for the same
// locale elsewhere in the run. The first resource seen wins.
//
// The set of seen resources lives as long as the rule instance, which the
// Manager scopes to one run; Reset starts a new run. The set is guarded so
// that files may be evaluated concurrently.
type UniqueKeys struct {
	Info

	mu     sync.Mutex
	seen   map[string]*ir.Resource
	byFile map[string][]string
}

// NewUniqueKeys builds the resource-unique-keys rule.
func NewUniqueKeys(any) (Rule, error) {
	return &UniqueKeys{
		Info: Info{
			RuleName: "resource-unique-keys",
			Desc:     "Ensure that the keys are unique within a locale across all resource files",
			Sev:      diag.SevError,
			Type:     ir.TypeResource,
			URL:      docLink("resource-unique-keys"),
		},
		seen:   make(map[string]*ir.Resource),
		byFile: make(map[string][]string),
	}, nil
}

func (u *UniqueKeys) Match(p Params) ([]diag.Result, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	var out []diag.Result
	for _, res := range p.IR.Resources() {
		hash := res.Hash()
		if other, ok := u.seen[hash]; ok {
			r := u.resourceResult(p, res)
			r.Description = fmt.Sprintf("Key is not unique within locale %s.", res.Locale())
			r.Highlight = "Key is also defined in this file: " + other.Path
			out = append(out, r)
			continue
		}
		rec := res.Clone()
		rec.Path = p.FilePath
		u.seen[hash] = rec
		u.byFile[p.FilePath] = append(u.byFile[p.FilePath], hash)
	}
	return out, nil
}

// ForgetFile drops the resources recorded from path so a re-parse of the
// same file does not collide with its previous content.
func (u *UniqueKeys) ForgetFile(path string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, hash := range u.byFile[path] {
		if rec, ok := u.seen[hash]; ok && rec.Path == path {
			delete(u.seen, hash)
		}
	}
	delete(u.byFile, path)
}

func (u *UniqueKeys) Reset() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.seen = make(map[string]*ir.Resource)
	u.byFile = make(map[string][]string)
}
