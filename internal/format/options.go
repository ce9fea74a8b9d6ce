package format

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto shows paths relative to the base directory when they lie
	// inside it, as given otherwise.
	PathModeAuto PathMode = iota
	PathModeAbsolute
	PathModeBasename
)

// ParsePathMode maps a flag value to a PathMode.
func ParsePathMode(s string) (PathMode, bool) {
	switch s {
	case "", "auto", "relative":
		return PathModeAuto, true
	case "absolute":
		return PathModeAbsolute, true
	case "basename":
		return PathModeBasename, true
	}
	return PathModeAuto, false
}

// Options configure every formatter.
type Options struct {
	Color    bool
	PathMode PathMode
	// BaseDir is the project root used by PathModeAuto.
	BaseDir string
	// Describe returns the description of a rule by name; optional.
	Describe func(rule string) string
}
