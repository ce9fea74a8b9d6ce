package rule

// Builtins returns every rule shipped with ilint.
func Builtins() []Source {
	srcs := []Source{
		Builtin{Name: "resource-unique-keys", New: NewUniqueKeys},
		Builtin{Name: "resource-no-translation", New: NewNoTranslation},
		Builtin{Name: "resource-no-double-byte-space", New: NewNoDoubleByteSpace},
		Builtin{Name: "resource-snake-case", New: NewSnakeCase},
		Builtin{Name: "resource-camel-case", New: NewCamelCase},
		Builtin{Name: "source-no-deprecated-api", New: NewDeprecatedAPI},
	}
	for _, d := range builtinDefinitions {
		srcs = append(srcs, d)
	}
	return srcs
}

var builtinDefinitions = []Definition{
	{
		Type:        KindResourceMatcher,
		Name:        "resource-url-match",
		Description: "Ensure that URLs that appear in the source string are also used in the translated string",
		Note:        "URL '{matchString}' from the source string does not appear in the target string",
		Regexps:     []string{`((https?|github|ftps?|mailto|file|data|irc)://)([\da-zA-Z.-]+)\.([a-zA-Z.]{2,6})([/\w.-]*)*/?`},
		Severity:    "error",
		Link:        docLink("resource-url-match"),
	},
	{
		Type:        KindResourceMatcher,
		Name:        "resource-named-params",
		Description: "Ensure that named parameters that appear in the source string are also used in the translated string",
		Note:        "The named parameter '{matchString}' from the source string does not appear in the target string",
		Regexps:     []string{`\{\w+\}`},
		Severity:    "error",
		Link:        docLink("resource-named-params"),
	},
	{
		Type:        KindResourceTarget,
		Name:        "resource-no-fullwidth-latin",
		Description: "Ensure that the target does not contain any full-width Latin characters",
		Note:        "The full-width characters '{matchString}' are not allowed in the target string. Use ASCII letters instead.",
		Regexps:     []string{`[\x{FF21}-\x{FF3A}\x{FF41}-\x{FF5A}]+`},
		Severity:    "warning",
		Link:        docLink("resource-no-fullwidth-latin"),
	},
	{
		Type:        KindResourceSource,
		Name:        "resource-no-escaped-unicode",
		Description: "Ensure that source strings do not contain escaped Unicode characters",
		Note:        "Escaped unicode sequence '{matchString}' found in the source string. Use the actual character instead.",
		Regexps:     []string{`\\u[0-9a-fA-F]{4}`},
		Severity:    "warning",
		Link:        docLink("resource-no-escaped-unicode"),
	},
	{
		Type:        KindSourceChecker,
		Name:        "source-no-normalize",
		Description: "Ensure that the normalize function is not called on strings",
		Note:        "Do not call String.normalize(); '{matchString}' is not reliable across platforms. Use a normalization library instead.",
		Regexps:     []string{`\.normalize\s*\(`},
		Severity:    "warning",
		Link:        docLink("source-no-normalize"),
	},
	{
		Type:        KindSourceChecker,
		Name:        "source-no-deprecated-loctext",
		Description: "Ensure that the deprecated LocText class is not used",
		Note:        "'{matchString}' uses the deprecated LocText class. Use a resource bundle instead.",
		Regexps:     []string{`new\s+LocText\s*\(`},
		Severity:    "error",
		Link:        docLink("source-no-deprecated-loctext"),
	},
}

// BuiltinRuleSets returns the rule sets shipped with ilint.
func BuiltinRuleSets() map[string]RuleSet {
	resource := RuleSet{
		{Rule: "resource-url-match", Value: true},
		{Rule: "resource-named-params", Value: true},
		{Rule: "resource-unique-keys", Value: true},
		{Rule: "resource-no-translation", Value: true},
		{Rule: "resource-no-double-byte-space", Value: true},
		{Rule: "resource-snake-case", Value: true},
		{Rule: "resource-camel-case", Value: true},
		{Rule: "resource-no-fullwidth-latin", Value: true},
		{Rule: "resource-no-escaped-unicode", Value: true},
	}
	src := RuleSet{
		{Rule: "source-no-normalize", Value: true},
		{Rule: "source-no-deprecated-loctext", Value: true},
		{Rule: "source-no-deprecated-api", Value: true},
	}
	return map[string]RuleSet{
		"resource": resource,
		"source":   src,
		"generic":  append(append(RuleSet(nil), resource...), src...),
	}
}
