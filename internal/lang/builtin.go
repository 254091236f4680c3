package lang

// builtins are defined by every new Registry.
var builtins = []*File{regexLanguage, formatLanguage}

// regexLanguage highlights regular expressions in .NET syntax.
var regexLanguage = &File{
	Name: "regex",
	Spans: []Span{
		{Name: "comment", Start: `\(\?#`, End: `\)`, Appearance: Appearance{Style: "comment"}},
		{
			Name: "class", Start: `\[\^?`, End: `(?<!\\)\]`,
			Appearance: Appearance{Style: "string"},
			Tokens: []Token{
				{Name: "escape", Pattern: `\\.`, Appearance: Appearance{Style: "string.escape"}},
				{Name: "range", Pattern: `(?<=.)-(?=.)`, Appearance: Appearance{Style: "operator"}},
			},
		},
	},
	Tokens: []Token{
		{Name: "escape", Pattern: `\\(?:[pP]\{\w+\}|u[0-9A-Fa-f]{4}|x[0-9A-Fa-f]{2}|c[A-Za-z]|k<\w+>|\d+|.)`, Appearance: Appearance{Style: "string.escape"}},
		{Name: "group", Pattern: `\((?:\?(?:[:=!>]|<[=!]|<\w+>|'\w+'|[imnsx-]+:?))?`, Appearance: Appearance{Style: "punctuation"}},
		{Name: "group-end", Pattern: `\)`, Appearance: Appearance{Style: "punctuation"}},
		{Name: "quantifier", Pattern: `(?:[*+?]|\{\d+(?:,\d*)?\})\??`, Appearance: Appearance{Style: "keyword"}},
		{Name: "alternation", Pattern: `\|`, Appearance: Appearance{Style: "operator"}},
		{Name: "anchor", Pattern: `[\^$]`, Appearance: Appearance{Style: "keyword"}},
		{Name: "any", Pattern: `\.`, Appearance: Appearance{Style: "operator"}},
	},
}

// formatLanguage highlights composite format strings, such as "{0,-10:N2}", where doubled
// braces stand for literal ones.
var formatLanguage = &File{
	Name: "format",
	Spans: []Span{
		{
			Name: "placeholder", Start: `(?<=(?:^|[^{])(?:\{\{)*)\{(?=\d)`, End: `\}`,
			Appearance: Appearance{Style: "keyword"},
			Tokens: []Token{
				{Name: "index", Pattern: `^\d+`, Appearance: Appearance{Style: "number"}},
				{Name: "alignment", Pattern: `,\s*-?\d+`, Appearance: Appearance{Style: "operator"}},
				{Name: "format", Pattern: `:.*`, Options: "s", Appearance: Appearance{Style: "string"}},
			},
		},
	},
	Tokens: []Token{
		{Name: "escape", Pattern: `\{\{|\}\}`, Appearance: Appearance{Style: "string.escape"}},
	},
}
