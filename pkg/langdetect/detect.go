// Package langdetect decides whether a file holds CoffeeScript, and which
// flavour. Discovery uses it for files whose extension alone is not
// conclusive, such as executable scripts without an extension.
package langdetect

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Kind classifies a file for conversion.
type Kind int

const (
	// KindNone is anything decaf does not convert.
	KindNone Kind = iota

	// KindCoffee is plain CoffeeScript.
	KindCoffee

	// KindLiterate is Literate CoffeeScript: Markdown whose indented code
	// blocks are the program.
	KindLiterate
)

// enry language names.
const (
	langCoffee   = "CoffeeScript"
	langLiterate = "Literate CoffeeScript"
)

func (k Kind) String() string {
	switch k {
	case KindCoffee:
		return "coffee"
	case KindLiterate:
		return "literate"
	default:
		return "none"
	}
}

// Extensions lists the suffixes decaf recognizes without looking at content.
//
//nolint:gochecknoglobals // read-only table
var Extensions = map[string]Kind{
	".coffee":    KindCoffee,
	".litcoffee": KindLiterate,
	".coffee.md": KindLiterate,
}

// DetectPath classifies a file by name, falling back to content when the
// name says nothing.
func DetectPath(path string, content []byte) Kind {
	if kind := ByExtension(path); kind != KindNone {
		return kind
	}
	if filepath.Ext(path) != "" {
		// A known non-CoffeeScript extension wins over content guessing.
		return KindNone
	}
	return Detect(content)
}

// ByExtension classifies path by its suffix alone.
func ByExtension(path string) Kind {
	lower := strings.ToLower(filepath.Base(path))
	for ext, kind := range Extensions {
		if strings.HasSuffix(lower, ext) {
			return kind
		}
	}
	return fromEnry(enry.GetLanguageByExtension(path))
}

// Detect classifies content with no usable file name.
//
// Strategies, most reliable first: shebang, then characteristic syntax,
// then the enry classifier restricted to plausible candidates.
func Detect(content []byte) Kind {
	if len(bytes.TrimSpace(content)) == 0 {
		return KindNone
	}

	if lang, safe := enry.GetLanguageByShebang(content); lang != "" {
		if !safe {
			return KindNone
		}
		return fromEnry(lang, true)
	}

	if looksLikeCoffee(content) {
		return KindCoffee
	}

	candidates := []string{langCoffee, "JavaScript", "Python", "Ruby", "Shell"}
	return fromEnry(enry.GetLanguageByClassifier(content, candidates))
}

func fromEnry(lang string, safe bool) Kind {
	if !safe {
		return KindNone
	}
	switch lang {
	case langCoffee:
		return KindCoffee
	case langLiterate:
		return KindLiterate
	default:
		return KindNone
	}
}

// looksLikeCoffee matches constructs no other candidate language writes:
// arrow functions bound to names and class bodies with '@' members.
func looksLikeCoffee(content []byte) bool {
	for line := range strings.SplitSeq(string(content), "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasSuffix(trimmed, "->"), strings.HasSuffix(trimmed, "=>"):
			if strings.Contains(trimmed, "=") || strings.Contains(trimmed, ":") {
				return true
			}
		case strings.HasPrefix(trimmed, "@") && strings.Contains(trimmed, ":"):
			return true
		}
	}
	return false
}
