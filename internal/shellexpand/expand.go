// SPDX-License-Identifier: MPL-2.0

// Package shellexpand performs the shell-style expansion applied to manifest
// tokens, preload entries and configured environment values.
//
// Supported forms are a leading "~" (home directory), $NAME and ${NAME}, plus
// whatever else the POSIX here-document grammar expands (${NAME:-default},
// arithmetic). A simple reference to a variable that is not set is kept as
// literal text. Input that fails to parse or expand is returned unchanged.
// Command substitution is never executed.
package shellexpand

import (
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/syntax"
)

type (
	// Environment supplies variable values for expansion.
	Environment interface {
		Lookup(name string) (string, bool)
	}

	// Map is an Environment backed by a plain map.
	Map map[string]string
)

// Lookup implements Environment.
func (m Map) Lookup(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

// Expand expands s against env.
func Expand(s string, env Environment) string {
	s = expandTilde(s, env)
	if !strings.Contains(s, "$") {
		return s
	}

	word, err := syntax.NewParser().Document(strings.NewReader(s))
	if err != nil || word == nil {
		return s
	}
	keepUnresolved(word, s, env)

	cfg := &expand.Config{
		Env: expand.FuncEnviron(func(name string) string {
			v, _ := env.Lookup(name)
			return v
		}),
	}
	out, err := expand.Document(cfg, word)
	if err != nil {
		return s
	}
	return out
}

// ExpandAll expands every element of list, preserving order.
func ExpandAll(list []string, env Environment) []string {
	if list == nil {
		return nil
	}
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = Expand(s, env)
	}
	return out
}

// expandTilde replaces a leading "~" that stands alone or precedes a "/".
// "~user" forms are left as they are.
func expandTilde(s string, env Environment) string {
	if s != "~" && !strings.HasPrefix(s, "~/") {
		return s
	}
	home, ok := env.Lookup("HOME")
	if !ok || home == "" {
		return s
	}
	return home + s[1:]
}

// keepUnresolved swaps every plain $NAME or ${NAME} whose variable is unset for
// a literal holding its source text.
func keepUnresolved(word *syntax.Word, src string, env Environment) {
	for i, part := range word.Parts {
		pe, ok := part.(*syntax.ParamExp)
		if !ok || !isPlainRef(pe) {
			continue
		}
		if _, set := env.Lookup(pe.Param.Value); set {
			continue
		}
		start, end := int(pe.Pos().Offset()), int(pe.End().Offset())
		if start < 0 || end > len(src) || start >= end {
			continue
		}
		word.Parts[i] = &syntax.Lit{
			ValuePos: pe.Pos(),
			ValueEnd: pe.End(),
			Value:    escapeBackslashes(src[start:end]),
		}
	}
}

func isPlainRef(pe *syntax.ParamExp) bool {
	if pe.Param == nil {
		return false
	}
	return !pe.Excl && !pe.Length && !pe.Width &&
		pe.Index == nil && pe.Slice == nil && pe.Repl == nil &&
		pe.Names == 0 && pe.Exp == nil
}

// escapeBackslashes protects backslashes from here-document unescaping.
func escapeBackslashes(s string) string {
	return strings.ReplaceAll(s, `\`, `\\`)
}
