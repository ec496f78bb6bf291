// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipaura

package zipaura

import (
	"fmt"
	"strings"

	"github.com/woozymasta/pathrules"
)

// ruleMatcher holds compiled path rules.
type ruleMatcher struct {
	matcher *pathrules.Matcher
}

// ParseRules converts gitignore-style patterns to ordered rules.
// A leading "!" turns a pattern into an exclude rule; blank patterns are dropped.
func ParseRules(patterns ...string) []pathrules.Rule {
	rules := make([]pathrules.Rule, 0, len(patterns))
	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		action := pathrules.ActionInclude
		if strings.HasPrefix(pattern, "!") {
			action = pathrules.ActionExclude
			pattern = strings.TrimSpace(pattern[1:])
		}

		if pattern == "" {
			continue
		}

		rules = append(rules, pathrules.Rule{Action: action, Pattern: pattern})
	}

	return rules
}

// newRuleMatcher compiles path rules; empty rule set yields nil matcher.
func newRuleMatcher(rules []pathrules.Rule, opts pathrules.MatcherOptions) (*ruleMatcher, error) {
	rules = normalizeRules(rules)
	if len(rules) == 0 {
		return nil, nil
	}

	matcher, err := pathrules.NewMatcher(rules, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: compile rules: %w", ErrInvalidRules, err)
	}

	return &ruleMatcher{matcher: matcher}, nil
}

// normalizeRules normalizes rule patterns and drops empty patterns.
func normalizeRules(rules []pathrules.Rule) []pathrules.Rule {
	normalized := make([]pathrules.Rule, 0, len(rules))
	for _, rule := range rules {
		pattern := normalizePathForMatching(rule.Pattern)
		if pattern == "" {
			continue
		}

		normalized = append(normalized, pathrules.Rule{
			Action:  rule.Action,
			Pattern: pattern,
		})
	}

	return normalized
}

// Match reports whether path is included by rules.
func (m *ruleMatcher) Match(p string, isDir bool) bool {
	if m == nil || m.matcher == nil {
		return false
	}

	candidate := NormalizePath(p)
	if candidate == "" {
		return false
	}

	return m.matcher.Included(candidate, isDir)
}

// Search keeps entries whose path contains query, ignoring case.
// Empty query keeps everything.
func Search(entries []Entry, query string) []Entry {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return entries
	}

	out := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		if strings.Contains(strings.ToLower(entry.Path), query) {
			out = append(out, entry)
		}
	}

	return out
}

// Match keeps entries included by ordered path rules (glob search).
// Matching is case-insensitive and excludes anything no rule includes.
func Match(entries []Entry, rules []pathrules.Rule) ([]Entry, error) {
	matcher, err := newRuleMatcher(rules, pathrules.MatcherOptions{
		CaseInsensitive: true,
		DefaultAction:   pathrules.ActionExclude,
	})
	if err != nil {
		return nil, err
	}

	if matcher == nil {
		return entries, nil
	}

	return filterEntriesByMatcher(entries, matcher), nil
}

// filterEntriesByMatcher keeps entries included by compiled matcher.
func filterEntriesByMatcher(entries []Entry, matcher *ruleMatcher) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		if matcher.Match(entry.Path, entry.IsDir) {
			out = append(out, entry)
		}
	}

	return out
}

// FilterPrefix keeps entries under prefix (or exact match if it points to a file).
func FilterPrefix(entries []Entry, prefix string) []Entry {
	prefix = NormalizePath(prefix)
	if prefix == "" {
		return entries
	}

	out := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		if hasDirPrefix(NormalizePath(entry.Path), prefix) {
			out = append(out, entry)
		}
	}

	return out
}

// filterFiles drops explicit directory records.
func filterFiles(entries []Entry) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir {
			out = append(out, entry)
		}
	}

	return out
}
