// Copyright 2024-2025 NetCracker Technology Corporation
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package service

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/Netcracker/qubership-weblogic-audit-service/view"
)

// errorPatterns marks a line as error-like when any of them matches anywhere
// in it. Matching is existence-only, nothing is extracted.
var errorPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bERROR\b`),
	regexp.MustCompile(`\bException\b`),
	regexp.MustCompile(`\bFATAL\b`),
	regexp.MustCompile(`\bSEVERE\b`),
	regexp.MustCompile(`Traceback \(most recent call last\):`),
	regexp.MustCompile(`\bCaused by:`),
}

type normalizerRule struct {
	pattern     *regexp.Regexp
	replacement string
}

// normalizerRules rewrite volatile tokens to fixed placeholders. The rules
// are applied strictly in order, each one on the output of the previous;
// whitespace collapsing must stay last.
var normalizerRules = []normalizerRule{
	{regexp.MustCompile(`\d{4}-\d{2}-\d{2}[ T]\d{2}:\d{2}:\d{2}(?:,\d+)?`), "<TIMESTAMP>"},
	{regexp.MustCompile(`\b\d{2}:\d{2}:\d{2}\b`), "<TIME>"},
	{regexp.MustCompile(`\b\d+\b`), "<NUM>"},
	{regexp.MustCompile(`0x[0-9a-fA-F]+`), "<HEX>"},
	{regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`), "<IP>"},
	{regexp.MustCompile(`[A-Za-z]:\\[^\s]+|/[^\s]+`), "<PATH>"},
	{regexp.MustCompile(`\bPID=\d+\b`), "PID=<NUM>"},
	{regexp.MustCompile(`\bthread-\d+\b`), "thread-<NUM>"},
	{regexp.MustCompile(`\s+`), " "},
}

var signatureSanitizer = regexp.MustCompile(`[^a-zA-Z0-9]`)

const signatureMaxLen = 50

const (
	contextLinesBefore = 3
	contextLinesAfter  = 3
)

// IsErrorLine reports whether the line looks like the start of an error.
func IsErrorLine(line string) bool {
	for _, p := range errorPatterns {
		if p.MatchString(line) {
			return true
		}
	}
	return false
}

// NormalizeMessage rewrites volatile substrings (timestamps, ids, addresses,
// paths) to placeholders so that variants of the same error compare equal.
// The function is deterministic and idempotent.
func NormalizeMessage(msg string) string {
	text := msg
	for _, rule := range normalizerRules {
		text = rule.pattern.ReplaceAllString(text, rule.replacement)
	}
	return strings.TrimSpace(text)
}

// StableSignature derives a short filesystem/key-safe group key from a
// normalized message. Distinct long messages sharing a 50-char prefix
// collide into one group; the readable key is preferred over a hash.
func StableSignature(normalized string) string {
	sig := signatureSanitizer.ReplaceAllString(normalized, "_")
	if len(sig) > signatureMaxLen {
		sig = sig[:signatureMaxLen]
	}
	return sig
}

// GetContext returns up to before+after+1 raw lines around index, clamped at
// the file boundaries, joined with newlines.
func GetContext(lines []string, index int, before int, after int) string {
	start := index - before
	if start < 0 {
		start = 0
	}
	end := index + after + 1
	if end > len(lines) {
		end = len(lines)
	}
	return strings.Join(lines[start:end], "\n")
}

// ParseLogLines scans the lines of one file and accumulates error groups
// keyed by stable signature, in first-seen order. No filtering is applied
// here.
func ParseLogLines(lines []string) []view.ErrorGroup {
	groups := make(map[string]*view.ErrorGroup)
	order := make([]string, 0)

	for i, line := range lines {
		line = strings.TrimRight(line, "\n")
		if !IsErrorLine(line) {
			continue
		}
		normalized := NormalizeMessage(line)
		sig := StableSignature(normalized)
		group, ok := groups[sig]
		if !ok {
			group = &view.ErrorGroup{
				Signature:             sig,
				RepresentativeMessage: strings.TrimSpace(line),
				Severity:              view.DefaultSeverity,
			}
			groups[sig] = group
			order = append(order, sig)
		}
		group.Count++
		group.Occurrences = append(group.Occurrences, view.Occurrence{
			OriginalMessage: strings.TrimSpace(line),
			LineNumber:      i + 1,
			Context:         GetContext(lines, i, contextLinesBefore, contextLinesAfter),
		})
	}

	result := make([]view.ErrorGroup, 0, len(order))
	for _, sig := range order {
		result = append(result, *groups[sig])
	}
	return result
}

// FilterGroups applies the optional post-pass: drop groups below minCount,
// stable-sort by count descending, then keep the first topK. Zero values
// disable the corresponding step.
func FilterGroups(groups []view.ErrorGroup, minCount int, topK int) []view.ErrorGroup {
	if minCount > 0 {
		kept := make([]view.ErrorGroup, 0, len(groups))
		for _, g := range groups {
			if g.Count >= minCount {
				kept = append(kept, g)
			}
		}
		groups = kept
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Count > groups[j].Count
	})
	if topK > 0 && len(groups) > topK {
		groups = groups[:topK]
	}
	return groups
}

// ReadLogLines reads a file into lines, permissively: invalid UTF-8 bytes
// are dropped instead of failing the read.
func ReadLogLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	var lines []string
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		lines = append(lines, strings.ToValidUTF8(line, ""))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read log file %s: %w", path, err)
	}
	return lines, nil
}
