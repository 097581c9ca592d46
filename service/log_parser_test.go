package service

import (
	"regexp"
	"strings"
	"testing"

	"github.com/Netcracker/qubership-weblogic-audit-service/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsErrorLine(t *testing.T) {
	errorLines := []string{
		"2024-01-02 10:00:00 ERROR Connection refused",
		"java.lang.NullPointerException at com.example.Foo",
		"FATAL shutdown in progress",
		"<BEA-000337> <SEVERE> stuck thread detected",
		"Traceback (most recent call last):",
		"Caused by: java.net.ConnectException",
	}
	for _, line := range errorLines {
		assert.True(t, IsErrorLine(line), "expected error line: %s", line)
	}

	infoLines := []string{
		"",
		"   ",
		"INFO server started",
		"DEBUG heartbeat ok",
		"an error occurred", // lowercase does not match
		"ERRORS42",          // not a whole word
	}
	for _, line := range infoLines {
		assert.False(t, IsErrorLine(line), "expected non-error line: %s", line)
	}
}

func TestNormalizeMessage(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected string
	}{
		{"timestamp", "2024-01-02 10:00:00 ERROR boom", "<TIMESTAMP> ERROR boom"},
		{"timestamp with fraction", "2024-01-02T10:00:00,123 ERROR boom", "<TIMESTAMP> ERROR boom"},
		{"bare time", "at 10:05:33 ERROR boom", "at <TIME> ERROR boom"},
		{"integer", "ERROR retry 17 failed", "ERROR retry <NUM> failed"},
		{"hex", "ERROR at address 0xDEADbeef", "ERROR at address <HEX>"},
		{"unix path", "ERROR reading /var/log/server.log", "ERROR reading <PATH>"},
		{"windows path", `ERROR reading C:\logs\server.log`, "ERROR reading <PATH>"},
		{"thread id", "ERROR in thread-42", "ERROR in thread-<NUM>"},
		{"pid", "ERROR PID=1234 died", "ERROR PID=<NUM> died"},
		{"whitespace collapse", "ERROR   too \t many   spaces ", "ERROR too many spaces"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeMessage(tt.in))
		})
	}
}

func TestNormalizeMessageIsIdempotent(t *testing.T) {
	samples := []string{
		"",
		"plain text without anything volatile",
		"2024-01-02 10:00:00 ERROR Connection refused at 10.0.0.5 PID=1234",
		"ERROR 0xCAFE in /opt/weblogic/domains/prod/servers/ms1/logs/ms1.log thread-7",
		"SEVERE at 23:59:59 retry 3 of 5",
		"  mixed \t whitespace   and 42 numbers  ",
	}
	for _, s := range samples {
		once := NormalizeMessage(s)
		assert.Equal(t, once, NormalizeMessage(once), "normalization must be idempotent for %q", s)
	}
}

func TestStableSignature(t *testing.T) {
	sig := StableSignature("<TIMESTAMP> ERROR boom")
	assert.Equal(t, "_TIMESTAMP__ERROR_boom", sig)

	long := StableSignature(strings.Repeat("a b", 100))
	assert.Len(t, long, 50)

	safe := regexp.MustCompile(`^[A-Za-z0-9_]*$`)
	assert.True(t, safe.MatchString(StableSignature("éèê: weird/chars\\here")))

	// pure function of its input
	assert.Equal(t, StableSignature("x y"), StableSignature("x y"))
}

func TestGetContextClampsAtBoundaries(t *testing.T) {
	lines := []string{"l0", "l1", "l2", "l3", "l4", "l5", "l6", "l7", "l8", "l9"}

	first := GetContext(lines, 0, 3, 3)
	assert.Equal(t, "l0\nl1\nl2\nl3", first)
	assert.LessOrEqual(t, len(strings.Split(first, "\n")), 4)

	last := GetContext(lines, 9, 3, 3)
	assert.Equal(t, "l6\nl7\nl8\nl9", last)
	assert.LessOrEqual(t, len(strings.Split(last, "\n")), 4)

	middle := GetContext(lines, 5, 3, 3)
	assert.Equal(t, "l2\nl3\nl4\nl5\nl6\nl7\nl8", middle)

	single := GetContext([]string{"only"}, 0, 3, 3)
	assert.Equal(t, "only", single)
}

func TestParseLogLinesGroupsVariants(t *testing.T) {
	lines := []string{
		"2024-01-02 10:00:00 ERROR Connection refused at 10.0.0.5 id=77",
		"2024-01-03 11:22:33 ERROR Connection refused at 192.168.1.9 id=9001",
	}
	groups := ParseLogLines(lines)
	require.Len(t, groups, 1)
	assert.Equal(t, 2, groups[0].Count)
	assert.Equal(t, lines[0], groups[0].RepresentativeMessage)
	assert.Equal(t, NormalizeMessage(lines[0]), NormalizeMessage(lines[1]))
}

func TestParseLogLinesCountMatchesOccurrences(t *testing.T) {
	lines := []string{
		"ERROR alpha",
		"INFO noise",
		"ERROR alpha",
		"ERROR beta 12",
		"WARN more noise",
		"ERROR beta 99",
		"ERROR alpha",
	}
	groups := ParseLogLines(lines)
	require.Len(t, groups, 2)
	for _, g := range groups {
		assert.Equal(t, g.Count, len(g.Occurrences))
		assert.Equal(t, view.DefaultSeverity, g.Severity)
	}
	// first-seen order, not sorted
	assert.Equal(t, 3, groups[0].Count)
	assert.Equal(t, 2, groups[1].Count)
}

func TestParseLogLinesIgnoresInformationalFiles(t *testing.T) {
	lines := []string{
		"INFO server started",
		"DEBUG heartbeat",
		"INFO request served in 12ms",
	}
	assert.Empty(t, ParseLogLines(lines))
}

func TestFilterGroups(t *testing.T) {
	groups := []view.ErrorGroup{
		{Signature: "a", Count: 5},
		{Signature: "b", Count: 1},
		{Signature: "c", Count: 3},
	}

	filtered := FilterGroups(groups, 2, 0)
	require.Len(t, filtered, 2)
	assert.Equal(t, "a", filtered[0].Signature)
	assert.Equal(t, "c", filtered[1].Signature)

	topped := FilterGroups(groups, 2, 1)
	require.Len(t, topped, 1)
	assert.Equal(t, "a", topped[0].Signature)
}

func TestFilterGroupsStableSortOnTies(t *testing.T) {
	groups := []view.ErrorGroup{
		{Signature: "first", Count: 2},
		{Signature: "second", Count: 2},
		{Signature: "third", Count: 7},
	}
	filtered := FilterGroups(groups, 0, 0)
	require.Len(t, filtered, 3)
	assert.Equal(t, "third", filtered[0].Signature)
	assert.Equal(t, "first", filtered[1].Signature)
	assert.Equal(t, "second", filtered[2].Signature)
}

func TestFilterGroupsWithoutOptionsKeepsEverything(t *testing.T) {
	groups := []view.ErrorGroup{
		{Signature: "a", Count: 1},
		{Signature: "b", Count: 1},
	}
	filtered := FilterGroups(groups, 0, 0)
	assert.Len(t, filtered, 2)
}

func TestParseLogLinesEndToEnd(t *testing.T) {
	lines := []string{
		"INFO start",
		"2024-01-02 10:00:00 ERROR Connection refused at 10.0.0.5 PID=1234",
		"some other info",
		"2024-01-02 10:05:33 ERROR Connection refused at 10.0.0.9 PID=5678",
	}

	groups := ParseLogLines(lines)
	require.Len(t, groups, 1)

	group := groups[0]
	assert.Equal(t, 2, group.Count)
	assert.Equal(t, StableSignature(NormalizeMessage(lines[1])), group.Signature)
	assert.Equal(t, lines[1], group.RepresentativeMessage)

	require.Len(t, group.Occurrences, 2)
	assert.Equal(t, 2, group.Occurrences[0].LineNumber)
	assert.Equal(t, 4, group.Occurrences[1].LineNumber)

	// contexts are clamped to the file bounds, here the whole file
	wholeFile := strings.Join(lines, "\n")
	assert.Equal(t, wholeFile, group.Occurrences[0].Context)
	assert.Equal(t, wholeFile, group.Occurrences[1].Context)
}
