package rank

import (
	"strings"
	"testing"

	"github.com/Paintersrp/rip/internal/snapshot"
)

func TestScore(t *testing.T) {
	tests := []struct {
		query  string
		target string
		match  bool
	}{
		{"", "anything", true},
		{"chr", "chrome", true},
		{"CHR", "chrome", true},
		{"cme", "chrome", true},
		{"emc", "chrome", false},
		{"toolong", "tool", false},
		{"x", "", false},
	}

	for _, tt := range tests {
		got := Score(tt.query, tt.target)
		if tt.match && got <= 0 {
			t.Fatalf("Score(%q, %q) = %d, expected a match", tt.query, tt.target, got)
		}
		if !tt.match && got != 0 {
			t.Fatalf("Score(%q, %q) = %d, expected 0", tt.query, tt.target, got)
		}
	}
}

func TestScoreRewardsContiguityAndPrefix(t *testing.T) {
	contiguous := Score("node", "node")
	gapped := Score("node", "nxoxdxe")
	if contiguous <= gapped {
		t.Fatalf("expected contiguous %d > gapped %d", contiguous, gapped)
	}

	prefix := Score("code", "code-helper")
	middle := Score("code", "vscode")
	if prefix <= middle {
		t.Fatalf("expected prefix %d > middle %d", prefix, middle)
	}

	boundary := Score("h", "code-helper")
	inner := Score("h", "chrome")
	if boundary <= inner {
		t.Fatalf("expected word boundary %d > inner %d", boundary, inner)
	}
}

func TestScoreMatchesPortStrings(t *testing.T) {
	e := snapshot.Entity{PID: 1, Name: "node", Ports: []uint16{3000, 9229}}
	if got := scoreEntity(e, "922"); got <= 0 {
		t.Fatalf("expected port 9229 to match, got %d", got)
	}
	if got := scoreEntity(e, "8080"); got != 0 {
		t.Fatalf("expected no match, got %d", got)
	}
	if got := scoreEntity(e, "NODE"); got != Score("node", "node") {
		t.Fatalf("expected case-insensitive name match, got %d", got)
	}
}

func TestScoreStaysPositiveForLongTargets(t *testing.T) {
	long := "a" + strings.Repeat("x", 400)
	if got := Score("a", long); got <= 0 {
		t.Fatalf("expected positive score for a long match, got %d", got)
	}
}

func TestParseSortField(t *testing.T) {
	tests := map[string]SortField{
		"":       SortCPU,
		"cpu":    SortCPU,
		"MEM":    SortMem,
		"memory": SortMem,
		"pid":    SortPID,
		"name":   SortName,
		"port":   SortPort,
	}
	for in, want := range tests {
		got, err := ParseSortField(in)
		if err != nil || got != want {
			t.Fatalf("ParseSortField(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseSortField("uptime"); err == nil {
		t.Fatalf("expected error for unknown sort field")
	}
	if SortPort.Next() != SortCPU || SortCPU.Next() != SortMem {
		t.Fatalf("unexpected Next cycle")
	}
}
