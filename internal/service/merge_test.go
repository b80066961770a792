package service

import (
	"testing"
	"time"
)

func TestMergeString(t *testing.T) {
	if got := mergeString("kept", ""); got != "kept" {
		t.Errorf("blank remote: got %q", got)
	}
	if got := mergeString("kept", "   "); got != "kept" {
		t.Errorf("whitespace remote: got %q", got)
	}
	if got := mergeString("old", "new"); got != "new" {
		t.Errorf("non-empty remote: got %q", got)
	}
	if got := mergeString("", "new"); got != "new" {
		t.Errorf("empty local: got %q", got)
	}
}

func TestMergePtr(t *testing.T) {
	local := "kept"
	if got := mergePtr(&local, ""); got == nil || *got != "kept" {
		t.Errorf("blank remote: got %v", got)
	}
	if got := mergePtr(nil, ""); got != nil {
		t.Errorf("nil local, blank remote: got %v", got)
	}
	if got := mergePtr(&local, " new "); got == nil || *got != "new" {
		t.Errorf("remote should be trimmed: got %v", got)
	}
	if got := mergePtr(nil, "new"); got == nil || *got != "new" {
		t.Errorf("nil local, non-empty remote: got %v", got)
	}
}

func TestMergeTime(t *testing.T) {
	older := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	var zero time.Time

	if got := mergeTime(&older, nil); got != &older {
		t.Errorf("nil remote: got %v", got)
	}
	if got := mergeTime(&older, &zero); got != &older {
		t.Errorf("zero remote: got %v", got)
	}
	if got := mergeTime(&older, &newer); got != &newer {
		t.Errorf("set remote: got %v", got)
	}
	if got := mergeTime(nil, &newer); got != &newer {
		t.Errorf("nil local: got %v", got)
	}
}
