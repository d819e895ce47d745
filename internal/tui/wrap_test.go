package tui

import "testing"

func TestWrapTextBreaksAtSpaces(t *testing.T) {
	got := wrapText("aa bb cc", 5)
	if got != "aa bb\ncc" {
		t.Fatalf("unexpected wrap: %q", got)
	}
}

func TestWrapTextMovesPartialWord(t *testing.T) {
	got := wrapText("aa bbbb", 5)
	if got != "aa\nbbbb" {
		t.Fatalf("unexpected wrap: %q", got)
	}
}

func TestWrapTextSplitsLongWords(t *testing.T) {
	got := wrapText("abcdefg", 3)
	if got != "abc\ndef\ng" {
		t.Fatalf("unexpected wrap: %q", got)
	}
}

func TestWrapTextKeepsExistingLines(t *testing.T) {
	got := wrapText("one\ntwo three", 5)
	if got != "one\ntwo\nthree" {
		t.Fatalf("unexpected wrap: %q", got)
	}
}

func TestWrapTextUsesDisplayWidth(t *testing.T) {
	got := wrapText("世界 世界", 4)
	if got != "世界\n世界" {
		t.Fatalf("unexpected wrap: %q", got)
	}
}

func TestWrapTextZeroWidth(t *testing.T) {
	if got := wrapText("a b", 0); got != "a b" {
		t.Fatalf("expected text unchanged, got %q", got)
	}
}
