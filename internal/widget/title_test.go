package widget

import (
	"reflect"
	"testing"
)

func TestTitleScannerSingleChunk(t *testing.T) {
	var s titleScanner

	titles := s.Feed([]byte("hello\x1b]0;my title\x07world"))
	if !reflect.DeepEqual(titles, []string{"my title"}) {
		t.Fatalf("unexpected titles: %v", titles)
	}
}

func TestTitleScannerSplitAcrossChunks(t *testing.T) {
	var s titleScanner

	if titles := s.Feed([]byte("output\x1b]2;par")); titles != nil {
		t.Fatalf("incomplete sequence should yield nothing, got %v", titles)
	}
	if titles := s.Feed([]byte("tial ti")); titles != nil {
		t.Fatalf("still incomplete, got %v", titles)
	}
	titles := s.Feed([]byte("tle\x07"))
	if !reflect.DeepEqual(titles, []string{"partial title"}) {
		t.Fatalf("unexpected titles: %v", titles)
	}
}

func TestTitleScannerSplitEscapeByte(t *testing.T) {
	var s titleScanner

	if titles := s.Feed([]byte("abc\x1b")); titles != nil {
		t.Fatalf("lone escape should yield nothing, got %v", titles)
	}
	titles := s.Feed([]byte("]0;x\x07"))
	if !reflect.DeepEqual(titles, []string{"x"}) {
		t.Fatalf("unexpected titles: %v", titles)
	}
}

func TestTitleScannerStringTerminator(t *testing.T) {
	var s titleScanner

	titles := s.Feed([]byte("\x1b]2;via st\x1b\\rest"))
	if !reflect.DeepEqual(titles, []string{"via st"}) {
		t.Fatalf("unexpected titles: %v", titles)
	}
}

func TestTitleScannerPreservesOrder(t *testing.T) {
	var s titleScanner

	titles := s.Feed([]byte("\x1b]0;first\x07mid\x1b]2;second\x07\x1b]0;third\x07"))
	if !reflect.DeepEqual(titles, []string{"first", "second", "third"}) {
		t.Fatalf("unexpected titles: %v", titles)
	}
}

func TestTitleScannerSkipsNonTitleOSC(t *testing.T) {
	var s titleScanner

	// OSC 7 (cwd report) and OSC 1 (icon name) carry no tab title.
	titles := s.Feed([]byte("\x1b]7;file:///tmp\x07\x1b]1;icon\x07\x1b]0;real\x07"))
	if !reflect.DeepEqual(titles, []string{"real"}) {
		t.Fatalf("unexpected titles: %v", titles)
	}
}

func TestTitleScannerSkipsMultiDigitOSCCodes(t *testing.T) {
	var s titleScanner

	// OSC 21 starts with '2' but is not a set-title code; its payload
	// must not leak out as a title.
	titles := s.Feed([]byte("\x1b]21;not a title\x07\x1b]04;also not\x07\x1b]2;real\x07"))
	if !reflect.DeepEqual(titles, []string{"real"}) {
		t.Fatalf("unexpected titles: %v", titles)
	}
}

func TestTitleScannerDropsOverlongSequence(t *testing.T) {
	var s titleScanner

	junk := make([]byte, maxTitleBytes+64)
	for i := range junk {
		junk[i] = 'a'
	}

	if titles := s.Feed(append([]byte("\x1b]0;"), junk...)); titles != nil {
		t.Fatalf("unterminated junk should yield nothing, got %v", titles)
	}
	// The scanner recovered; later titles still come through.
	titles := s.Feed([]byte("\x1b]0;after\x07"))
	if !reflect.DeepEqual(titles, []string{"after"}) {
		t.Fatalf("unexpected titles: %v", titles)
	}
}
