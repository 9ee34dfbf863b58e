package main

import (
	"testing"
)

func TestParsePreviewScript(t *testing.T) {
	steps, err := parsePreviewScript("load=10, play, tick=2.5, seek=7, in, out, pause")
	if err != nil {
		t.Fatalf("parsePreviewScript: %v", err)
	}
	if len(steps) != 7 {
		t.Fatalf("steps = %d, want 7", len(steps))
	}
	if steps[0].op != "load" || steps[0].value != 10 {
		t.Fatalf("first step = %+v", steps[0])
	}
	if steps[2].op != "tick" || steps[2].value != 2.5 {
		t.Fatalf("tick step = %+v", steps[2])
	}
	if steps[4].op != "in" || steps[5].op != "out" {
		t.Fatalf("mark steps = %+v %+v", steps[4], steps[5])
	}
}

func TestParsePreviewScriptRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"missing value":       "load",
		"value on bare op":    "play=1",
		"unknown op":          "rewind=2",
		"unparseable seconds": "seek=abc",
		"empty script":        " , ",
	}
	for name, script := range cases {
		if _, err := parsePreviewScript(script); err == nil {
			t.Errorf("%s: expected error for %q", name, script)
		}
	}
}

func TestFormatTrimWindow(t *testing.T) {
	if got := formatTrimWindow(0, nil); got != "0..end" {
		t.Fatalf("got %q", got)
	}
	end := 5.25
	if got := formatTrimWindow(1.5, &end); got != "1.5..5.25" {
		t.Fatalf("got %q", got)
	}
}
