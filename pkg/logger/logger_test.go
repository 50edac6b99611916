package logger

import "testing"

func TestInitLevels(t *testing.T) {
	cases := map[string]string{
		"debug":   "debug",
		"DEBUG":   "debug",
		" warn ":  "warn",
		"error":   "error",
		"fatal":   "fatal",
		"bogus":   "info",
		"":        "info",
		"warning": "info",
	}
	for in, want := range cases {
		Init(in)
		if got := LevelString(); got != want {
			t.Fatalf("Init(%q): level = %q, want %q", in, got, want)
		}
	}
	Init("info")
}
