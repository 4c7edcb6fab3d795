package smarttime

import (
	"testing"
)

func TestDetect(t *testing.T) {
	cases := []struct {
		in        string
		wantTitle string
		wantMins  int
		wantOK    bool
	}{
		{"Write report 25", "Write report", 25, true},
		{"Stretch 10m", "Stretch", 10, true},
		{"Email inbox 15 min", "Email inbox", 15, true},
		{"Deep work 90 minutes", "Deep work", 90, true},
		{"Write report", "Write report", 0, false},
		{"25", "25", 0, false},          // Bare number stays a title
		{"Call room 101", "Call room", 101, true},
		{"Prep 0", "Prep 0", 0, false},  // Zero is not a duration
		{"", "", 0, false},
		{"   ", "   ", 0, false},
	}

	for _, tc := range cases {
		gotTitle, gotMins, gotOK := Detect(tc.in)
		if gotOK != tc.wantOK {
			t.Errorf("Detect(%q) ok = %v, want %v", tc.in, gotOK, tc.wantOK)
			continue
		}
		if !gotOK {
			continue
		}
		if gotTitle != tc.wantTitle || gotMins != tc.wantMins {
			t.Errorf("Detect(%q) = %q, %d; want %q, %d", tc.in, gotTitle, gotMins, tc.wantTitle, tc.wantMins)
		}
	}
}
