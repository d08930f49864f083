package utils

import "testing"

func TestAtoiDefault(t *testing.T) {
	cases := []struct {
		s    string
		def  int
		want int
	}{
		{"", 50, 50},
		{"2", 1, 2},
		{"-3", 1, -3},
		{"007", 1, 7},
		{"two", 1, 1},
		{" 2", 1, 1}, // no trimming
		{"99999999999999999999", 50, 50},
	}
	for _, tc := range cases {
		if got := AtoiDefault(tc.s, tc.def); got != tc.want {
			t.Errorf("AtoiDefault(%q, %d) = %d, want %d", tc.s, tc.def, got, tc.want)
		}
	}
}
