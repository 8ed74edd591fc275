package utils

import "testing"

func TestParseDate_AcceptsSpreadsheetForms(t *testing.T) {
	cases := []struct {
		in       string
		expected string
	}{
		{"2024-01-10", "2024-01-10"},
		{" 2024-01-10 ", "2024-01-10"},
		{"2024-01-10 15:04:05", "2024-01-10"},
		{"2024/01/10", "2024-01-10"},
		{"01-10-24", "2024-01-10"},
		{"01/10/2024", "2024-01-10"},
	}
	for _, tc := range cases {
		d, err := ParseDate(tc.in)
		if err != nil {
			t.Fatalf("ParseDate(%q) error: %v", tc.in, err)
		}
		if got := d.Format("2006-01-02"); got != tc.expected {
			t.Fatalf("ParseDate(%q) expected %s, got %s", tc.in, tc.expected, got)
		}
	}
}

func TestParseDate_RejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "  ", "not-a-date", "13/45/2024"} {
		if _, err := ParseDate(in); err == nil {
			t.Fatalf("ParseDate(%q) should fail", in)
		}
	}
}
