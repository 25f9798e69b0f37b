package lineuplog

import "testing"

func TestCleanGroupName(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"A. Edwards - R. Gobert - M. Conley", "Edwards; Gobert; Conley"},
		{"K. Anderson Jr. - N. Reid", "Anderson Jr.; Reid"},
		{"Nembhard - J. McDaniels", "Nembhard; McDaniels"},
		{"Luka Doncic", "Doncic"},
		{"  A. Edwards  -  ", "Edwards"},
	}

	for _, tc := range cases {
		got := CleanGroupName(tc.raw)
		if got == nil || *got != tc.want {
			t.Errorf("CleanGroupName(%q) = %v, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestCleanGroupNameEmpty(t *testing.T) {
	if got := CleanGroupName(""); got != nil {
		t.Fatalf("empty input: got %q", *got)
	}
	if got := CleanGroupName(" - "); got != nil {
		t.Fatalf("separator only: got %q", *got)
	}
}
