package cadence

import "testing"

func TestDaysAndMonths(t *testing.T) {
	tests := []struct {
		c      Cadence
		days   int
		months int
	}{
		{Monthly, 30, 1},
		{Bimonthly, 60, 2},
		{Quarterly, 90, 3},
		{Semiannual, 180, 6},
		{"", 90, 3},        // unset falls back to quarterly
		{"yearly", 90, 3},  // unknown falls back to quarterly
	}

	for _, tt := range tests {
		if got := Days(tt.c); got != tt.days {
			t.Errorf("Days(%q) = %d, want %d", tt.c, got, tt.days)
		}
		if got := Months(tt.c); got != tt.months {
			t.Errorf("Months(%q) = %d, want %d", tt.c, got, tt.months)
		}
	}
}

func TestValid(t *testing.T) {
	if !Valid(Monthly) || !Valid(Semiannual) {
		t.Error("known cadences must be valid")
	}
	if Valid("") || Valid("weekly") {
		t.Error("unknown cadences must not be valid")
	}
}

func TestNormalize(t *testing.T) {
	if Normalize("") != Quarterly {
		t.Errorf("Normalize(\"\") = %q, want quarterly", Normalize(""))
	}
	if Normalize(Monthly) != Monthly {
		t.Errorf("Normalize(monthly) = %q", Normalize(Monthly))
	}
}
