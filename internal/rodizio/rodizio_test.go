package rodizio

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestIsRestricted(t *testing.T) {
	// 2024-01-15 is a Monday.
	monday := date(2024, time.January, 15)

	tests := []struct {
		name  string
		plate string
		date  time.Time
		want  bool
	}{
		{"ending 1 on monday", "ABC1231", monday, true},
		{"ending 2 on monday", "ABC1232", monday, true},
		{"ending 3 on monday", "ABC1233", monday, false},
		{"ending 3 on tuesday", "ABC1233", monday.AddDate(0, 0, 1), true},
		{"ending 4 on tuesday", "ABC1234", monday.AddDate(0, 0, 1), true},
		{"ending 5 on wednesday", "ABC1235", monday.AddDate(0, 0, 2), true},
		{"ending 6 on wednesday", "ABC1236", monday.AddDate(0, 0, 2), true},
		{"ending 7 on thursday", "ABC1237", monday.AddDate(0, 0, 3), true},
		{"ending 8 on thursday", "ABC1238", monday.AddDate(0, 0, 3), true},
		{"ending 9 on friday", "ABC1239", monday.AddDate(0, 0, 4), true},
		{"ending 0 on friday", "ABC1230", monday.AddDate(0, 0, 4), true},
		{"ending 1 on saturday", "ABC1231", monday.AddDate(0, 0, 5), false},
		{"ending 1 on sunday", "ABC1231", monday.AddDate(0, 0, 6), false},
		{"mercosul plate uses last digit", "ABC1D23", monday.AddDate(0, 0, 1), true},
		{"trailing letter is ignored", "ABC1D2E", monday, true},
		{"no digit is never restricted", "ABCDEFG", monday, false},
		{"empty plate", "", monday, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRestricted(tt.plate, tt.date); got != tt.want {
				t.Errorf("IsRestricted(%q, %s) = %v, want %v", tt.plate, tt.date.Weekday(), got, tt.want)
			}
		})
	}
}

func TestIsRestricted_AnyYear(t *testing.T) {
	for year := 2000; year <= 2040; year++ {
		for d := date(year, time.March, 1); d.Month() == time.March; d = d.AddDate(0, 0, 1) {
			switch d.Weekday() {
			case time.Monday:
				if !IsRestricted("XYZ0001", d) {
					t.Errorf("plate ending 1 not restricted on Monday %s", d.Format(time.DateOnly))
				}
			case time.Saturday, time.Sunday:
				if IsRestricted("XYZ0001", d) {
					t.Errorf("plate ending 1 restricted on weekend %s", d.Format(time.DateOnly))
				}
			case time.Friday:
				if !IsRestricted("XYZ0000", d) {
					t.Errorf("plate ending 0 not restricted on Friday %s", d.Format(time.DateOnly))
				}
			}
		}
	}
}

func TestRestrictionLabel(t *testing.T) {
	tests := []struct {
		plate string
		want  string
	}{
		{"ABC1231", "restricted on Monday"},
		{"ABC1234", "restricted on Tuesday"},
		{"ABC1235", "restricted on Wednesday"},
		{"ABC1238", "restricted on Thursday"},
		{"ABC1230", "restricted on Friday"},
		{"ABCDEFG", "unrestricted"},
	}
	for _, tt := range tests {
		if got := RestrictionLabel(tt.plate); got != tt.want {
			t.Errorf("RestrictionLabel(%q) = %q, want %q", tt.plate, got, tt.want)
		}
	}
}

func TestNormalizeCity(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"São Paulo", "sao paulo"},
		{"SÃO PAULO", "sao paulo"},
		{"  sao paulo ", "sao paulo"},
		{"Ribeirão Preto", "ribeirao preto"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeCity(tt.in); got != tt.want {
			t.Errorf("NormalizeCity(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEngine_Check(t *testing.T) {
	e := NewEngine("São Paulo")
	monday := date(2024, time.January, 15)

	tests := []struct {
		name        string
		plate       string
		destination string
		date        time.Time
		wantBlocked bool
	}{
		{"restricted into the city", "ABC1231", "Sao Paulo", monday, true},
		{"restricted into an address in the city", "ABC1231", "Av. Paulista 1000, SÃO PAULO - SP", monday, true},
		{"restricted elsewhere", "ABC1231", "Campinas", monday, false},
		{"unrestricted into the city", "ABC1233", "São Paulo", monday, false},
		{"weekend into the city", "ABC1231", "São Paulo", monday.AddDate(0, 0, 5), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := e.Check(tt.plate, tt.destination, tt.date)
			if v.Blocked() != tt.wantBlocked {
				t.Errorf("Check() blocked = %v, want %v (%+v)", v.Blocked(), tt.wantBlocked, v)
			}
			if v.Label != RestrictionLabel(tt.plate) {
				t.Errorf("Check() label = %q, want %q", v.Label, RestrictionLabel(tt.plate))
			}
		})
	}
}

func TestEngine_EmptyCityNeverRegulated(t *testing.T) {
	e := NewEngine("")
	if e.InRegulatedCity("São Paulo") {
		t.Error("InRegulatedCity() = true with no regulated city configured")
	}
}
