package mode

import "testing"

func TestIsValid(t *testing.T) {
	tests := []struct {
		mode  Mode
		valid bool
	}{
		{RegionCategory, true},
		{Proximity, true},
		{"", false},
		{"geo", false},
		{"PROXIMITY", false},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			if got := tt.mode.IsValid(); got != tt.valid {
				t.Errorf("Mode(%q).IsValid() = %v, want %v", tt.mode, got, tt.valid)
			}
		})
	}
}
