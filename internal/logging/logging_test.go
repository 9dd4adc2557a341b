package logging

import "testing"

func TestNew(t *testing.T) {
	tests := []struct {
		level     string
		wantError bool
	}{
		{level: "INFO"},
		{level: "debug"},
		{level: " warn "},
		{level: "verbose", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger, err := New(tt.level)
			if (err != nil) != tt.wantError {
				t.Fatalf("New() error = %v, wantError %v", err, tt.wantError)
			}
			if !tt.wantError && logger == nil {
				t.Error("expected logger")
			}
		})
	}
}

func TestOrNop(t *testing.T) {
	if OrNop(nil) == nil {
		t.Error("OrNop(nil) should return a logger")
	}
}
