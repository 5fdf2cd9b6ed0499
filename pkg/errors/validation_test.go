package errors

import (
	"testing"
)

func TestValidateTerminalCount(t *testing.T) {
	tests := []struct {
		name    string
		input   int
		wantErr bool
	}{
		{"zero", 0, false},
		{"one", 1, false},
		{"five", 5, false},
		{"large", 10000, false},

		{"minus one", -1, true},
		{"very negative", -1 << 20, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTerminalCount(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTerminalCount(%d) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidArgument) {
				t.Errorf("ValidateTerminalCount(%d) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestValidateTerminalLimit(t *testing.T) {
	tests := []struct {
		name     string
		n, limit int
		wantCode Code
	}{
		{"within limit", 10, 64, ""},
		{"at limit", 64, 64, ""},
		{"limit disabled", 5000, 0, ""},
		{"over limit", 65, 64, ErrCodeOutOfRange},
		{"negative", -3, 64, ErrCodeInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTerminalLimit(tt.n, tt.limit)
			if got := GetCode(err); got != tt.wantCode {
				t.Errorf("ValidateTerminalLimit(%d, %d) code = %q, want %q", tt.n, tt.limit, got, tt.wantCode)
			}
		})
	}
}

func TestParseTerminalCount(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{"simple", "5", 5, false},
		{"zero", "0", 0, false},
		{"whitespace", "  12\n", 12, false},

		{"empty", "", 0, true},
		{"blank", "   ", 0, true},
		{"negative", "-1", 0, true},
		{"not a number", "five", 0, true},
		{"float", "2.5", 0, true},
		{"hex", "0x10", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTerminalCount(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTerminalCount(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil {
				if !Is(err, ErrCodeInvalidArgument) {
					t.Errorf("ParseTerminalCount(%q) returned wrong error code: %v", tt.input, err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ParseTerminalCount(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}
