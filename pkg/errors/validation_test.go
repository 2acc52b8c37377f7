package errors

import (
	"testing"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"https", "https://example.com/cat.png", false},
		{"http with port", "http://localhost:8080/a.gif", false},
		{"query string", "https://i.example.org/x.jpg?size=large", false},

		{"empty", "", true},
		{"ftp scheme", "ftp://example.com/cat.png", true},
		{"no scheme", "example.com/cat.png", true},
		{"no host", "https:///cat.png", true},
		{"control char", "https://example.com/\x01.png", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidateURL(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "logs/#go-nuts.txt", false},
		{"absolute", "/var/log/irc/libera.log", false},
		{"empty", "", true},
		{"blank", "   ", true},
		{"null byte", "foo\x00.txt", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidatePath(tt.input); (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
