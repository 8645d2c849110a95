package errors

import (
	"errors"
	"io/fs"
	"net/http"
	"testing"
)

func TestError(t *testing.T) {
	err := New(ErrCodeInvalidScene, "card %q: width must be positive", "api")
	if got, want := err.Error(), `INVALID_SCENE: card "api": width must be positive`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	wrapped := Wrap(ErrCodeFileNotFound, fs.ErrNotExist, "read scene %s", "board.toml")
	if !errors.Is(wrapped, fs.ErrNotExist) {
		t.Error("wrapped error should match its cause")
	}
	if errors.Unwrap(wrapped) != fs.ErrNotExist {
		t.Errorf("Unwrap() = %v", errors.Unwrap(wrapped))
	}
}

func TestCodes(t *testing.T) {
	plain := errors.New("grid exploded")
	nested := Wrap(ErrCodeTimeout, New(ErrCodeCardNotFound, "unknown card %q", "db"), "route scene")

	tests := []struct {
		name    string
		err     error
		code    Code
		message string
	}{
		{"direct", New(ErrCodeInvalidStyle, "unknown style %q", "wavy"), ErrCodeInvalidStyle, `unknown style "wavy"`},
		{"outermost code wins", nested, ErrCodeTimeout, "route scene"},
		{"plain error", plain, "", "grid exploded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.code {
				t.Errorf("GetCode() = %q, want %q", got, tt.code)
			}
			if tt.code != "" && !Is(tt.err, tt.code) {
				t.Errorf("Is(%q) = false", tt.code)
			}
			if got := UserMessage(tt.err); got != tt.message {
				t.Errorf("UserMessage() = %q, want %q", got, tt.message)
			}
		})
	}

	if Is(nil, ErrCodeInvalidInput) || GetCode(nil) != "" {
		t.Error("nil error should carry no code")
	}
	if Is(nested, ErrCodeCardNotFound) {
		t.Error("Is should only look at the outermost code")
	}
}

func TestStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"invalid style", New(ErrCodeInvalidStyle, "bad"), http.StatusBadRequest},
		{"invalid scene", New(ErrCodeInvalidScene, "bad"), http.StatusBadRequest},
		{"card not found", New(ErrCodeCardNotFound, "missing"), http.StatusNotFound},
		{"wrapped timeout", Wrap(ErrCodeTimeout, errors.New("deadline"), "render"), http.StatusGatewayTimeout},
		{"unsupported", New(ErrCodeUnsupported, "pdf"), http.StatusNotImplemented},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Status(tt.err); got != tt.expected {
				t.Errorf("Status() = %v, want %v", got, tt.expected)
			}
		})
	}
}
