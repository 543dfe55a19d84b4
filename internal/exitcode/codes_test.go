package exitcode

import (
	"errors"
	"fmt"
	"testing"
)

func TestCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, Success},
		{"plain", errors.New("boom"), ErrSignalFailed},
		{"usage", Usage(errors.New("bad flag")), ErrUsage},
		{"wrapped setup", fmt.Errorf("run: %w", Setup("no terminal", nil)), ErrSetup},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Code(tt.err); got != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestErrorMessageAndUnwrap(t *testing.T) {
	cause := errors.New("permission denied")
	err := Setup("initial snapshot", cause)
	if err.Error() != "initial snapshot: permission denied" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be unwrapped")
	}
	if got := Newf(ErrUsage, "unknown signal %q", "FOO").Error(); got != `unknown signal "FOO"` {
		t.Fatalf("unexpected message %q", got)
	}
	if !Is(New(ErrSignalFailed, "1 failed"), ErrSignalFailed) {
		t.Fatalf("expected Is to match code")
	}
}
