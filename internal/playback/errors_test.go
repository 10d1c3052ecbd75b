package playback

import (
	"errors"
	"testing"
)

func TestStateError(t *testing.T) {
	err := error(&StateError{Op: "seek", Mode: ModeRadio})

	if !errors.Is(err, ErrInvalidState) {
		t.Error("StateError should match ErrInvalidState")
	}
	if got, want := err.Error(), "seek: not available in Radio mode"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	var se *StateError
	if !errors.As(err, &se) || se.Op != "seek" {
		t.Errorf("errors.As = %+v", se)
	}
}
