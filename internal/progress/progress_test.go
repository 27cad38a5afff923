package progress

import (
	"errors"
	"testing"
)

func TestTrackerSetAndFinish(t *testing.T) {
	tr := NewTracker("Scanning", 3)
	tr.Set(1)
	tr.Set(3)
	tr.FinishSuccess()
}

func TestSpinnerFinishVariants(t *testing.T) {
	NewSpinner("Resolving").FinishSuccess()
	NewSpinner("Resolving").FinishSkipped("no source files")
	NewSpinner("Resolving").FinishError(errors.New("walk failed"))
}
