package editor

//go:generate go run github.com/dmarkham/enumer -type DeleteState -trimprefix DeleteState -transform lower -json -output deletestate.gen.go

// DeleteState is a step of the confirm-then-delete workflow.
//
//	idle → confirming → cancelled
//	                  → confirmed → deleting → succeeded
//	                                         → failed
type DeleteState int

const (
	DeleteStateIdle DeleteState = iota
	DeleteStateConfirming
	DeleteStateCancelled
	DeleteStateConfirmed
	DeleteStateDeleting
	DeleteStateSucceeded
	DeleteStateFailed
)

// Done reports whether s ends a deletion.
func (s DeleteState) Done() bool {
	switch s {
	case DeleteStateCancelled, DeleteStateSucceeded, DeleteStateFailed:
		return true
	default:
		return false
	}
}
