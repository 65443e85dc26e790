package draft

import "errors"

var (
	// ErrDataIncomplete indicates required client data is missing. The
	// condition is surfaced before generation proceeds and is re-triable.
	ErrDataIncomplete = errors.New("client data incomplete")

	// ErrNoLetterSelected indicates the request named no letter types.
	ErrNoLetterSelected = errors.New("no letter type selected")

	// ErrDraftNotFound indicates an unknown or already-closed draft.
	ErrDraftNotFound = errors.New("draft not found")

	// ErrInvalidState indicates an operation not allowed in the draft's
	// current state.
	ErrInvalidState = errors.New("operation not allowed in current draft state")

	// ErrProvisionalDraft indicates the draft still carries placeholder
	// values and must not be sent.
	ErrProvisionalDraft = errors.New("draft contains provisional placeholder values")

	// ErrSendInFlight indicates a send is already pending for the draft.
	ErrSendInFlight = errors.New("a send is already in flight")

	// ErrRenderFailed indicates the document render collaborator failed.
	ErrRenderFailed = errors.New("document rendering failed")

	// ErrUnknownDocument indicates a download request for a document the
	// draft does not carry.
	ErrUnknownDocument = errors.New("unknown document")
)
