package client

import (
	"github.com/adamwoolhether/httpc/client/request"
	"github.com/adamwoolhether/httpc/client/task"
)

// ————————————————————————————————————————————————————————————————————
// Type aliases – re-export user-facing types.
// ————————————————————————————————————————————————————————————————————

type (
	// TransportError is recorded when a request could not complete an
	// HTTP exchange.
	TransportError = request.TransportError

	// FieldErrors lists the checks a request failed before being sent.
	FieldErrors = request.FieldErrors
)

// DefaultContentType is sent with POST and PUT bodies that have no
// Content-Type header. Override it with [WithDefaultContentType].
const DefaultContentType = request.DefaultContentType

// ————————————————————————————————————————————————————————————————————
// Sentinel errors
// ————————————————————————————————————————————————————————————————————

var (
	// ErrTransport indicates the exchange itself failed (DNS, connect,
	// timeout, protocol). A non-2xx status is never an ErrTransport.
	ErrTransport = request.ErrTransport

	// ErrInvalidSpec indicates the request was rejected before being sent.
	ErrInvalidSpec = request.ErrInvalidSpec

	// ErrTaskInProgress indicates an async start while a task is outstanding.
	ErrTaskInProgress = task.ErrSlotBusy

	// ErrNoTaskInProgress indicates a Wait with nothing outstanding.
	ErrNoTaskInProgress = task.ErrNoTask
)
