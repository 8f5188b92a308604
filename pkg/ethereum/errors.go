package ethereum

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/ethereum/go-ethereum/rpc"

	"github.com/chainsafe/transfer-indexer/pkg/scanner"
)

var (
	// ErrTransientFetch marks RPC failures that may succeed on retry.
	ErrTransientFetch = errors.New("transient rpc failure")
	// ErrFatalFetch marks RPC failures that will not succeed on retry.
	ErrFatalFetch = errors.New("fatal rpc failure")
)

// codeLimitExceeded is the JSON-RPC code providers return when a request is throttled.
const codeLimitExceeded = -32005

// FetchError describes an RPC call that failed after classification and retries.
// Kind is ErrTransientFetch or ErrFatalFetch.
type FetchError struct {
	Kind     error
	Method   string
	Chunk    *scanner.Chunk
	Attempts int
	Err      error
}

func (e *FetchError) Error() string {
	if e.Chunk != nil {
		return fmt.Sprintf("%s %s failed after %d attempt(s) (%v): %v", e.Method, e.Chunk, e.Attempts, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s failed after %d attempt(s) (%v): %v", e.Method, e.Attempts, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// kindLabel returns the metrics label for the error kind.
func (e *FetchError) kindLabel() string {
	if errors.Is(e.Kind, ErrFatalFetch) {
		return "fatal"
	}
	return "transient"
}

// classify maps an RPC error to ErrTransientFetch or ErrFatalFetch.
// Anything that is not positively identified as a rejected request is treated as transient.
func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTransientFetch
	}

	var httpErr rpc.HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.StatusCode == http.StatusTooManyRequests || httpErr.StatusCode >= http.StatusInternalServerError {
			return ErrTransientFetch
		}
		return ErrFatalFetch
	}

	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		if rpcErr.ErrorCode() == codeLimitExceeded {
			return ErrTransientFetch
		}
		return ErrFatalFetch
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return ErrTransientFetch
	}

	return ErrTransientFetch
}
