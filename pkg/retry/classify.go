// Package retry holds the shared retry/backoff decision logic used by the
// query executor and the transaction client: a pure error classifier and an
// exponential backoff policy with jitter. Nothing in this package performs
// I/O, which keeps every decision unit-testable without a network.
package retry

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Classification buckets an error by how the caller should react to it.
type Classification int

const (
	// Transient indicates a network-level failure (unreachable node,
	// timeout, overload). The operation should be retried, preferably
	// against a different endpoint.
	Transient Classification = iota

	// Fatal indicates the request itself is bad or was rejected by chain
	// logic. Retrying cannot help; the error propagates immediately.
	Fatal

	// SequenceMismatch indicates the chain rejected the transaction's
	// sequence number. The transaction client handles this with one bounded
	// rebuild-and-retry cycle; it is never retried blindly.
	SequenceMismatch

	// NotFound indicates the queried object does not (yet) exist. During
	// confirmation polling this is the expected "not included yet" signal.
	NotFound
)

// String implements fmt.Stringer for log output.
func (c Classification) String() string {
	switch c {
	case Transient:
		return "transient"
	case Fatal:
		return "fatal"
	case SequenceMismatch:
		return "sequence_mismatch"
	case NotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// sequenceMismatchMsg is the prefix the Cosmos SDK uses for ABCI error code
// 32 rejections. It also appears without a code during simulation, which is
// why classification matches on the message as well.
const sequenceMismatchMsg = "account sequence mismatch"

// Classify maps an error observed during a network operation to the action
// the caller should take. It is a pure function of the error.
func Classify(err error) Classification {
	if err == nil {
		return Fatal
	}

	// Caller-initiated cancellation is never retried; an expired deadline is
	// a timeout and therefore transient.
	if errors.Is(err, context.Canceled) {
		return Fatal
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Transient
	}

	if strings.Contains(err.Error(), sequenceMismatchMsg) {
		return SequenceMismatch
	}

	grpcStatus, ok := status.FromError(err)
	if !ok {
		// Non-gRPC errors at this layer are transport-level (dial failures,
		// closed connections) and deserve a retry elsewhere.
		return Transient
	}

	switch grpcStatus.Code() {
	case codes.Unavailable,
		codes.DeadlineExceeded,
		codes.ResourceExhausted,
		codes.Aborted:
		return Transient
	case codes.Unimplemented, codes.PermissionDenied:
		// The node is misconfigured or refusing us; another endpoint may
		// still serve the request.
		return Transient
	case codes.NotFound:
		return NotFound
	case codes.InvalidArgument,
		codes.Unauthenticated,
		codes.AlreadyExists,
		codes.FailedPrecondition,
		codes.OutOfRange:
		return Fatal
	case codes.Unknown:
		// An Unknown code with a "not found" message shows up on some nodes
		// instead of codes.NotFound.
		if strings.Contains(grpcStatus.Message(), "not found") {
			return NotFound
		}
		return Transient
	default:
		return Transient
	}
}

// ExpectedSequence extracts the sequence number the chain expected from a
// mismatch error message containing "account sequence mismatch, expected N,
// got M". The message may carry wrapping prefixes; the mismatch text is
// located anywhere within it. The boolean result reports whether a number
// was found.
func ExpectedSequence(message string) (uint64, bool) {
	marker := sequenceMismatchMsg + ", expected "
	start := strings.Index(message, marker)
	if start < 0 {
		return 0, false
	}

	rest := message[start+len(marker):]
	comma := strings.IndexByte(rest, ',')
	if comma <= 0 {
		return 0, false
	}

	var sequence uint64
	for _, ch := range rest[:comma] {
		if ch < '0' || ch > '9' {
			return 0, false
		}
		sequence = sequence*10 + uint64(ch-'0')
	}
	return sequence, true
}
