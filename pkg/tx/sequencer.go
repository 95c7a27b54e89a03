package tx

import (
	"context"
	"sync"

	"cosmossdk.io/depinject"
	"github.com/pokt-network/poktroll/pkg/polylog"

	"github.com/nodemesh/cosmosclient/pkg/client"
)

var _ client.AccountSequencer = (*Sequencer)(nil)

// Sequencer hands out strictly increasing, gapless sequence numbers per
// account. The chain is queried once to prime an account's state, after
// which allocation is purely local until a mismatch invalidates it.
type Sequencer struct {
	accountQuerier client.AccountQueryClient

	accountsMu sync.Mutex
	accounts   map[string]*accountState
}

type accountState struct {
	mu sync.Mutex

	// primed is false until the chain has been queried for this account,
	// and is reset to false by ReleaseOnFailure.
	primed        bool
	accountNumber uint64
	nextSequence  uint64

	// lastReleased remembers the most recently failed reservation so a
	// re-prime that reissues the same number can be traced in the logs.
	lastReleased *uint64
}

// NewSequencer builds an account sequencer backed by an on-chain
// account querier.
//
// Required dependencies:
//   - client.AccountQueryClient
func NewSequencer(deps depinject.Config) (client.AccountSequencer, error) {
	seq := &Sequencer{
		accounts: make(map[string]*accountState),
	}

	if err := depinject.Inject(deps, &seq.accountQuerier); err != nil {
		return nil, err
	}

	return seq, nil
}

func (s *Sequencer) accountState(address string) *accountState {
	s.accountsMu.Lock()
	defer s.accountsMu.Unlock()

	state, ok := s.accounts[address]
	if !ok {
		state = &accountState{}
		s.accounts[address] = state
	}
	return state
}

// Reserve allocates the next sequence number for address. A cold or
// invalidated account is primed from the chain first; the chain query
// happens outside the allocation lock so concurrent reservations for
// other accounts are never blocked behind it.
func (s *Sequencer) Reserve(ctx context.Context, address string) (client.Reservation, error) {
	state := s.accountState(address)

	state.mu.Lock()
	if state.primed {
		reservation := client.Reservation{
			Address:       address,
			AccountNumber: state.accountNumber,
			Sequence:      state.nextSequence,
		}
		state.nextSequence++
		state.mu.Unlock()
		return reservation, nil
	}
	state.mu.Unlock()

	account, err := s.accountQuerier.GetAccount(ctx, address)
	if err != nil {
		return client.Reservation{}, err
	}
	chainSequence := account.GetSequence()

	state.mu.Lock()
	defer state.mu.Unlock()

	if !state.primed {
		state.accountNumber = account.GetAccountNumber()
		state.nextSequence = chainSequence
		state.primed = true

		if state.lastReleased != nil && *state.lastReleased == chainSequence {
			polylog.Ctx(ctx).Debug().
				Str("address", address).
				Uint64("sequence", chainSequence).
				Msg("chain reissued a previously failed sequence number")
		}
		state.lastReleased = nil
	} else if chainSequence > state.nextSequence {
		// Another writer advanced the account on-chain while we were
		// priming; never hand out numbers the chain already consumed.
		state.nextSequence = chainSequence
	}

	reservation := client.Reservation{
		Address:       address,
		AccountNumber: state.accountNumber,
		Sequence:      state.nextSequence,
	}
	state.nextSequence++
	return reservation, nil
}

// Confirm records that the reservation was accepted on-chain. Allocation
// is eager, so there is no counter to advance here.
func (s *Sequencer) Confirm(address string, sequence uint64) {
	state := s.accountState(address)

	state.mu.Lock()
	defer state.mu.Unlock()

	if state.primed && sequence >= state.nextSequence {
		// A confirmation ahead of our counter means an external signer
		// used this account; resync on the next reservation.
		state.primed = false
	}
}

// ReleaseOnFailure invalidates the cached state for address after the
// given reservation failed with a sequence mismatch. When the mismatch
// message named the sequence the chain expected, the cache is re-primed
// from it directly; otherwise the next Reserve re-queries the chain for
// ground truth.
func (s *Sequencer) ReleaseOnFailure(address string, sequence uint64, expectedSequence *uint64) {
	state := s.accountState(address)

	state.mu.Lock()
	defer state.mu.Unlock()

	released := sequence
	state.lastReleased = &released

	if expectedSequence != nil && state.primed {
		// The account number is already cached, so the chain's expected
		// value alone is enough to resync without an account query.
		state.nextSequence = *expectedSequence
		return
	}
	state.primed = false
}
