package tx

import (
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	cosmostypes "github.com/cosmos/cosmos-sdk/types"
	txtypes "github.com/cosmos/cosmos-sdk/types/tx"
	"go.uber.org/multierr"

	"github.com/nodemesh/cosmosclient/pkg/client"
)

// Builder accumulates messages and per-transaction options and
// produces a validated UnsignedTx. The zero value is usable.
type Builder struct {
	msgs     []cosmostypes.Msg
	memo     string
	gasLimit uint64
	fee      cosmostypes.Coins
	sequence *uint64
}

// NewBuilder returns an empty transaction builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// NewBuilderWithOptions seeds a builder from caller-supplied options.
func NewBuilderWithOptions(txOpts client.TxOptions) *Builder {
	return &Builder{
		memo:     txOpts.Memo,
		gasLimit: txOpts.GasLimit,
		fee:      txOpts.Fee,
		sequence: txOpts.Sequence,
	}
}

func (b *Builder) WithMsgs(msgs ...cosmostypes.Msg) *Builder {
	b.msgs = append(b.msgs, msgs...)
	return b
}

func (b *Builder) WithMemo(memo string) *Builder {
	b.memo = memo
	return b
}

func (b *Builder) WithGasLimit(gasLimit uint64) *Builder {
	b.gasLimit = gasLimit
	return b
}

func (b *Builder) WithFee(fee cosmostypes.Coins) *Builder {
	b.fee = fee
	return b
}

func (b *Builder) WithSequence(sequence uint64) *Builder {
	b.sequence = &sequence
	return b
}

// Build validates every accumulated message and packs them into a
// TxBody. Validation failures are aggregated so the caller sees all
// offending messages at once.
func (b *Builder) Build() (*UnsignedTx, error) {
	if len(b.msgs) == 0 {
		return nil, ErrEmptyTx
	}

	var validationErr error
	for i, msg := range b.msgs {
		if validator, ok := msg.(cosmostypes.HasValidateBasic); ok {
			if err := validator.ValidateBasic(); err != nil {
				validationErr = multierr.Append(
					validationErr,
					ErrInvalidMsg.Wrapf("msg %d (%T): %s", i, msg, err),
				)
			}
		}
	}
	if validationErr != nil {
		return nil, validationErr
	}

	anyMsgs := make([]*codectypes.Any, 0, len(b.msgs))
	for i, msg := range b.msgs {
		anyMsg, err := codectypes.NewAnyWithValue(msg)
		if err != nil {
			return nil, ErrInvalidMsg.Wrapf("packing msg %d (%T): %s", i, msg, err)
		}
		anyMsgs = append(anyMsgs, anyMsg)
	}

	return &UnsignedTx{
		Body: &txtypes.TxBody{
			Messages: anyMsgs,
			Memo:     b.memo,
		},
		GasLimit: b.gasLimit,
		Fee:      b.fee,
		Sequence: b.sequence,
	}, nil
}
