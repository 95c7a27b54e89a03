package tx

import (
	"context"
	"sync"

	"github.com/pokt-network/poktroll/pkg/polylog"

	"github.com/nodemesh/cosmosclient/pkg/client/config"
)

// multiplier supplies the padding factor applied to simulated gas. The
// static variant always returns its configured value; the dynamic variant
// adapts at runtime, stepping up after out-of-gas failures and underpaying
// transactions and stepping down after overpaying ones.
type multiplier struct {
	mu      sync.Mutex
	current float64

	dynamic       bool
	low           float64
	high          float64
	stepUp        float64
	stepDown      float64
	overpayRatio  float64
	underpayRatio float64
}

func newStaticMultiplier(value float64) *multiplier {
	return &multiplier{current: value}
}

func newDynamicMultiplier(initial float64, cfg config.DynamicGasConfig) *multiplier {
	return &multiplier{
		current:       initial,
		dynamic:       true,
		low:           cfg.Low,
		high:          cfg.High,
		stepUp:        cfg.StepUp,
		stepDown:      cfg.StepDown,
		overpayRatio:  cfg.OverpayRatio,
		underpayRatio: cfg.UnderpayRatio,
	}
}

// Current returns the multiplier value to pad the next simulation with.
func (m *multiplier) Current() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// StepUpOnOutOfGas raises the multiplier after an out-of-gas failure,
// capped at the configured high bound. It reports whether the value
// changed; a static multiplier never changes.
func (m *multiplier) StepUpOnOutOfGas(ctx context.Context) bool {
	if !m.dynamic {
		return false
	}

	m.mu.Lock()
	old := m.current
	m.current = min(m.current+m.stepUp, m.high)
	changed := m.current != old
	updated := m.current
	m.mu.Unlock()

	if changed {
		polylog.Ctx(ctx).Info().
			Float64("old", old).
			Float64("new", updated).
			Msg("out of gas, raising gas multiplier")
	}
	return changed
}

// ObserveUsage feeds a confirmed transaction's gas_used/gas_wanted back
// into the multiplier. An overpaying ratio steps the multiplier down
// toward the low bound, an underpaying one steps it up toward the high
// bound preemptively.
func (m *multiplier) ObserveUsage(ctx context.Context, gasUsed, gasWanted int64) {
	if !m.dynamic || gasWanted <= 0 {
		return
	}
	ratio := float64(gasUsed) / float64(gasWanted)

	m.mu.Lock()
	old := m.current
	switch {
	case ratio < m.overpayRatio:
		m.current = max(m.current-m.stepDown, m.low)
	case ratio > m.underpayRatio:
		m.current = min(m.current+m.stepUp, m.high)
	}
	updated := m.current
	m.mu.Unlock()

	if updated == old {
		return
	}
	event := polylog.Ctx(ctx).Info().
		Int64("gas_used", gasUsed).
		Int64("gas_wanted", gasWanted).
		Float64("old", old).
		Float64("new", updated)
	if updated < old {
		event.Msg("overpaid gas, lowering gas multiplier")
	} else {
		event.Msg("underpaid gas, raising gas multiplier")
	}
}
