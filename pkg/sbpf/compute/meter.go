package compute

// DefaultBudget is the default per-invocation compute budget on Solana
const DefaultBudget = uint64(200_000)

// Meter tracks the compute units available to, and used by, a single run.
//
// Charging clamps at zero rather than failing. Detecting an exhausted budget
// is left to the VM engine, which checks Remaining after every step.
type Meter struct {
	remaining uint64
	consumed  uint64
}

// NewMeter returns a meter seeded with budget units
func NewMeter(budget uint64) *Meter {
	return &Meter{
		remaining: budget,
	}
}

// Charge consumes up to units from the remaining budget
func (m *Meter) Charge(units uint64) {
	delta := min(units, m.remaining)
	m.remaining -= delta
	m.consumed += delta
}

// Remaining returns the units left in the budget
func (m *Meter) Remaining() uint64 {
	return m.remaining
}

// Consumed returns the units charged so far
func (m *Meter) Consumed() uint64 {
	return m.consumed
}

// Exhausted reports whether the budget has been used up
func (m *Meter) Exhausted() bool {
	return m.remaining == 0
}
