package bank

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
)

var (
	ErrInvalidParameter  = errors.New("invalid parameter")
	ErrInvalidState      = errors.New("operation not valid for instrument type")
	ErrAlreadySettled    = errors.New("instrument already settled")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrNotFound          = errors.New("instrument not found")
)

// InstrumentType distinguishes the three instrument families.
type InstrumentType uint8

const (
	TypeLoan InstrumentType = iota
	TypeCD
	TypeHELOC
)

// String returns the type name.
func (t InstrumentType) String() string {
	switch t {
	case TypeLoan:
		return "loan"
	case TypeCD:
		return "cd"
	case TypeHELOC:
		return "heloc"
	default:
		return "unknown"
	}
}

// ParseInstrumentType maps a type name to its InstrumentType.
func ParseInstrumentType(s string) (InstrumentType, error) {
	switch s {
	case "loan":
		return TypeLoan, nil
	case "cd":
		return TypeCD, nil
	case "heloc":
		return TypeHELOC, nil
	default:
		return TypeLoan, fmt.Errorf("%w: unknown instrument type %q", ErrInvalidParameter, s)
	}
}

// Status is the explicit instrument lifecycle. Every status other than
// Active is terminal: a settled instrument is immutable.
type Status uint8

const (
	StatusActive Status = iota
	StatusRepaid
	StatusCashedOut
	StatusWrittenOff
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusRepaid:
		return "repaid"
	case StatusCashedOut:
		return "cashed_out"
	case StatusWrittenOff:
		return "written_off"
	default:
		return "unknown"
	}
}

// ParseStatus maps a status name to its Status.
func ParseStatus(s string) (Status, error) {
	switch s {
	case "active":
		return StatusActive, nil
	case "repaid":
		return StatusRepaid, nil
	case "cashed_out":
		return StatusCashedOut, nil
	case "written_off":
		return StatusWrittenOff, nil
	default:
		return StatusActive, fmt.Errorf("%w: unknown status %q", ErrInvalidParameter, s)
	}
}

// Instrument is one loan, CD, or HELOC record.
type Instrument struct {
	ID           uuid.UUID      `json:"id"`
	OwnerID      int64          `json:"owner_id"`
	Type         InstrumentType `json:"type"`
	Principal    float64        `json:"principal"`
	Rate         float64        `json:"rate"`
	OriginalRate float64        `json:"original_rate"`
	TermPeriods  int            `json:"term_periods"`
	StartPeriod  int            `json:"start_period"`
	Balance      float64        `json:"balance"` // Outstanding; principal for CDs.
	CollateralID *int64         `json:"collateral_id,omitempty"`
	Status       Status         `json:"status"`
}

// Active reports whether the instrument can still be mutated.
func (i *Instrument) Active() bool {
	return i.Status == StatusActive
}

// Mature reports whether the term has elapsed by the given period.
func (i *Instrument) Mature(period int) bool {
	return period-i.StartPeriod >= i.TermPeriods
}

// Ledger holds the instrument set of one game. The owning turn loop
// serializes access, like the rest of the per-game state.
type Ledger struct {
	instruments []*Instrument

	// PenaltyPct is deducted from a CD's value on early cash-out.
	PenaltyPct float64
}

// DefaultCDPenalty is the early-withdrawal penalty fraction.
const DefaultCDPenalty = 0.10

// NewLedger creates an empty ledger with the default CD penalty.
func NewLedger() *Ledger {
	return &Ledger{PenaltyPct: DefaultCDPenalty}
}

// Create opens a new instrument with the balance set to the principal.
// HELOCs must name their collateral property.
func (l *Ledger) Create(ownerID int64, principal, rate float64, termPeriods int, typ InstrumentType, startPeriod int, collateralID *int64) (*Instrument, error) {
	if principal <= 0 {
		return nil, fmt.Errorf("%w: principal must be positive, got %.2f", ErrInvalidParameter, principal)
	}
	if termPeriods <= 0 {
		return nil, fmt.Errorf("%w: term must be positive, got %d", ErrInvalidParameter, termPeriods)
	}
	if typ == TypeHELOC && collateralID == nil {
		return nil, fmt.Errorf("%w: heloc requires collateral", ErrInvalidParameter)
	}

	inst := &Instrument{
		ID:           uuid.New(),
		OwnerID:      ownerID,
		Type:         typ,
		Principal:    principal,
		Rate:         rate,
		OriginalRate: rate,
		TermPeriods:  termPeriods,
		StartPeriod:  startPeriod,
		Balance:      principal,
		CollateralID: collateralID,
		Status:       StatusActive,
	}
	l.instruments = append(l.instruments, inst)
	return inst, nil
}

// AccrueInterest compounds one period of interest onto the running
// balance of an active loan or HELOC. CDs accrue only at valuation time;
// inactive instruments are untouched.
func (l *Ledger) AccrueInterest(inst *Instrument) {
	if !inst.Active() || inst.Type == TypeCD {
		return
	}
	inst.Balance += inst.Balance * inst.Rate
	assertNonNegative(inst)
}

// CurrentValue returns what the instrument is worth after the elapsed
// periods: compounded monthly for CDs, the running balance otherwise.
func CurrentValue(inst *Instrument, periodsElapsed int) float64 {
	if inst.Type == TypeCD {
		monthlyRate := inst.Rate / 12
		return inst.Principal * math.Pow(1+monthlyRate, float64(periodsElapsed))
	}
	return inst.Balance
}

// Repay pays down a loan or HELOC. Paying at or above the balance
// settles the instrument and returns the overpayment; a smaller amount
// reduces the balance and leaves it active.
func (l *Ledger) Repay(inst *Instrument, amount float64) (overpayment float64, err error) {
	if inst.Type == TypeCD {
		return 0, fmt.Errorf("%w: use CashOutCD for deposits", ErrInvalidState)
	}
	if !inst.Active() {
		return 0, fmt.Errorf("%w: %s", ErrAlreadySettled, inst.ID)
	}
	if amount <= 0 {
		return 0, fmt.Errorf("%w: repayment must be positive, got %.2f", ErrInvalidParameter, amount)
	}

	if amount >= inst.Balance {
		overpayment = amount - inst.Balance
		inst.Balance = 0
		inst.Status = StatusRepaid
		return overpayment, nil
	}

	inst.Balance -= amount
	assertNonNegative(inst)
	return 0, nil
}

// CashOutCD redeems a certificate of deposit, applying the early
// withdrawal penalty when the CD has not matured. Write-once: a settled
// CD always returns ErrAlreadySettled and never changes its payout.
func (l *Ledger) CashOutCD(cd *Instrument, periodsElapsed int, mature bool) (payout, penalty float64, err error) {
	if cd.Type != TypeCD {
		return 0, 0, fmt.Errorf("%w: not a deposit", ErrInvalidState)
	}
	if !cd.Active() {
		return 0, 0, fmt.Errorf("%w: %s", ErrAlreadySettled, cd.ID)
	}

	value := CurrentValue(cd, periodsElapsed)
	if !mature {
		penalty = value * l.PenaltyPct
	}
	payout = value - penalty

	cd.Balance = 0
	cd.Status = StatusCashedOut
	return payout, penalty, nil
}

// WriteOff force-settles an instrument during bankruptcy resolution.
func (l *Ledger) WriteOff(inst *Instrument) {
	if !inst.Active() {
		return
	}
	inst.Balance = 0
	inst.Status = StatusWrittenOff
}

// AdjustRate shifts an active instrument's rate by delta, floored at 1%.
// The origination rate stays recorded on the instrument.
func (l *Ledger) AdjustRate(inst *Instrument, delta float64) {
	if !inst.Active() {
		return
	}
	inst.Rate = math.Max(RateFloor, inst.Rate+delta)
}

// Restore replaces the ledger contents with previously persisted
// instruments.
func (l *Ledger) Restore(instruments []*Instrument) {
	l.instruments = instruments
}

// Instruments returns all instruments, settled included.
func (l *Ledger) Instruments() []*Instrument {
	return l.instruments
}

// ActiveByType returns every active instrument of the given type.
func (l *Ledger) ActiveByType(typ InstrumentType) []*Instrument {
	var out []*Instrument
	for _, inst := range l.instruments {
		if inst.Active() && inst.Type == typ {
			out = append(out, inst)
		}
	}
	return out
}

// ActiveByOwner returns the owner's active instruments of the given type.
func (l *Ledger) ActiveByOwner(ownerID int64, typ InstrumentType) []*Instrument {
	var out []*Instrument
	for _, inst := range l.instruments {
		if inst.Active() && inst.OwnerID == ownerID && inst.Type == typ {
			out = append(out, inst)
		}
	}
	return out
}

// ActiveByCollateral returns active HELOCs drawn against the property.
func (l *Ledger) ActiveByCollateral(propertyID int64) []*Instrument {
	var out []*Instrument
	for _, inst := range l.instruments {
		if inst.Active() && inst.Type == TypeHELOC &&
			inst.CollateralID != nil && *inst.CollateralID == propertyID {
			out = append(out, inst)
		}
	}
	return out
}

// CollateralExposure sums active HELOC balances against the property.
func (l *Ledger) CollateralExposure(propertyID int64) float64 {
	total := 0.0
	for _, inst := range l.ActiveByCollateral(propertyID) {
		total += inst.Balance
	}
	return total
}

// DebtByOwner sums active loan and HELOC balances for the player.
func (l *Ledger) DebtByOwner(ownerID int64) float64 {
	total := 0.0
	for _, inst := range l.instruments {
		if inst.Active() && inst.OwnerID == ownerID && inst.Type != TypeCD {
			total += inst.Balance
		}
	}
	return total
}

// assertNonNegative guards the balance invariant. A negative balance is a
// programming error, never a domain condition.
func assertNonNegative(inst *Instrument) {
	if inst.Balance < 0 {
		panic(fmt.Sprintf("bank: instrument %s balance went negative: %.4f", inst.ID, inst.Balance))
	}
}
