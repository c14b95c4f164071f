package entities

import "time"

// DepositView is a Deposit enriched with the derived polling hints. The
// hints are advisory UI sugar recomputed on every response and never stored.
type DepositView struct {
	Deposit
	EtaMs      *int64     `json:"etaMs"`
	NextAction NextAction `json:"nextAction"`
}

// ViewOf derives the response view of a deposit at the given instant.
// EtaMs is nil once the deposit is terminal.
func ViewOf(d Deposit, now time.Time, window time.Duration) DepositView {
	view := DepositView{
		Deposit:    d,
		NextAction: NextActionFor(d),
	}

	if d.Status == DepositStatusPending || d.Status == DepositStatusConfirming {
		eta := window.Milliseconds() - now.Sub(d.CreatedAt).Milliseconds()
		if eta < 0 {
			eta = 0
		}
		view.EtaMs = &eta
	}

	return view
}
