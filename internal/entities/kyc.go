package entities

import "time"

// KYCStatus is the approval state of an identity.
type KYCStatus string

const (
	KYCStatusPending  KYCStatus = "pending"
	KYCStatusApproved KYCStatus = "approved"
	KYCStatusRejected KYCStatus = "rejected"
)

// ValidKYCStatus reports whether s is one of the enumerated KYC statuses.
func ValidKYCStatus(s string) bool {
	switch KYCStatus(s) {
	case KYCStatusPending, KYCStatusApproved, KYCStatusRejected:
		return true
	}
	return false
}

// KYCRecord maps an identity to its approval status. At most one record
// exists per address; unknown addresses are treated as pending without
// being persisted.
type KYCRecord struct {
	Address   string    `json:"address"`
	Status    KYCStatus `json:"status"`
	Notes     string    `json:"notes,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}
