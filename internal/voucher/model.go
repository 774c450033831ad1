package voucher

import "time"

type Type string

const (
	TypePercent Type = "percent"
	TypeNominal Type = "nominal"
)

type Voucher struct {
	Code        string     `json:"code"`
	Type        Type       `json:"type"`
	Value       float64    `json:"value"`
	MinSubtotal int64      `json:"minSubtotal,omitempty"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
	Note        string     `json:"note,omitempty"`
}

// Expired reports whether now is past the voucher's expiry.
func (v *Voucher) Expired(now time.Time) bool {
	return v.ExpiresAt != nil && now.After(*v.ExpiresAt)
}

// Reason explains why an applied code produced no discount.
type Reason string

const (
	ReasonNone        Reason = ""
	ReasonUnknown     Reason = "unknown"
	ReasonExpired     Reason = "expired"
	ReasonMinSubtotal Reason = "below_minimum"
)

type Application struct {
	Voucher *Voucher `json:"voucher,omitempty"`
	Amount  int64    `json:"amount"`
	Reason  Reason   `json:"reason,omitempty"`
}
