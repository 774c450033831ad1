// Package voucher resolves discount codes against the static voucher list.
package voucher

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Discount returns the amount v takes off subtotal at now. Unknown, expired
// and below-minimum vouchers yield zero. The result never exceeds subtotal.
func Discount(subtotal int64, v *Voucher, now time.Time) int64 {
	amount, _ := discount(subtotal, v, now)
	return amount
}

func discount(subtotal int64, v *Voucher, now time.Time) (int64, Reason) {
	if v == nil {
		return 0, ReasonUnknown
	}
	if v.Expired(now) {
		return 0, ReasonExpired
	}
	if subtotal < v.MinSubtotal {
		return 0, ReasonMinSubtotal
	}
	if subtotal <= 0 {
		return 0, ReasonNone
	}

	switch v.Type {
	case TypePercent:
		pct := v.Value
		if pct < 0 {
			pct = 0
		}
		if pct > 100 {
			pct = 100
		}
		amount := decimal.NewFromInt(subtotal).
			Mul(decimal.NewFromFloat(pct)).
			Div(decimal.NewFromInt(100)).
			Floor().
			IntPart()
		return amount, ReasonNone
	default:
		nominal := decimal.NewFromFloat(v.Value).Floor().IntPart()
		if nominal < 0 {
			nominal = 0
		}
		if nominal > subtotal {
			nominal = subtotal
		}
		return nominal, ReasonNone
	}
}

type Resolver struct {
	vouchers map[string]Voucher
	now      func() time.Time
}

func NewResolver(vouchers []Voucher) *Resolver {
	r := &Resolver{
		vouchers: make(map[string]Voucher, len(vouchers)),
		now:      time.Now,
	}
	for _, v := range vouchers {
		r.vouchers[normalize(v.Code)] = v
	}
	return r
}

func NewDefaultResolver() *Resolver {
	return NewResolver(DefaultCatalog())
}

func normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// FindVoucher matches code case-insensitively.
func (r *Resolver) FindVoucher(code string) (*Voucher, bool) {
	if code == "" {
		return nil, false
	}
	v, ok := r.vouchers[normalize(code)]
	if !ok {
		return nil, false
	}
	return &v, true
}

func (r *Resolver) Discount(code string, subtotal int64) int64 {
	return r.Apply(code, subtotal).Amount
}

// Apply resolves code against subtotal and reports why the discount is zero
// when it is.
func (r *Resolver) Apply(code string, subtotal int64) Application {
	v, ok := r.FindVoucher(code)
	if !ok {
		return Application{Reason: ReasonUnknown}
	}

	amount, reason := discount(subtotal, v, r.now())
	return Application{Voucher: v, Amount: amount, Reason: reason}
}
