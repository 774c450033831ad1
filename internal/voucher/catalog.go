package voucher

import "time"

func expiry(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 23, 59, 59, 0, time.FixedZone("WIB", 7*3600))
	return &t
}

// DefaultCatalog is the storefront's voucher list.
func DefaultCatalog() []Voucher {
	return []Voucher{
		{Code: "SWEET10", Type: TypeNominal, Value: 10000, MinSubtotal: 50000, Note: "Potongan Rp10.000 min. belanja Rp50.000"},
		{Code: "PAYDAY", Type: TypePercent, Value: 15, MinSubtotal: 75000, Note: "Diskon 15% min. belanja Rp75.000"},
		{Code: "NEWBIE5K", Type: TypeNominal, Value: 5000, Note: "Potongan Rp5.000 untuk pelanggan baru"},
		{Code: "RAMADAN20", Type: TypePercent, Value: 20, MinSubtotal: 150000, ExpiresAt: expiry(2025, time.March, 30), Note: "Diskon Ramadan 20%"},
		{Code: "HARBOLNAS", Type: TypePercent, Value: 12, MinSubtotal: 100000, ExpiresAt: expiry(2026, time.December, 12)},
	}
}
