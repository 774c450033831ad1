package order

import (
	"fmt"
	"strings"

	"bakery-be/internal/utils"
)

// WhatsAppMessage renders the frozen order for the chat hand-off to staff.
func WhatsAppMessage(o *Order) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Halo, saya ingin konfirmasi pesanan *%s*\n", o.ID)
	fmt.Fprintf(&b, "Kode transaksi: %s\n", o.TransactionCode)
	fmt.Fprintf(&b, "Tanggal: %s\n\n", o.CreatedAt.Format("02 Jan 2006 15:04"))

	b.WriteString("Pesanan:\n")
	for i, it := range o.Items {
		name := it.Name
		if it.Variant != "" {
			name = fmt.Sprintf("%s (%s)", name, it.Variant)
		}
		fmt.Fprintf(&b, "%d. %s x%d %s @ %s = %s\n",
			i+1, name, it.Qty, it.UnitLabel,
			utils.FormatRupiah(it.UnitPrice), utils.FormatRupiah(it.Subtotal))
	}

	fmt.Fprintf(&b, "\nSubtotal: %s\n", utils.FormatRupiah(o.Subtotal))
	fmt.Fprintf(&b, "Ongkir: %s\n", utils.FormatRupiah(o.ShippingFee))
	if o.Discount > 0 {
		if code := utils.PtrString(o.VoucherCode); code != "" {
			fmt.Fprintf(&b, "Diskon (%s): -%s\n", code, utils.FormatRupiah(o.Discount))
		} else {
			fmt.Fprintf(&b, "Diskon: -%s\n", utils.FormatRupiah(o.Discount))
		}
	}
	fmt.Fprintf(&b, "*Total: %s*\n\n", utils.FormatRupiah(o.Total))

	if o.Method.Label != "" {
		fmt.Fprintf(&b, "Pembayaran: %s\n", o.Method.Label)
	}

	s := o.Shipping
	fmt.Fprintf(&b, "Kirim ke: %s (%s)\n", s.Name, s.Phone)
	addr := strings.TrimSpace(strings.Join([]string{s.Address, s.City, s.PostalCode}, " "))
	if addr != "" {
		fmt.Fprintf(&b, "%s\n", addr)
	}
	if s.ShippingMethod != "" {
		fmt.Fprintf(&b, "Pengiriman: %s\n", s.ShippingMethod)
	}
	if s.Note != "" {
		fmt.Fprintf(&b, "Catatan: %s\n", s.Note)
	}

	return strings.TrimRight(b.String(), "\n")
}
