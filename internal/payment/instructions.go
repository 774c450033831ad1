package payment

import (
	"strings"
	"unicode"

	"bakery-be/internal/order"
)

const (
	MethodQRIS = "qris"

	// Virtual Account
	MethodBCAVA     = "bca-va"
	MethodBNIVA     = "bni-va"
	MethodMandiriVA = "mandiri-va"

	// E-Wallet
	MethodOVO       = "ovo"
	MethodDANA      = "dana"
	MethodLinkAja   = "linkaja"
	MethodShopeePay = "shopeepay"

	// Retail Outlet
	MethodAlfamart  = "alfamart"
	MethodIndomaret = "indomaret"

	MethodCOD = "cod"
)

const (
	CategoryQRIS           = "qris"
	CategoryVirtualAccount = "virtual_account"
	CategoryEWallet        = "ewallet"
	CategoryRetail         = "retail"
	CategoryCOD            = "cod"
)

// Method is one entry of the payment method picker.
type Method struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Category string `json:"category"`
	// QR methods show the countdown on the gateway screen.
	QR bool `json:"qr"`

	codePrefix string
}

// Descriptor is the form stored on the order.
func (m Method) Descriptor() order.Method {
	return order.Method{ID: m.ID, Label: m.Label, Category: m.Category}
}

var catalog = []Method{
	{ID: MethodQRIS, Label: "QRIS", Category: CategoryQRIS, QR: true},
	{ID: MethodBCAVA, Label: "BCA Virtual Account", Category: CategoryVirtualAccount, codePrefix: "39358"},
	{ID: MethodBNIVA, Label: "BNI Virtual Account", Category: CategoryVirtualAccount, codePrefix: "8808"},
	{ID: MethodMandiriVA, Label: "Mandiri Virtual Account", Category: CategoryVirtualAccount, codePrefix: "88908"},
	{ID: MethodOVO, Label: "OVO", Category: CategoryEWallet},
	{ID: MethodDANA, Label: "DANA", Category: CategoryEWallet},
	{ID: MethodLinkAja, Label: "LinkAja", Category: CategoryEWallet},
	{ID: MethodShopeePay, Label: "ShopeePay", Category: CategoryEWallet, QR: true},
	{ID: MethodAlfamart, Label: "Alfamart", Category: CategoryRetail, codePrefix: "BKR"},
	{ID: MethodIndomaret, Label: "Indomaret", Category: CategoryRetail, codePrefix: "BKR"},
	{ID: MethodCOD, Label: "Bayar di Tempat (COD)", Category: CategoryCOD},
}

func Methods() []Method {
	out := make([]Method, len(catalog))
	copy(out, catalog)
	return out
}

func FindMethod(id string) (Method, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	for _, m := range catalog {
		if m.ID == id {
			return m, true
		}
	}
	return Method{}, false
}

// PaymentCode derives the number the customer types at the bank or the
// cashier. QR, e-wallet and COD methods have none.
func PaymentCode(m Method, orderID, transactionCode string) string {
	switch m.Category {
	case CategoryVirtualAccount:
		digits := onlyDigits(orderID)
		if len(digits) > 10 {
			digits = digits[len(digits)-10:]
		}
		return m.codePrefix + digits
	case CategoryRetail:
		return m.codePrefix + onlyDigits(transactionCode)
	}
	return ""
}

func onlyDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}

var InstructionMap = map[string][]string{
	MethodCOD: {
		"Pesanan akan dikirim ke alamat tujuan",
		"Siapkan uang tunai sebesar {{amount}} saat kurir tiba",
		"Lakukan pembayaran langsung kepada kurir",
		"Simpan bukti pembayaran dari kurir",
	},

	MethodBCAVA: {
		"Buka aplikasi BCA Mobile, KlikBCA, atau ATM BCA",
		"Pilih menu Transfer → Virtual Account",
		"Masukkan nomor Virtual Account {{payment_code}}",
		"Pastikan nama penerima dan nominal {{amount}} sudah sesuai",
		"Lakukan pembayaran sebelum {{deadline}}",
	},

	MethodBNIVA: {
		"Buka aplikasi BNI Mobile Banking atau ATM BNI",
		"Pilih menu Virtual Account Billing",
		"Masukkan nomor Virtual Account {{payment_code}}",
		"Periksa detail pembayaran dengan nominal {{amount}}",
		"Konfirmasi dan selesaikan pembayaran sebelum {{deadline}}",
	},

	MethodMandiriVA: {
		"Buka aplikasi Livin’ by Mandiri atau ATM Mandiri",
		"Pilih menu Bayar → Multi Payment",
		"Masukkan nomor Virtual Account {{payment_code}}",
		"Pastikan detail pembayaran dengan nominal {{amount}} sudah benar",
		"Selesaikan transaksi pembayaran sebelum {{deadline}}",
	},

	MethodQRIS: {
		"Buka aplikasi e-wallet atau mobile banking yang mendukung QRIS",
		"Pilih menu Scan / Bayar",
		"Pindai kode QR yang ditampilkan",
		"Periksa nominal pembayaran {{amount}}",
		"Konfirmasi pembayaran sebelum kode QR kedaluwarsa",
	},

	MethodOVO: {
		"Buka aplikasi OVO",
		"Pastikan saldo mencukupi untuk pembayaran {{amount}}",
		"Konfirmasi pembayaran pada notifikasi yang muncul",
		"Masukkan PIN OVO untuk menyelesaikan pembayaran",
	},

	MethodDANA: {
		"Buka aplikasi DANA",
		"Pastikan saldo DANA mencukupi untuk pembayaran {{amount}}",
		"Konfirmasi pembayaran",
		"Masukkan PIN DANA untuk menyelesaikan transaksi",
	},

	MethodLinkAja: {
		"Buka aplikasi LinkAja",
		"Pastikan saldo mencukupi untuk pembayaran {{amount}}",
		"Konfirmasi pembayaran",
		"Masukkan PIN untuk menyelesaikan transaksi",
	},

	MethodShopeePay: {
		"Buka aplikasi Shopee",
		"Pindai kode QR yang ditampilkan",
		"Pastikan saldo ShopeePay mencukupi untuk pembayaran {{amount}}",
		"Masukkan PIN ShopeePay",
	},

	MethodAlfamart: {
		"Datang ke gerai Alfamart terdekat",
		"Sampaikan kepada kasir ingin melakukan pembayaran Toko Roti",
		"Tunjukkan kode pembayaran {{payment_code}} kepada kasir",
		"Lakukan pembayaran sesuai nominal {{amount}}",
		"Simpan struk sebagai bukti pembayaran",
	},

	MethodIndomaret: {
		"Datang ke gerai Indomaret terdekat",
		"Sampaikan kepada kasir ingin melakukan pembayaran Toko Roti",
		"Tunjukkan kode pembayaran {{payment_code}} kepada kasir",
		"Lakukan pembayaran sesuai nominal {{amount}}",
		"Simpan struk sebagai bukti pembayaran",
	},
}

func GetInstructions(method string) []string {
	if steps, ok := InstructionMap[method]; ok {
		return steps
	}

	return []string{
		"Ikuti instruksi pembayaran yang tersedia pada halaman ini",
	}
}

type InstructionVars map[string]string

func InjectVariables(
	steps []string,
	vars InstructionVars,
) []string {
	result := make([]string, 0, len(steps))

	for _, step := range steps {
		updated := step
		for key, value := range vars {
			updated = strings.ReplaceAll(
				updated,
				"{{"+key+"}}",
				value,
			)
		}
		result = append(result, updated)
	}

	return result
}
