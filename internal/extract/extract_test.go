package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var testNow = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

func TestFromFileNameTokenRules(t *testing.T) {
	tests := []struct {
		name       string
		fileName   string
		wantVendor string
		wantAmount float64
		wantDate   string
	}{
		{
			name:       "vendor amount and date",
			fileName:   "acme_250.50_2024-03-01.pdf",
			wantVendor: "Acme",
			wantAmount: 250.50,
			wantDate:   "2024-03-01",
		},
		{
			name:       "alphabetic base name overrides vendor",
			fileName:   "receipt.pdf",
			wantVendor: "Receipt",
			wantAmount: 199.0,
			wantDate:   "2024-03-15",
		},
		{
			name:       "no matching tokens keeps defaults",
			fileName:   "io.pdf",
			wantVendor: "Acme Corp",
			wantAmount: 199.0,
			wantDate:   "2024-03-15",
		},
		{
			name:       "last numeric token wins",
			fileName:   "ACME_10_20.pdf",
			wantVendor: "Acme",
			wantAmount: 20,
			wantDate:   "2024-03-15",
		},
		{
			name:       "last alphabetic token wins",
			fileName:   "acme_globex_99.pdf",
			wantVendor: "Globex",
			wantAmount: 99,
			wantDate:   "2024-03-15",
		},
		{
			name:       "hyphen separates tokens too",
			fileName:   "vendor-42.pdf",
			wantVendor: "Vendor",
			wantAmount: 42,
			wantDate:   "2024-03-15",
		},
		{
			name:       "date shape is not calendar validated",
			fileName:   "ab_2024-13-99.pdf",
			wantVendor: "Acme Corp",
			wantAmount: 199.0,
			wantDate:   "2024-13-99",
		},
		{
			name:       "two decimal points is not a number",
			fileName:   "abc_12.34.56.pdf",
			wantVendor: "Abc",
			wantAmount: 199.0,
			wantDate:   "2024-03-15",
		},
		{
			name:       "digits are not alphabetic",
			fileName:   "a1b2c3_77.pdf",
			wantVendor: "Acme Corp",
			wantAmount: 77,
			wantDate:   "2024-03-15",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromFileName(tt.fileName, testNow)
			assert.Equal(t, tt.wantVendor, got.VendorName)
			assert.Equal(t, tt.wantAmount, got.TotalAmount)
			assert.Equal(t, tt.wantDate, got.Date)
		})
	}
}

func TestFromFileNameInvoiceNumberFromTimestamp(t *testing.T) {
	got := FromFileName("io.pdf", testNow)
	assert.Equal(t, "INV-1710498600", got.InvoiceNumber)
}

func TestFromFileNameStripsDirectories(t *testing.T) {
	got := FromFileName("/tmp/some/dir/acme_42.pdf", testNow)
	assert.Equal(t, "Acme", got.VendorName)
	assert.Equal(t, 42.0, got.TotalAmount)
}
