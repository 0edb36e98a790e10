package core

import (
	"fmt"
	"math/rand"
	"time"
)

const invoiceNumberPrefix = "INV"

// NewInvoiceNumber returns a human-readable invoice identifier of the
// form INV-YYYYMMDD-#### where #### is a random suffix in [1000,9999].
//
// This function performs no uniqueness check: collision avoidance is
// probabilistic (roughly 1-in-9000 per day). True uniqueness is
// enforced by the invoices table's unique constraint, and the
// persistence layer retries with a fresh suffix on conflict.
func NewInvoiceNumber(now time.Time, rng *rand.Rand) string {
	suffix := 1000 + rng.Intn(9000)
	return fmt.Sprintf("%s-%s-%04d", invoiceNumberPrefix, now.Format("20060102"), suffix)
}
