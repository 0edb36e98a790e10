package core_test

import (
	"math/rand"
	"regexp"
	"strings"
	"testing"
	"time"

	"lumix-backoffice/internal/core"
)

var invoiceNumberPattern = regexp.MustCompile(`^INV-\d{8}-\d{4}$`)

func TestNewInvoiceNumber_Format(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	now := time.Date(2024, time.March, 9, 15, 4, 5, 0, time.UTC)

	for i := 0; i < 200; i++ {
		n := core.NewInvoiceNumber(now, rng)
		if !invoiceNumberPattern.MatchString(n) {
			t.Fatalf("number %q does not match INV-YYYYMMDD-####", n)
		}
		if !strings.HasPrefix(n, "INV-20240309-") {
			t.Fatalf("number %q does not carry the generation date", n)
		}
	}
}

func TestNewInvoiceNumber_SuffixRange(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	now := time.Now()

	for i := 0; i < 500; i++ {
		n := core.NewInvoiceNumber(now, rng)
		suffix := n[len(n)-4:]
		if suffix[0] == '0' {
			t.Fatalf("suffix %q below 1000 in %q", suffix, n)
		}
	}
}
