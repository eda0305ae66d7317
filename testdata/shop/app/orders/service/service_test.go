package service_test

import (
	"testing"

	"example.com/shop/app/billing/ledger"
)

func TestLedgerEntry(t *testing.T) {
	_ = ledger.Entry{}
}
