package ledger

import "example.com/shop/app/orders/service"

type Entry struct {
	Text string
}

var _ = service.Describe
