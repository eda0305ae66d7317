package main

import "example.com/shop/app/orders/api"

func main() {
	_ = api.Signup("someone@example.com")
}
