package service

import (
	"fmt"

	"example.com/shop/app/config"
	"example.com/shop/app/users/models"
)

func Describe(u models.User, amount int) string {
	return fmt.Sprintf("%s owes %d %s", u.Email, amount, config.Currency)
}
