package helper

import (
	"strings"

	"example.com/shop/app/users/models"
)

func Normalize(u *models.User) {
	u.Email = strings.ToLower(u.Email)
}
