package services

import (
	"example.com/shop/app/users/internal/helper"
	"example.com/shop/app/users/models"
)

func Register(email string) *models.User {
	u := &models.User{Email: email}
	helper.Normalize(u)
	return u
}
