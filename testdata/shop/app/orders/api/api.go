package api

import (
	"example.com/shop/app/users/models"
	"example.com/shop/app/users/services"
)

func Signup(email string) models.User {
	return *services.Register(email)
}
