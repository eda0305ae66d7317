package models

type User struct {
	ID    string
	Email string
}
