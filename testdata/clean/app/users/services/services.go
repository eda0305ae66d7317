package services

func Name() string { return "users" }
