package api

import "example.com/clean/app/users/services"

func Owner() string { return services.Name() }
