package config

// Currency is the default currency code.
const Currency = "EUR"
