package config

import "time"

type Dashboard struct {
	SearchDebounce time.Duration `env:"DASHBOARD_SEARCH_DEBOUNCE" envDefault:"300ms" validate:"gte=0s"`
	SuccessRevert  time.Duration `env:"DASHBOARD_SUCCESS_REVERT" envDefault:"2s" validate:"gt=0s"`
	ErrorRevert    time.Duration `env:"DASHBOARD_ERROR_REVERT" envDefault:"3s" validate:"gt=0s"`
	// SessionFromDB reads the bearer token from the sessions table instead of REMOTE_API_TOKEN.
	SessionFromDB bool `env:"DASHBOARD_SESSION_FROM_DB" envDefault:"true"`
}
