package config

import "time"

type Remote struct {
	BaseURL  string        `env:"REMOTE_BASE_URL,required,notEmpty" validate:"required,http_url"`
	Timeout  time.Duration `env:"REMOTE_TIMEOUT" envDefault:"10s" validate:"gt=0s"`
	APIToken string        `env:"REMOTE_API_TOKEN"`
}
