package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Env holds the configuration inputs taken from the process environment.
type Env struct {
	// TestGrep filters the test run; unset means run everything.
	TestGrep string `env:"TEST_GREP"`
	// PrivateKeys are the hex keys of the default signing network,
	// comma-separated in the environment.
	PrivateKeys []string `env:"CHAINCFG_PRIVATE_KEY" envSeparator:","`
	// EndpointURL is the remote node the default signing network dials.
	EndpointURL string `env:"CHAINCFG_ENDPOINT_URL"`
}

// LoadEnv reads Env from the process environment.
func LoadEnv() (Env, error) {
	e, err := env.ParseAs[Env]()
	if err != nil {
		return Env{}, fmt.Errorf("error getting env configs: %w", err)
	}
	return e, nil
}
