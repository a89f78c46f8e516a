package config

import (
	"errors"
	"fmt"

	"dario.cat/mergo"
	"github.com/shamank/chaincfg/pkg/blockchain"
)

// Validate fills static endpoint defaults and checks every network: each one
// needs a network_id and exactly one of host/port or provider. Networks
// without a provider get DefaultHost and DefaultPort for whatever they leave
// unset. All problems are reported together.
func (c *Config) Validate() error {
	if len(c.Networks) == 0 {
		return ErrNoNetworks
	}

	var errs []error
	for _, name := range c.NetworkNames() {
		n, err := c.Networks[name].withDefaults()
		if err == nil {
			err = n.validate()
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("network %q: %w", name, err))
			continue
		}
		c.Networks[name] = n
	}
	return errors.Join(errs...)
}

func (n Network) withDefaults() (Network, error) {
	if !n.IsStatic() {
		return n, nil
	}
	if err := mergo.Merge(&n, Network{Host: DefaultHost, Port: DefaultPort}); err != nil {
		return n, fmt.Errorf("apply network defaults: %w", err)
	}
	return n, nil
}

func (n Network) validate() error {
	if n.NetworkID == "" {
		return ErrMissingNetworkID
	}
	if !validNetworkID(n.NetworkID) {
		return fmt.Errorf("%w: %q", ErrInvalidNetworkID, n.NetworkID)
	}
	if !n.IsStatic() && (n.Host != "" || n.Port != 0) {
		return ErrEndpointConflict
	}
	if n.IsStatic() && (n.Port < 1 || n.Port > 65535) {
		return fmt.Errorf("%w: %d", ErrInvalidPort, n.Port)
	}
	if n.GasPrice != "" {
		if _, err := blockchain.ParseGasPrice(n.GasPrice); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidGasPrice, err)
		}
	}
	return nil
}

func validNetworkID(id string) bool {
	if id == blockchain.AnyNetwork {
		return true
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
