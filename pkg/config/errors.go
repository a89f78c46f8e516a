package config

import (
	"errors"
	"fmt"
)

// ErrOverrideNotFound reports that none of the conventional override files
// exist. It is the normal case for a checkout without local settings.
var ErrOverrideNotFound = errors.New("local config not found")

// Validation errors returned by [Config.Validate].
var (
	// ErrNoNetworks indicates an empty network table.
	ErrNoNetworks = errors.New("no networks configured")
	// ErrMissingNetworkID indicates a network without network_id.
	ErrMissingNetworkID = errors.New("network_id is required")
	// ErrInvalidNetworkID indicates a network_id that is neither "*" nor a
	// decimal number.
	ErrInvalidNetworkID = errors.New("network_id must be \"*\" or a decimal number")
	// ErrEndpointConflict indicates a network with both host/port and provider.
	ErrEndpointConflict = errors.New("network must set either host/port or provider, not both")
	// ErrInvalidPort indicates a static port outside 1-65535.
	ErrInvalidPort = errors.New("port must be between 1 and 65535")
	// ErrInvalidGasPrice indicates a gas_price that cannot be parsed.
	ErrInvalidGasPrice = errors.New("invalid gas_price")
)

// OverrideLoadError is returned when an override file exists but could not be
// read, parsed or decoded.
type OverrideLoadError struct {
	Path string
	Err  error
}

func (e *OverrideLoadError) Error() string {
	return fmt.Sprintf("load local config %s: %v", e.Path, e.Err)
}

func (e *OverrideLoadError) Unwrap() error {
	return e.Err
}
