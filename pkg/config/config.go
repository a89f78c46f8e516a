// Package config resolves the configuration handed to the contract build,
// deploy and test tooling: the network table, test-runner and reporter options,
// and compiler settings. Built-in defaults are deep-merged with an optional
// local override file; a missing or broken override never stops resolution.
package config

import (
	"sort"
	"time"

	"github.com/shamank/chaincfg/pkg/blockchain"
)

const (
	// DefaultHost and DefaultPort address a local development node.
	DefaultHost = "localhost"
	DefaultPort = 8545

	// DefaultReporter is the gas reporter used by the test runner.
	DefaultReporter = "eth-gas-reporter"
	// DefaultCurrency is the fiat currency gas costs are reported in.
	DefaultCurrency = "USD"
	// DefaultCompilerVersion is the solc version range contracts compile with.
	DefaultCompilerVersion = ">=0.5.10"
)

// Config is the resolved configuration. The koanf tags are the keys used in
// override files.
type Config struct {
	// Networks maps a network name to the descriptor used to reach it.
	Networks map[string]Network `koanf:"networks" json:"networks" yaml:"networks"`
	// TestRunner configures the contract test runner and its reporter.
	TestRunner TestRunner `koanf:"test_runner" json:"test_runner" yaml:"test_runner"`
	// Compilers configures the contract compilers.
	Compilers Compilers `koanf:"compilers" json:"compilers" yaml:"compilers"`
}

// Network describes how to address one target chain. A network is either
// static (Host and Port) or dynamic (Provider), never both.
type Network struct {
	Host string `koanf:"host" json:"host,omitempty" yaml:"host,omitempty"`
	Port int    `koanf:"port" json:"port,omitempty" yaml:"port,omitempty"`
	// NetworkID is the decimal network id, or "*" to accept any network.
	NetworkID string `koanf:"network_id" json:"network_id" yaml:"network_id"`
	// Provider builds a signing-enabled connection on demand.
	Provider blockchain.Factory `koanf:"provider" json:"-" yaml:"-"`
	// Gas is the gas limit for deployments; zero lets the node estimate.
	Gas uint64 `koanf:"gas" json:"gas,omitempty" yaml:"gas,omitempty"`
	// GasPrice is a wei amount or a decimal with a unit, e.g. "25 gwei".
	GasPrice string `koanf:"gas_price" json:"gas_price,omitempty" yaml:"gas_price,omitempty"`
}

// IsStatic reports whether the network is reached through host and port.
func (n Network) IsStatic() bool {
	return n.Provider == nil
}

// Endpoint returns the JSON-RPC URL of a static network.
func (n Network) Endpoint() string {
	return blockchain.StaticEndpoint(n.Host, n.Port)
}

// TestRunner holds the test runner options.
type TestRunner struct {
	EnableTimeouts bool `koanf:"enable_timeouts" json:"enable_timeouts" yaml:"enable_timeouts"`
	// Timeout is the per-test timeout; it only applies when EnableTimeouts is set.
	Timeout time.Duration `koanf:"timeout" json:"timeout,omitempty" yaml:"timeout,omitempty"`
	// Grep filters the tests to run. Empty runs everything.
	Grep            string          `koanf:"grep" json:"grep,omitempty" yaml:"grep,omitempty"`
	Reporter        string          `koanf:"reporter" json:"reporter" yaml:"reporter"`
	ReporterOptions ReporterOptions `koanf:"reporter_options" json:"reporter_options" yaml:"reporter_options"`
}

// ReporterOptions configures the gas reporter.
type ReporterOptions struct {
	Currency         string   `koanf:"currency" json:"currency" yaml:"currency"`
	ExcludeContracts []string `koanf:"exclude_contracts" json:"exclude_contracts" yaml:"exclude_contracts"`
}

// Compilers groups the settings of each supported compiler.
type Compilers struct {
	Solc Compiler `koanf:"solc" json:"solc" yaml:"solc"`
}

// Compiler pins a compiler version range and its settings.
type Compiler struct {
	// Version is a semver range such as ">=0.5.10" or "^0.5.0".
	Version  string           `koanf:"version" json:"version" yaml:"version"`
	Settings CompilerSettings `koanf:"settings" json:"settings" yaml:"settings"`
}

// CompilerSettings are passed through to the compiler.
type CompilerSettings struct {
	Optimizer  Optimizer `koanf:"optimizer" json:"optimizer" yaml:"optimizer"`
	EVMVersion string    `koanf:"evm_version" json:"evm_version,omitempty" yaml:"evm_version,omitempty"`
}

// Optimizer toggles the bytecode optimizer.
type Optimizer struct {
	Enabled bool `koanf:"enabled" json:"enabled" yaml:"enabled"`
	Runs    int  `koanf:"runs" json:"runs,omitempty" yaml:"runs,omitempty"`
}

// Mainnet, Rinkeby, Goerli and Develop are the predefined static networks,
// all served by a local node.
var (
	Mainnet = Network{Host: DefaultHost, Port: DefaultPort, NetworkID: "1"}
	Rinkeby = Network{Host: DefaultHost, Port: DefaultPort, NetworkID: "4"}
	Goerli  = Network{Host: DefaultHost, Port: DefaultPort, NetworkID: "5"}
	Develop = Network{Host: DefaultHost, Port: DefaultPort, NetworkID: blockchain.AnyNetwork}
)

// Ropsten returns the predefined signing network. Its keys and endpoint come
// from the environment.
func Ropsten(env Env) Network {
	return Network{
		Provider:  blockchain.NewKeyedFactory(env.PrivateKeys, env.EndpointURL),
		NetworkID: "3",
	}
}

// Defaults builds the built-in configuration. Only env-sourced values vary
// between calls.
func Defaults(env Env) *Config {
	return &Config{
		Networks: map[string]Network{
			"ropsten": Ropsten(env),
			"mainnet": Mainnet,
			"rinkeby": Rinkeby,
			"goerli":  Goerli,
			"develop": Develop,
		},
		TestRunner: TestRunner{
			EnableTimeouts: false,
			Grep:           env.TestGrep,
			Reporter:       DefaultReporter,
			ReporterOptions: ReporterOptions{
				Currency:         DefaultCurrency,
				ExcludeContracts: []string{"Migrations"},
			},
		},
		Compilers: Compilers{
			Solc: Compiler{
				Version: DefaultCompilerVersion,
				Settings: CompilerSettings{
					Optimizer: Optimizer{Enabled: true},
				},
			},
		},
	}
}

// NetworkNames returns the configured network names in sorted order.
func (c *Config) NetworkNames() []string {
	names := make([]string, 0, len(c.Networks))
	for name := range c.Networks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a copy of c that shares no maps or slices with it. Provider
// factories are shared.
func (c *Config) Clone() *Config {
	out := *c
	out.Networks = make(map[string]Network, len(c.Networks))
	for name, n := range c.Networks {
		out.Networks[name] = n
	}
	out.TestRunner.ReporterOptions.ExcludeContracts = append([]string(nil), c.TestRunner.ReporterOptions.ExcludeContracts...)
	return &out
}
