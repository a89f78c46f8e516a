// Package deploy is the consumer side of a resolved configuration. It
// validates a Config once, then connects to the configured networks on demand
// and prepares transactors that carry each network's gas settings.
package deploy

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shamank/chaincfg/pkg/blockchain"
	"github.com/shamank/chaincfg/pkg/config"
	"go.uber.org/zap"
)

var (
	// ErrUnknownNetwork is returned by Connect for a name missing from the
	// network table.
	ErrUnknownNetwork = errors.New("unknown network")
	// ErrReadOnly is returned when a transactor is requested for a static
	// network, which has no signing keys.
	ErrReadOnly = errors.New("network has no provider and cannot sign")
	// ErrNotConnected is returned when a provider factory yields no live
	// client.
	ErrNotConnected = errors.New("provider factory returned no connection")
)

// Deployer is the public interface handed a resolved configuration.
type Deployer interface {
	// Networks returns the configured network names, sorted.
	Networks() []string

	// Connect dials the named network and verifies its network id.
	Connect(ctx context.Context, name string) (*Target, error)

	// Compiler returns the solc settings.
	Compiler() config.Compiler

	// Close releases every connection opened through Connect.
	Close()
}

// init configures a default global zap logger. Applications may replace it
// with zap.ReplaceGlobals(...) if they need custom logging.
func init() {
	c := zap.Config{
		Level:            zap.NewAtomicLevelAt(zap.InfoLevel),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, err := c.Build()
	if err != nil {
		panic(err)
	}
	zap.ReplaceGlobals(logger)
}

// Core is the concrete Deployer. It embeds the validated configuration.
type Core struct {
	*config.Config

	mu      sync.Mutex
	targets []*Target
}

// NewDeployer validates a copy of cfg, with host and port defaults filled
// in, and returns a Deployer for it. cfg itself is left untouched. No
// connection is made until Connect.
func NewDeployer(cfg *config.Config) (Deployer, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	own := cfg.Clone()
	if err := own.Validate(); err != nil {
		zap.L().Error("Invalid config", zap.Error(err))
		return nil, err
	}
	return &Core{Config: own}, nil
}

// Networks returns the configured network names, sorted.
func (c *Core) Networks() []string {
	return c.NetworkNames()
}

// Compiler returns the solc settings.
func (c *Core) Compiler() config.Compiler {
	return c.Compilers.Solc
}

// Connect dials the named network. Static networks are dialed at host:port;
// provider networks go through their Factory. The node's network id must
// match the configured one unless it is "*".
func (c *Core) Connect(ctx context.Context, name string) (*Target, error) {
	network, ok := c.Config.Networks[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNetwork, name)
	}

	target := &Target{Name: name, Network: network}
	if network.IsStatic() {
		client, err := blockchain.Dial(ctx, network.Endpoint())
		if err != nil {
			return nil, fmt.Errorf("network %q: %w", name, err)
		}
		target.EVMClient = client
	} else {
		provider, err := network.Provider.NewProvider(ctx)
		if err != nil {
			return nil, fmt.Errorf("network %q: %w", name, err)
		}
		if provider == nil || provider.EVMClient == nil || provider.Client == nil {
			return nil, fmt.Errorf("network %q: %w", name, ErrNotConnected)
		}
		target.EVMClient = provider.EVMClient
		target.Accounts = provider.Accounts
		target.provider = provider
	}

	if err := target.CheckNetworkID(ctx, network.NetworkID); err != nil {
		target.Close()
		return nil, fmt.Errorf("network %q: %w", name, err)
	}

	zap.L().Debug("connected",
		zap.String("network", name),
		zap.String("endpoint", target.Endpoint),
		zap.Int("accounts", len(target.Accounts)))

	c.mu.Lock()
	c.targets = append(c.targets, target)
	c.mu.Unlock()

	return target, nil
}

// Close shuts down every connection opened through Connect.
func (c *Core) Close() {
	c.mu.Lock()
	targets := c.targets
	c.targets = nil
	c.mu.Unlock()

	for _, t := range targets {
		t.Close()
	}
}

// Target is a live connection to one configured network.
type Target struct {
	*blockchain.EVMClient
	Name    string
	Network config.Network
	// Accounts lists the signing accounts; empty for static networks.
	Accounts []common.Address

	provider *blockchain.Provider
}

// TransactOpts returns a transactor for the account at the given index with
// the network's gas limit and gas price applied.
func (t *Target) TransactOpts(ctx context.Context, account int) (*bind.TransactOpts, error) {
	if t.provider == nil {
		return nil, fmt.Errorf("network %q: %w", t.Name, ErrReadOnly)
	}
	opts, err := t.provider.TransactOpts(ctx, account)
	if err != nil {
		return nil, err
	}
	if err := blockchain.ApplyGas(opts, t.Network.Gas, t.Network.GasPrice); err != nil {
		return nil, fmt.Errorf("network %q: %w", t.Name, err)
	}
	return opts, nil
}
