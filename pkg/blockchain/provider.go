package blockchain

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// ErrNoAccounts is returned when a provider has no signing keys.
var ErrNoAccounts = errors.New("provider has no accounts")

// Factory builds a signing-enabled connection on demand. Network descriptors
// hold a Factory instead of a live connection so that configuration can be
// resolved without touching the network.
type Factory interface {
	NewProvider(ctx context.Context) (*Provider, error)
}

// FactoryFunc adapts an ordinary function to the Factory interface.
type FactoryFunc func(ctx context.Context) (*Provider, error)

// NewProvider calls f(ctx).
func (f FactoryFunc) NewProvider(ctx context.Context) (*Provider, error) {
	return f(ctx)
}

// KeyedFactory builds a Provider from hex-encoded private keys and a remote
// endpoint URL. The first key is the default sender.
type KeyedFactory struct {
	PrivateKeys []string `koanf:"private_keys" json:"private_keys" yaml:"private_keys"`
	EndpointURL string   `koanf:"endpoint_url" json:"endpoint_url" yaml:"endpoint_url"`
}

// NewKeyedFactory returns a KeyedFactory for the given keys and endpoint.
func NewKeyedFactory(privateKeys []string, endpointURL string) KeyedFactory {
	return KeyedFactory{PrivateKeys: privateKeys, EndpointURL: endpointURL}
}

// NewProvider parses every key and dials the endpoint. Keys are checked before
// dialing so that a misconfigured wallet fails without network traffic.
func (f KeyedFactory) NewProvider(ctx context.Context) (*Provider, error) {
	if len(f.PrivateKeys) == 0 {
		return nil, ErrNoAccounts
	}

	keys := make([]*ecdsa.PrivateKey, 0, len(f.PrivateKeys))
	accounts := make([]common.Address, 0, len(f.PrivateKeys))
	for i, raw := range f.PrivateKeys {
		addr, key, err := ParsePrivateKeyECDSA(raw)
		if err != nil {
			return nil, fmt.Errorf("private key #%d: %w", i, err)
		}
		keys = append(keys, key)
		accounts = append(accounts, addr)
	}

	client, err := Dial(ctx, f.EndpointURL)
	if err != nil {
		return nil, err
	}

	zap.L().Debug("provider ready",
		zap.String("endpoint", f.EndpointURL),
		zap.Int("accounts", len(accounts)))

	return &Provider{EVMClient: client, Accounts: accounts, keys: keys}, nil
}

// Redacted returns a printable description of the factory that omits key
// material.
func (f KeyedFactory) Redacted() map[string]any {
	return map[string]any{
		"endpoint_url": redactURL(f.EndpointURL),
		"private_keys": fmt.Sprintf("<%d redacted>", len(f.PrivateKeys)),
	}
}

// Provider is a connected client plus the accounts it can sign for.
type Provider struct {
	*EVMClient
	Accounts []common.Address

	keys []*ecdsa.PrivateKey
}

// NewProviderWithKeys wraps an existing client. It is mainly useful for
// custom FactoryFunc implementations.
func NewProviderWithKeys(client *EVMClient, keys ...*ecdsa.PrivateKey) *Provider {
	p := &Provider{EVMClient: client}
	for _, key := range keys {
		if addr := GetAddressFromPrivateKeyECDSA(key); addr != nil {
			p.Accounts = append(p.Accounts, *addr)
			p.keys = append(p.keys, key)
		}
	}
	return p
}

// TransactOpts returns a transactor for the account at the given index.
func (p *Provider) TransactOpts(ctx context.Context, account int) (*bind.TransactOpts, error) {
	if len(p.keys) == 0 {
		return nil, ErrNoAccounts
	}
	if account < 0 || account >= len(p.keys) {
		return nil, fmt.Errorf("account index %d out of range [0,%d)", account, len(p.keys))
	}
	if p.EVMClient == nil || p.Client == nil {
		return nil, errors.New("provider is not connected")
	}
	return p.GetTransactOpts(ctx, p.keys[account])
}

// redactURL hides the path of an endpoint URL, where hosted node providers
// usually carry the project secret.
func redactURL(u string) string {
	schemeEnd := strings.Index(u, "://")
	if schemeEnd < 0 {
		return u
	}
	rest := u[schemeEnd+3:]
	if slash := strings.IndexByte(rest, '/'); slash >= 0 && slash < len(rest)-1 {
		return u[:schemeEnd+3] + rest[:slash] + "/***"
	}
	return u
}
