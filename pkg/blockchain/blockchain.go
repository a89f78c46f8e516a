// Package blockchain turns network descriptors into live connections to EVM
// chains. It dials static JSON-RPC endpoints, builds signing-enabled providers
// from hex private keys and a remote endpoint, checks that the connected chain
// matches the expected network id, and prepares transactors with gas settings.
package blockchain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"
)

// AnyNetwork is the network id wildcard accepted by CheckNetworkID.
const AnyNetwork = "*"

// DefaultDialTimeout bounds Dial when the caller's context has no deadline.
const DefaultDialTimeout = 5 * time.Second

// ErrNetworkMismatch is returned by CheckNetworkID when the node reports a
// network id different from the expected one.
var ErrNetworkMismatch = errors.New("network id mismatch")

// EVMClient holds a connected ethclient.Client together with the endpoint it
// was dialed from.
type EVMClient struct {
	Client   *ethclient.Client
	Endpoint string
}

// StaticEndpoint builds the HTTP JSON-RPC URL for a host/port pair.
// An empty host means localhost.
func StaticEndpoint(host string, port int) string {
	if host == "" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, strconv.Itoa(port))
}

// Dial connects to an Ethereum endpoint (http, https, ws, wss or IPC path).
// When ctx carries no deadline, DefaultDialTimeout applies.
func Dial(ctx context.Context, endpoint string) (*EVMClient, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, errors.New("endpoint URL is required")
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultDialTimeout)
		defer cancel()
	}

	client, err := ethclient.DialContext(ctx, endpoint)
	if err != nil {
		zap.L().Error("Failed to ethdial", zap.String("endpoint", endpoint), zap.Error(err))
		return nil, fmt.Errorf("dial %s: %w", endpoint, err)
	}

	return &EVMClient{Client: client, Endpoint: endpoint}, nil
}

// NetworkID returns the id reported by net_version.
func (eth *EVMClient) NetworkID(ctx context.Context) (*big.Int, error) {
	id, err := eth.Client.NetworkID(ctx)
	if err != nil {
		zap.L().Error("failed to get network id", zap.Error(err))
		return nil, err
	}
	return id, nil
}

// CheckNetworkID verifies that the connected node serves the wanted network.
// The wildcard "*" accepts any network.
func (eth *EVMClient) CheckNetworkID(ctx context.Context, want string) error {
	want = strings.TrimSpace(want)
	if want == AnyNetwork {
		return nil
	}

	expected, ok := new(big.Int).SetString(want, 10)
	if !ok {
		return fmt.Errorf("invalid network id %q", want)
	}

	got, err := eth.NetworkID(ctx)
	if err != nil {
		return err
	}
	if got.Cmp(expected) != 0 {
		return fmt.Errorf("%w: node reports %s, expected %s", ErrNetworkMismatch, got, want)
	}
	return nil
}

// GetCurrentBlockNumber returns the latest block number.
func (eth *EVMClient) GetCurrentBlockNumber(ctx context.Context) (*big.Int, error) {
	number, err := eth.Client.BlockNumber(ctx)
	if err != nil {
		zap.L().Error("failed to get last block number", zap.Error(err))
		return nil, err
	}
	return new(big.Int).SetUint64(number), nil
}

// Close releases the underlying RPC connection. Safe on a nil receiver.
func (eth *EVMClient) Close() {
	if eth == nil || eth.Client == nil {
		return
	}
	eth.Client.Close()
}
