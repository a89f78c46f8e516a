package deploy

import (
	"context"
	"crypto/ecdsa"
	"encoding/hex"
	"errors"
	"math/big"
	"net"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/shamank/chaincfg/internal/testutil/ethrpc"
	"github.com/shamank/chaincfg/pkg/blockchain"
	"github.com/shamank/chaincfg/pkg/config"
)

func startNode(t *testing.T, node *ethrpc.Node) *httptest.Server {
	t.Helper()
	srv, err := ethrpc.StartHTTP(node)
	if err != nil {
		t.Fatalf("StartHTTP: %v", err)
	}
	t.Cleanup(srv.Close)
	return srv
}

func hostPort(t *testing.T, rawURL string) (string, int) {
	t.Helper()
	u, err := url.Parse(rawURL)
	if err != nil {
		t.Fatalf("parse %s: %v", rawURL, err)
	}
	host, portStr, err := net.SplitHostPort(u.Host)
	if err != nil {
		t.Fatalf("split %s: %v", u.Host, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatalf("port %s: %v", portStr, err)
	}
	return host, port
}

func mustKey(t *testing.T) *ecdsa.PrivateKey {
	t.Helper()
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	return key
}

func TestNewDeployer_Invalid(t *testing.T) {
	if _, err := NewDeployer(nil); err == nil {
		t.Fatal("expected error for nil config")
	}

	cfg := &config.Config{Networks: map[string]config.Network{
		"broken": {Host: "localhost"},
	}}
	_, err := NewDeployer(cfg)
	if !errors.Is(err, config.ErrMissingNetworkID) {
		t.Fatalf("expected ErrMissingNetworkID, got %v", err)
	}
}

func TestNewDeployer_Defaults(t *testing.T) {
	d, err := NewDeployer(config.Defaults(config.Env{}))
	if err != nil {
		t.Fatalf("NewDeployer: %v", err)
	}
	defer d.Close()

	want := []string{"develop", "goerli", "mainnet", "rinkeby", "ropsten"}
	got := d.Networks()
	if len(got) != len(want) {
		t.Fatalf("Networks() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Networks() = %v, want %v", got, want)
		}
	}
	if d.Compiler().Version != config.DefaultCompilerVersion {
		t.Fatalf("Compiler().Version = %q", d.Compiler().Version)
	}
}

func TestConnect_Static(t *testing.T) {
	srv := startNode(t, &ethrpc.Node{NetworkID: "1337", ChainID: 1337, Block: 7})
	host, port := hostPort(t, srv.URL)

	d, err := NewDeployer(&config.Config{Networks: map[string]config.Network{
		"local": {Host: host, Port: port, NetworkID: "1337"},
	}})
	if err != nil {
		t.Fatalf("NewDeployer: %v", err)
	}
	defer d.Close()

	target, err := d.Connect(context.Background(), "local")
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if target.Name != "local" {
		t.Fatalf("Name = %q", target.Name)
	}
	if len(target.Accounts) != 0 {
		t.Fatalf("static network should have no accounts, got %d", len(target.Accounts))
	}

	block, err := target.GetCurrentBlockNumber(context.Background())
	if err != nil {
		t.Fatalf("GetCurrentBlockNumber: %v", err)
	}
	if block.Uint64() != 7 {
		t.Fatalf("block = %s, want 7", block)
	}

	_, err = target.TransactOpts(context.Background(), 0)
	if !errors.Is(err, ErrReadOnly) {
		t.Fatalf("expected ErrReadOnly, got %v", err)
	}
}

func TestConnect_Wildcard(t *testing.T) {
	srv := startNode(t, &ethrpc.Node{NetworkID: "5777", ChainID: 1337})
	host, port := hostPort(t, srv.URL)

	d, err := NewDeployer(&config.Config{Networks: map[string]config.Network{
		"develop": {Host: host, Port: port, NetworkID: blockchain.AnyNetwork},
	}})
	if err != nil {
		t.Fatalf("NewDeployer: %v", err)
	}
	defer d.Close()

	if _, err := d.Connect(context.Background(), "develop"); err != nil {
		t.Fatalf("Connect: %v", err)
	}
}

func TestConnect_NetworkMismatch(t *testing.T) {
	srv := startNode(t, &ethrpc.Node{NetworkID: "5", ChainID: 5})
	host, port := hostPort(t, srv.URL)

	d, err := NewDeployer(&config.Config{Networks: map[string]config.Network{
		"mainnet": {Host: host, Port: port, NetworkID: "1"},
	}})
	if err != nil {
		t.Fatalf("NewDeployer: %v", err)
	}
	defer d.Close()

	_, err = d.Connect(context.Background(), "mainnet")
	if !errors.Is(err, blockchain.ErrNetworkMismatch) {
		t.Fatalf("expected ErrNetworkMismatch, got %v", err)
	}
}

func TestConnect_UnknownNetwork(t *testing.T) {
	d, err := NewDeployer(config.Defaults(config.Env{}))
	if err != nil {
		t.Fatalf("NewDeployer: %v", err)
	}
	defer d.Close()

	_, err = d.Connect(context.Background(), "kovan")
	if !errors.Is(err, ErrUnknownNetwork) {
		t.Fatalf("expected ErrUnknownNetwork, got %v", err)
	}
}

func TestConnect_ProviderNoKeys(t *testing.T) {
	d, err := NewDeployer(config.Defaults(config.Env{}))
	if err != nil {
		t.Fatalf("NewDeployer: %v", err)
	}
	defer d.Close()

	_, err = d.Connect(context.Background(), "ropsten")
	if !errors.Is(err, blockchain.ErrNoAccounts) {
		t.Fatalf("expected ErrNoAccounts, got %v", err)
	}
}

func TestConnect_ProviderTransactOpts(t *testing.T) {
	srv := startNode(t, &ethrpc.Node{NetworkID: "3", ChainID: 3})
	key := mustKey(t)

	env := config.Env{
		PrivateKeys: []string{"0x" + hex.EncodeToString(crypto.FromECDSA(key))},
		EndpointURL: srv.URL,
	}
	cfg := config.Defaults(env)
	ropsten := cfg.Networks["ropsten"]
	ropsten.Gas = 5_000_000
	ropsten.GasPrice = "25 gwei"
	cfg.Networks["ropsten"] = ropsten

	d, err := NewDeployer(cfg)
	if err != nil {
		t.Fatalf("NewDeployer: %v", err)
	}
	defer d.Close()

	target, err := d.Connect(context.Background(), "ropsten")
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if len(target.Accounts) != 1 || target.Accounts[0] != crypto.PubkeyToAddress(key.PublicKey) {
		t.Fatalf("Accounts = %v", target.Accounts)
	}

	opts, err := target.TransactOpts(context.Background(), 0)
	if err != nil {
		t.Fatalf("TransactOpts: %v", err)
	}
	if opts.From != target.Accounts[0] {
		t.Fatalf("From = %s", opts.From.Hex())
	}
	if opts.GasLimit != 5_000_000 {
		t.Fatalf("GasLimit = %d", opts.GasLimit)
	}
	if opts.GasPrice.Cmp(big.NewInt(25_000_000_000)) != 0 {
		t.Fatalf("GasPrice = %s", opts.GasPrice)
	}

	if _, err := target.TransactOpts(context.Background(), 1); err == nil {
		t.Fatal("expected error for out of range account")
	}
}

func TestConnect_FactoryFunc(t *testing.T) {
	srv := startNode(t, &ethrpc.Node{NetworkID: "10", ChainID: 10})
	key := mustKey(t)
	var calls int

	cfg := &config.Config{Networks: map[string]config.Network{
		"custom": {
			NetworkID: "10",
			Provider: blockchain.FactoryFunc(func(ctx context.Context) (*blockchain.Provider, error) {
				calls++
				client, err := blockchain.Dial(ctx, srv.URL)
				if err != nil {
					return nil, err
				}
				return blockchain.NewProviderWithKeys(client, key), nil
			}),
		},
	}}

	d, err := NewDeployer(cfg)
	if err != nil {
		t.Fatalf("NewDeployer: %v", err)
	}
	defer d.Close()

	if calls != 0 {
		t.Fatal("factory must not run before Connect")
	}
	target, err := d.Connect(context.Background(), "custom")
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if calls != 1 {
		t.Fatalf("factory calls = %d", calls)
	}
	if _, err := target.TransactOpts(context.Background(), 0); err != nil {
		t.Fatalf("TransactOpts: %v", err)
	}
}

func TestCore_CloseIdempotent(t *testing.T) {
	srv := startNode(t, &ethrpc.Node{NetworkID: "1", ChainID: 1})
	host, port := hostPort(t, srv.URL)

	d, err := NewDeployer(&config.Config{Networks: map[string]config.Network{
		"mainnet": {Host: host, Port: port, NetworkID: "1"},
	}})
	if err != nil {
		t.Fatalf("NewDeployer: %v", err)
	}
	if _, err := d.Connect(context.Background(), "mainnet"); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	d.Close()
	d.Close()
}

func TestConnect_FactoryWithoutConnection(t *testing.T) {
	key := mustKey(t)
	tests := []struct {
		name    string
		factory blockchain.FactoryFunc
	}{
		{
			name: "nil provider",
			factory: func(ctx context.Context) (*blockchain.Provider, error) {
				return nil, nil
			},
		},
		{
			name: "empty provider",
			factory: func(ctx context.Context) (*blockchain.Provider, error) {
				return &blockchain.Provider{}, nil
			},
		},
		{
			name: "keys without client",
			factory: func(ctx context.Context) (*blockchain.Provider, error) {
				return blockchain.NewProviderWithKeys(nil, key), nil
			},
		},
		{
			name: "client without ethclient",
			factory: func(ctx context.Context) (*blockchain.Provider, error) {
				return blockchain.NewProviderWithKeys(&blockchain.EVMClient{}, key), nil
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewDeployer(&config.Config{Networks: map[string]config.Network{
				"custom": {NetworkID: "10", Provider: tt.factory},
			}})
			if err != nil {
				t.Fatalf("NewDeployer: %v", err)
			}
			defer d.Close()

			_, err = d.Connect(context.Background(), "custom")
			if !errors.Is(err, ErrNotConnected) {
				t.Fatalf("expected ErrNotConnected, got %v", err)
			}
		})
	}
}

func TestNewDeployer_LeavesConfigUntouched(t *testing.T) {
	cfg := &config.Config{Networks: map[string]config.Network{
		"local": {NetworkID: "1337"},
	}}

	d, err := NewDeployer(cfg)
	if err != nil {
		t.Fatalf("NewDeployer: %v", err)
	}
	defer d.Close()

	if got := cfg.Networks["local"]; got.Host != "" || got.Port != 0 {
		t.Fatalf("caller config was modified: %+v", got)
	}
	core := d.(*Core)
	if got := core.Config.Networks["local"]; got.Host != config.DefaultHost || got.Port != config.DefaultPort {
		t.Fatalf("deployer config missing defaults: %+v", got)
	}
}
