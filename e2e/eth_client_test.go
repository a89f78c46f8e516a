//go:build e2e

package e2e

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/shamank/chaincfg/pkg/blockchain"
)

func TestETHClientChainID(t *testing.T) {
	rpc := os.Getenv("ETH_RPC_URL")
	if rpc == "" {
		t.Skip("ETH_RPC_URL not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cli, err := blockchain.Dial(ctx, rpc)
	if err != nil {
		t.Fatalf("Dial error: %v", err)
	}
	defer cli.Close()

	id, err := cli.Client.ChainID(ctx)
	if err != nil {
		t.Fatalf("ChainID error: %v", err)
	}
	if id == nil {
		t.Fatal("nil chain id")
	}
}

func TestETHClientNetworkID(t *testing.T) {
	rpc := os.Getenv("ETH_RPC_URL")
	want := os.Getenv("ETH_NETWORK_ID")
	if rpc == "" || want == "" {
		t.Skip("ETH_RPC_URL or ETH_NETWORK_ID not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cli, err := blockchain.Dial(ctx, rpc)
	if err != nil {
		t.Fatalf("Dial error: %v", err)
	}
	defer cli.Close()

	if err := cli.CheckNetworkID(ctx, want); err != nil {
		t.Fatalf("CheckNetworkID: %v", err)
	}
}
