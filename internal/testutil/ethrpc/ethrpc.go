// Package ethrpc runs a minimal in-process Ethereum JSON-RPC node for tests.
// It answers the handful of calls chaincfg issues: net_version, eth_chainId
// and eth_blockNumber.
package ethrpc

import (
	"math/big"
	"net/http/httptest"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

// Node describes the chain the fake node pretends to serve.
type Node struct {
	NetworkID string
	ChainID   int64
	Block     uint64

	calls atomic.Int64
}

// Calls reports how many RPC requests the node has answered.
func (n *Node) Calls() int64 {
	return n.calls.Load()
}

type netAPI struct{ node *Node }

// Version answers net_version.
func (api *netAPI) Version() string {
	api.node.calls.Add(1)
	return api.node.NetworkID
}

type ethAPI struct{ node *Node }

// ChainId answers eth_chainId.
func (api *ethAPI) ChainId() *hexutil.Big {
	api.node.calls.Add(1)
	return (*hexutil.Big)(big.NewInt(api.node.ChainID))
}

// BlockNumber answers eth_blockNumber.
func (api *ethAPI) BlockNumber() hexutil.Uint64 {
	api.node.calls.Add(1)
	return hexutil.Uint64(api.node.Block)
}

// NewServer registers the node's APIs on a fresh rpc.Server.
func NewServer(node *Node) (*rpc.Server, error) {
	srv := rpc.NewServer()
	if err := srv.RegisterName("net", &netAPI{node: node}); err != nil {
		return nil, err
	}
	if err := srv.RegisterName("eth", &ethAPI{node: node}); err != nil {
		return nil, err
	}
	return srv, nil
}

// DialInProc returns an ethclient connected to the node without a socket.
// The caller closes the client and stops the server.
func DialInProc(node *Node) (*ethclient.Client, *rpc.Server, error) {
	srv, err := NewServer(node)
	if err != nil {
		return nil, nil, err
	}
	return ethclient.NewClient(rpc.DialInProc(srv)), srv, nil
}

// StartHTTP serves the node over HTTP on a loopback port. The returned URL
// can be handed to anything that dials an endpoint.
func StartHTTP(node *Node) (*httptest.Server, error) {
	srv, err := NewServer(node)
	if err != nil {
		return nil, err
	}
	return httptest.NewServer(srv), nil
}
