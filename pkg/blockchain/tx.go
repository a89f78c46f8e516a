package blockchain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"go.uber.org/zap"
)

// GetTransactOpts creates a transactor bound to the given chainID and ECDSA key.
// The returned TransactOpts can be used to send transactions to the blockchain.
func GetTransactOpts(chainID *big.Int, pk *ecdsa.PrivateKey) (*bind.TransactOpts, error) {
	if pk == nil {
		return nil, fmt.Errorf("private key is required for transactions")
	}
	opts, err := bind.NewKeyedTransactorWithChainID(pk, chainID)
	if err != nil {
		zap.L().Error("failed to create transactor", zap.Error(err))
		return nil, err
	}
	return opts, nil
}

// GetTransactOpts creates a transactor from the EVM client context.
// It automatically fetches the chain ID from the connected Ethereum client.
func (eth *EVMClient) GetTransactOpts(ctx context.Context, pk *ecdsa.PrivateKey) (*bind.TransactOpts, error) {
	if pk == nil {
		return nil, fmt.Errorf("private key is required for transactions")
	}

	chainID, err := eth.Client.ChainID(ctx)
	if err != nil {
		zap.L().Error("failed to get chain ID", zap.Error(err))
		return nil, err
	}

	opts, err := GetTransactOpts(chainID, pk)
	if err != nil {
		return nil, err
	}
	opts.Context = ctx
	return opts, nil
}

// ApplyGas sets the gas limit and legacy gas price on opts. A zero gas limit
// and an empty gas price leave the transactor's estimation untouched.
func ApplyGas(opts *bind.TransactOpts, gas uint64, gasPrice string) error {
	if opts == nil {
		return fmt.Errorf("transactor is nil")
	}
	if gas > 0 {
		opts.GasLimit = gas
	}
	if gasPrice == "" {
		return nil
	}
	price, err := ParseGasPrice(gasPrice)
	if err != nil {
		return err
	}
	opts.GasPrice = price
	return nil
}
