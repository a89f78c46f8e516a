// Package blockchain provides the Ethereum-facing half of chaincfg.
//
// Network descriptors resolved by the config package either name a static
// JSON-RPC endpoint (host and port) or carry a provider Factory. This package
// turns both forms into a connected EVMClient.
//
// # Static Endpoints
//
//	client, err := blockchain.Dial(ctx, blockchain.StaticEndpoint("localhost", 8545))
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
// # Signing Providers
//
// KeyedFactory is the built-in Factory. It holds hex-encoded private keys and
// a remote endpoint URL and dials only when NewProvider is called:
//
//	factory := blockchain.NewKeyedFactory([]string{"0x..."}, "https://node.example/v3/KEY")
//	provider, err := factory.NewProvider(ctx)
//	if err != nil {
//		return err
//	}
//	opts, err := provider.TransactOpts(ctx, 0)
//
// Any function can serve as a Factory through FactoryFunc.
//
// # Network Ids
//
// CheckNetworkID compares the node's net_version against the configured id.
// The wildcard "*" matches any network, which is what local development
// chains use.
//
// # Gas
//
// ParseGasPrice accepts plain wei amounts or decimal amounts with a unit
// (wei, gwei, ether). ApplyGas writes a gas limit and price onto a transactor.
package blockchain
