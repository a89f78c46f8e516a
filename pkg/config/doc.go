// Package config provides configuration resolution for chaincfg.
//
// A Config declares the networks contracts are deployed to, the options of the
// contract test runner and its gas reporter, and the compiler version range and
// optimizer settings. It is built once per process from built-in defaults and
// an optional local override file, then handed to whatever consumes it.
//
// # Resolving
//
// The common case needs no arguments:
//
//	cfg := config.Resolve()
//
// Resolve never fails. When no override file exists it logs an informational
// notice and returns the defaults. When the override exists but cannot be
// read, parsed or decoded it logs a warning with the error and still returns
// the defaults. Notices go to zap.L(), or to stderr while the global logger is
// still zap's no-op default.
//
// A Resolver can search another directory or log to another logger:
//
//	cfg := config.NewResolver(
//		config.WithDir("/srv/contracts"),
//		config.WithLogger(logger),
//	).Resolve()
//
// # Override Files
//
// The first existing file among DefaultOverrideNames wins:
//
//	chaincfg-local.yaml
//	chaincfg-local.yml
//	chaincfg-local.json
//	chaincfg-local.toml
//
// The override may contain any subset of the configuration. It is deep-merged
// into the defaults: mappings merge key by key, every other value (strings,
// numbers, lists) replaces the default outright. For example
//
//	networks:
//	  mainnet:
//	    port: 9999
//	  staging:
//	    host: 10.0.0.7
//	    port: 8545
//	    network_id: 1337
//	test_runner:
//	  reporter_options:
//	    currency: EUR
//
// moves mainnet to port 9999 while keeping its network_id "1", adds a staging
// network, and switches the reporter currency while keeping the excluded
// contracts.
//
// test_runner.timeout takes a duration string such as "90s" or "2m". A bare
// number is read as milliseconds, so timeout: 5000 means five seconds.
//
// A signing network takes a provider mapping instead of host and port:
//
//	networks:
//	  sepolia:
//	    network_id: 11155111
//	    provider:
//	      private_keys: ["0x..."]
//	      endpoint_url: https://sepolia.infura.io/v3/YOUR_PROJECT_ID
//	    gas: 5000000
//	    gas_price: 25 gwei
//
// A provider mapping is a single value, not a mapping that merges: an override
// that gives ropsten a provider replaces the one built from the environment,
// so it must list both private_keys and endpoint_url.
//
// # Built-in Networks
//
//	ropsten - provider from CHAINCFG_PRIVATE_KEY and CHAINCFG_ENDPOINT_URL (network_id 3)
//	mainnet - localhost:8545 (network_id 1)
//	rinkeby - localhost:8545 (network_id 4)
//	goerli  - localhost:8545 (network_id 5)
//	develop - localhost:8545 (any network)
//
// # Environment
//
//	TEST_GREP              test filter pattern; unset runs every test
//	CHAINCFG_PRIVATE_KEY   comma-separated hex keys for the ropsten provider
//	CHAINCFG_ENDPOINT_URL  node URL for the ropsten provider
//
// # Trees
//
// Merging happens on the untyped form of a configuration, a Tree. Config.Tree
// converts to it, Decode converts back, and Merge is usable on its own:
//
//	merged := config.Merge(base, override)
//
// # Validation
//
// Resolve does not validate. Consumers call Validate, which fills host and
// port defaults on static networks and checks that each network has a
// network_id and exactly one of host/port or provider.
package config
