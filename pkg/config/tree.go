package config

import (
	"fmt"
	"reflect"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/maps"
	"github.com/shamank/chaincfg/pkg/blockchain"
)

// Tree is the untyped form of a configuration: nested string-keyed mappings
// whose leaves are scalars, slices or provider factories.
type Tree = map[string]any

var (
	// factoryType is the reflect.Type of the blockchain.Factory interface.
	factoryType  = reflect.TypeOf((*blockchain.Factory)(nil)).Elem()
	durationType = reflect.TypeOf(time.Duration(0))
)

// Merge deep-merges override into base and returns the result. Mappings are
// merged key by key; any other override value replaces the base value
// wholesale. Neither input is modified.
func Merge(base, override Tree) Tree {
	out := copyTree(base)
	maps.Merge(copyTree(override), out)
	return out
}

// copyTree duplicates the mapping nodes of t. Leaves are shared: provider
// factories may hold state that must not be cloned.
func copyTree(t Tree) Tree {
	out := make(Tree, len(t))
	for k, v := range t {
		if sub, ok := v.(map[string]any); ok {
			out[k] = copyTree(sub)
			continue
		}
		out[k] = v
	}
	return out
}

// Tree returns the untyped form of c. Optional fields left at their zero
// value are omitted, so an unset test filter stays absent.
func (c *Config) Tree() Tree {
	networks := make(Tree, len(c.Networks))
	for name, n := range c.Networks {
		networks[name] = n.tree()
	}
	return Tree{
		"networks":    networks,
		"test_runner": c.TestRunner.tree(),
		"compilers": Tree{
			"solc": c.Compilers.Solc.tree(),
		},
	}
}

func (n Network) tree() Tree {
	t := Tree{}
	if n.NetworkID != "" {
		t["network_id"] = n.NetworkID
	}
	if n.Host != "" {
		t["host"] = n.Host
	}
	if n.Port != 0 {
		t["port"] = n.Port
	}
	if n.Provider != nil {
		t["provider"] = n.Provider
	}
	if n.Gas != 0 {
		t["gas"] = n.Gas
	}
	if n.GasPrice != "" {
		t["gas_price"] = n.GasPrice
	}
	return t
}

func (r TestRunner) tree() Tree {
	t := Tree{
		"enable_timeouts": r.EnableTimeouts,
		"reporter":        r.Reporter,
		"reporter_options": Tree{
			"currency":          r.ReporterOptions.Currency,
			"exclude_contracts": append([]string(nil), r.ReporterOptions.ExcludeContracts...),
		},
	}
	if r.Timeout != 0 {
		t["timeout"] = r.Timeout.String()
	}
	if r.Grep != "" {
		t["grep"] = r.Grep
	}
	return t
}

func (c Compiler) tree() Tree {
	optimizer := Tree{"enabled": c.Settings.Optimizer.Enabled}
	if c.Settings.Optimizer.Runs != 0 {
		optimizer["runs"] = c.Settings.Optimizer.Runs
	}
	settings := Tree{"optimizer": optimizer}
	if c.Settings.EVMVersion != "" {
		settings["evm_version"] = c.Settings.EVMVersion
	}
	return Tree{
		"version":  c.Version,
		"settings": settings,
	}
}

// Decode converts a tree into a Config. Numbers and strings are converted
// where the target field needs it, durations are parsed from strings ("90s")
// or read as milliseconds from bare numbers, and a provider given as a
// mapping becomes a blockchain.KeyedFactory.
func Decode(t Tree) (*Config, error) {
	cfg, _, err := decode(t)
	return cfg, err
}

// decode is Decode that also reports keys that matched no field.
func decode(t Tree) (*Config, []string, error) {
	var (
		cfg Config
		md  mapstructure.Metadata
	)
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "koanf",
		Result:           &cfg,
		Metadata:         &md,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			millisecondsHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
			providerHookFunc(),
		),
	})
	if err != nil {
		return nil, nil, err
	}
	if err := dec.Decode(t); err != nil {
		return nil, nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	return &cfg, md.Unused, nil
}

// providerHookFunc decodes a provider mapping such as
//
//	provider:
//	  private_keys: ["0x..."]
//	  endpoint_url: https://node.example/v3/KEY
//
// into a blockchain.KeyedFactory. Unknown keys are rejected so a misspelled
// wallet setting does not silently produce an empty provider.
func providerHookFunc() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if to != factoryType || from.Kind() != reflect.Map {
			return data, nil
		}

		var f blockchain.KeyedFactory
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			TagName:          "koanf",
			Result:           &f,
			WeaklyTypedInput: true,
			ErrorUnused:      true,
		})
		if err != nil {
			return nil, err
		}
		if err := dec.Decode(data); err != nil {
			return nil, fmt.Errorf("invalid provider: %w", err)
		}
		return f, nil
	}
}

// millisecondsHookFunc reads a bare number bound for a time.Duration as
// milliseconds, the unit test runner timeouts are written in.
func millisecondsHookFunc() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if to != durationType || from == durationType {
			return data, nil
		}
		v := reflect.ValueOf(data)
		switch from.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return time.Duration(v.Int()) * time.Millisecond, nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return time.Duration(v.Uint()) * time.Millisecond, nil
		case reflect.Float32, reflect.Float64:
			return time.Duration(v.Float() * float64(time.Millisecond)), nil
		}
		return data, nil
	}
}
