package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/shamank/chaincfg/pkg/blockchain"
	"github.com/shamank/chaincfg/pkg/config"
	"github.com/shamank/chaincfg/pkg/deploy"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const checkTimeout = 15 * time.Second

func newShowCmd(root *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the resolved configuration",
		Long: `Print the resolved configuration. Provider private keys are never printed;
endpoint URLs have their path hidden.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeConfig(cmd.OutOrStdout(), root.resolve(), format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format: yaml, json or toml")
	return cmd
}

// printable returns the tree of cfg with provider factories replaced by their
// redacted description.
func printable(cfg *config.Config) config.Tree {
	tree := cfg.Tree()
	networks, _ := tree["networks"].(config.Tree)
	for _, v := range networks {
		network, ok := v.(config.Tree)
		if !ok {
			continue
		}
		switch p := network["provider"].(type) {
		case nil:
		case blockchain.KeyedFactory:
			network["provider"] = p.Redacted()
		default:
			network["provider"] = fmt.Sprintf("<%T>", p)
		}
	}
	return tree
}

func writeConfig(w io.Writer, cfg *config.Config, format string) error {
	tree := printable(cfg)

	var (
		out []byte
		err error
	)
	switch format {
	case "yaml", "yml":
		out, err = yaml.Marshal(tree)
	case "json":
		out, err = json.MarshalIndent(tree, "", "  ")
		out = append(out, '\n')
	case "toml":
		out, err = toml.Marshal(tree)
	default:
		return fmt.Errorf("unknown format %q (want yaml, json or toml)", format)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}
	_, err = w.Write(out)
	return err
}

func newNetworksCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "networks",
		Short: "List the configured networks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := root.resolve()

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tKIND\tENDPOINT\tNETWORK ID")
			for _, name := range cfg.NetworkNames() {
				n := cfg.Networks[name]
				kind, endpoint := describe(n)
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", name, kind, endpoint, n.NetworkID)
			}
			return tw.Flush()
		},
	}
}

func describe(n config.Network) (kind, endpoint string) {
	if n.IsStatic() {
		return "static", n.Endpoint()
	}
	if f, ok := n.Provider.(blockchain.KeyedFactory); ok {
		url, _ := f.Redacted()["endpoint_url"].(string)
		if url == "" {
			url = "-"
		}
		return "provider", url
	}
	return "provider", "-"
}

func newCheckCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check <network>",
		Short: "Connect to a network and verify its network id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := deploy.NewDeployer(root.resolve())
			if err != nil {
				return err
			}
			defer d.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), checkTimeout)
			defer cancel()

			target, err := d.Connect(ctx, args[0])
			if err != nil {
				return err
			}
			chainID, err := target.Client.ChainID(ctx)
			if err != nil {
				return fmt.Errorf("chain id: %w", err)
			}
			networkID, err := target.NetworkID(ctx)
			if err != nil {
				return fmt.Errorf("network id: %w", err)
			}
			block, err := target.GetCurrentBlockNumber(ctx)
			if err != nil {
				return fmt.Errorf("block number: %w", err)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "network:    %s\n", target.Name)
			fmt.Fprintf(w, "chain id:   %s\n", chainID)
			fmt.Fprintf(w, "network id: %s\n", networkID)
			fmt.Fprintf(w, "block:      %s\n", block)
			for i, acc := range target.Accounts {
				fmt.Fprintf(w, "account %d:  %s\n", i, acc.Hex())
			}
			return nil
		},
	}
}

func newCompilerCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "compiler <version>",
		Short: "Check a solc version against the configured range",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			solc := root.resolve().Compilers.Solc
			ok, err := solc.Satisfies(args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("solc %s does not satisfy %s", args[0], solc.Version)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "solc %s satisfies %s\n", args[0], solc.Version)
			return nil
		},
	}
}
