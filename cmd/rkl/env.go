package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fgeller/rkl/internal/envstore"
)

// newEnvCmd wires subcommands over internal/envstore: list the saved
// broker+TLS bundles, and save new or updated ones.
func newEnvCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "env",
		Short: "Manage saved broker environments",
	}
	cmd.AddCommand(newEnvListCmd())
	cmd.AddCommand(newEnvSetCmd())
	return cmd
}

func newEnvListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved environments",
		RunE: func(cmd *cobra.Command, args []string) error {
			store := envstore.Load()
			if len(store.Envs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no saved environments")
				return nil
			}
			for _, e := range store.Envs {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", e.Name, e.Host)
			}
			return nil
		},
	}
}

func newEnvSetCmd() *cobra.Command {
	var host, caPem, certPem, keyPem string

	cmd := &cobra.Command{
		Use:   "set <name>",
		Short: "Create or update a saved environment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store := envstore.Load()
			name := args[0]

			env := envstore.Environment{
				Name:          name,
				Host:          host,
				SslCAPem:      caPem,
				PublicKeyPem:  certPem,
				PrivateKeyPem: keyPem,
			}

			replaced := false
			for i := range store.Envs {
				if store.Envs[i].Name == name {
					store.Envs[i] = env
					replaced = true
					break
				}
			}
			if !replaced {
				store.Envs = append(store.Envs, env)
			}

			return store.Save()
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "Comma separated broker host:port list")
	cmd.Flags().StringVar(&caPem, "ssl-ca-pem", "", "Inline CA certificate PEM")
	cmd.Flags().StringVar(&certPem, "ssl-certificate-pem", "", "Inline client certificate PEM")
	cmd.Flags().StringVar(&keyPem, "ssl-key-pem", "", "Inline client key PEM")

	return cmd
}
