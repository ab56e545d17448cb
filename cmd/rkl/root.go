package main

import (
	"github.com/spf13/cobra"
)

// newRootCmd wires the rkl command tree: run (the core pipeline), topics
// (broker metadata), and env (persisted broker+TLS bundles), grounded on
// rogpeppe-contrib-kt's own flat flag.FlagSet commands generalized to
// cobra subcommands, the CLI framework this corpus's Kafka tooling
// (Benny93-kafui, twmb-kcl, HurSungYun-buf-kcat) standardizes on.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "rkl",
		Short: "Read Kafka Logs: search a topic concurrently across all partitions",
	}

	root.AddCommand(newRunCmd())
	root.AddCommand(newTopicsCmd())
	root.AddCommand(newEnvCmd())

	return root
}
