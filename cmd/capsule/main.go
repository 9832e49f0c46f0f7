// Command capsule manages the product-state documents that gate a
// capsule's catalog import: preflight validation, state seeding,
// permission queries, and the post-import mutators.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/user"

	"github.com/spf13/cobra"

	"github.com/maisonhaus/capsule/internal/config"
	"github.com/maisonhaus/capsule/internal/debug"
	"github.com/maisonhaus/capsule/internal/statestore"
)

var (
	capsuleID   string
	capsuleRoot string
	actor       string
	jsonOutput  bool
	verboseFlag bool
	quietFlag   bool
)

var rootCmd = &cobra.Command{
	Use:   "capsule",
	Short: "capsule - readiness validation and permission gating for catalog imports",
	Long: `Validates capsule products against their collaborator inputs, maintains
the per-capsule product-state document, and answers permission queries
for downstream import tooling. State is plain JSON on disk; every
mutation is audited and idempotent.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		debug.SetVerbose(verboseFlag)
		debug.SetQuiet(quietFlag)

		// Flags override env and capsule.yaml.
		if cmd.Flags().Changed("capsule") {
			config.Set("capsule", capsuleID)
		}
		if cmd.Flags().Changed("root") {
			config.Set("root", capsuleRoot)
		}
		if cmd.Flags().Changed("actor") {
			config.Set("actor", actor)
		}
		if cmd.Flags().Changed("json") {
			config.Set("json", jsonOutput)
		}
		jsonOutput = config.GetBool("json")

		// When --root points away from the cwd, viper never saw that
		// directory's capsule.yaml; fall back to it for unset values.
		if root := config.GetString("root"); root != "" && root != "." {
			local := config.LoadLocalConfig(root)
			if config.GetString("capsule") == "" && local.Capsule != "" {
				config.Set("capsule", local.Capsule)
			}
			if config.GetString("actor") == "" && local.Actor != "" {
				config.Set("actor", local.Actor)
			}
		}
	},
}

func init() {
	cobra.OnInitialize(func() {
		if err := config.Initialize(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	})

	rootCmd.PersistentFlags().StringVarP(&capsuleID, "capsule", "c", "", "Capsule identifier, e.g. S25 (default: $CAPSULE_CAPSULE or capsule.yaml)")
	rootCmd.PersistentFlags().StringVar(&capsuleRoot, "root", "", "Workspace root containing capsules/ (default: current directory)")
	rootCmd.PersistentFlags().StringVar(&actor, "actor", "", "Actor name for the audit trail (default: $CAPSULE_ACTOR, OS user)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose/debug output")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "Suppress non-essential output (errors only)")
}

// requireCapsule resolves the capsule identifier from flag, env, or
// config file, failing the command when none is set.
func requireCapsule() (string, error) {
	c := config.GetString("capsule")
	if c == "" {
		return "", fmt.Errorf("no capsule specified (use --capsule, CAPSULE_CAPSULE, or capsule.yaml)")
	}
	return c, nil
}

func workspaceRoot() string {
	root := config.GetString("root")
	if root == "" {
		root = "."
	}
	return root
}

func openStore() *statestore.Store {
	return statestore.New(workspaceRoot())
}

// resolveActor picks the audit actor: flag/env/config first, then the
// OS user.
func resolveActor() string {
	if a := config.GetString("actor"); a != "" {
		return a
	}
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "unknown"
}

func outputJSON(v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to marshal JSON: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(data))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		var ee *exitError
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
