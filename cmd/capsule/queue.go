package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/maisonhaus/capsule/internal/queue"
	"github.com/maisonhaus/capsule/internal/ui"
)

var (
	queueFilePath string
	queueShowAll  bool
)

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Inspect and resolve action queue work items",
}

var queueListCmd = &cobra.Command{
	Use:   "list",
	Short: "List work items in a queue file",
	RunE:  runQueueList,
}

var queueResolveCmd = &cobra.Command{
	Use:   "resolve <cpi> [cpi...]",
	Short: "Mark queue work items as resolved",
	Long: `Marks every unresolved entry for the given CPIs as resolved by the
current actor. Resolution is recorded once; re-resolving is a no-op.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQueueResolve,
}

func init() {
	queueCmd.PersistentFlags().StringVar(&queueFilePath, "file", "", "Queue file path (required)")
	_ = queueCmd.MarkPersistentFlagRequired("file")
	queueListCmd.Flags().BoolVar(&queueShowAll, "all", false, "Include resolved entries")
	queueCmd.AddCommand(queueListCmd)
	queueCmd.AddCommand(queueResolveCmd)
	rootCmd.AddCommand(queueCmd)
}

func runQueueList(cmd *cobra.Command, args []string) error {
	entries, skipped, err := queue.Load(queueFilePath)
	if err != nil {
		return err
	}

	var shown []queue.Entry
	for _, e := range entries {
		if e.Resolved && !queueShowAll {
			continue
		}
		shown = append(shown, e)
	}

	if jsonOutput {
		outputJSON(shown)
		return nil
	}

	if skipped > 0 {
		fmt.Printf("%s %d corrupt line(s) skipped\n", ui.RenderWarn(ui.IconWarn), skipped)
	}
	if len(shown) == 0 {
		fmt.Println(ui.RenderMuted("queue empty"))
		return nil
	}
	for _, e := range shown {
		icon := ui.RenderWarn(ui.IconWarn)
		if e.Resolved {
			icon = ui.RenderPass(ui.IconPass)
		}
		fmt.Printf("%s %s %s %s\n", icon, e.CPI, e.Reason, ui.RenderMuted(e.Timestamp.Format(time.RFC3339)))
	}
	return nil
}

func runQueueResolve(cmd *cobra.Command, args []string) error {
	resolved, err := queue.MarkResolved(queueFilePath, args, resolveActor(), time.Now().UTC())
	if err != nil {
		return err
	}

	if jsonOutput {
		outputJSON(map[string]int{"resolved": resolved})
		return nil
	}
	fmt.Printf("%s resolved %d work item(s)\n", ui.RenderPass(ui.IconPass), resolved)
	return nil
}
