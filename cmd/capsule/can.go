package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/maisonhaus/capsule/internal/gate"
	"github.com/maisonhaus/capsule/internal/types"
	"github.com/maisonhaus/capsule/internal/ui"
)

var canCmd = &cobra.Command{
	Use:   "can <handle> <action>",
	Short: "Query whether an action is allowed for a product",
	Long: `Reads the stored allowed_actions value for a product and reports the
decision. Exit code 0 means allowed, 2 means denied; any other failure
(unknown handle, unsupported action, unreadable state) exits 1.

Actions: ` + actionList(),
	Args: cobra.ExactArgs(2),
	RunE: runCan,
}

func init() {
	rootCmd.AddCommand(canCmd)
}

func actionList() string {
	s := ""
	for i, a := range types.AllActions {
		if i > 0 {
			s += ", "
		}
		s += string(a)
	}
	return s
}

func runCan(cmd *cobra.Command, args []string) error {
	capsule, err := requireCapsule()
	if err != nil {
		return err
	}

	doc, err := openStore().Load(capsule)
	if err != nil {
		return err
	}

	handle, action := args[0], types.Action(args[1])
	decision, err := gate.New(doc).Can(handle, action)
	if err != nil {
		return err
	}

	if jsonOutput {
		outputJSON(decision)
	} else if decision.Allowed {
		fmt.Printf("%s %s %s\n", ui.RenderPass(ui.IconPass), handle, ui.RenderPass(string(action)))
	} else {
		reason := ""
		if decision.Reason != nil {
			reason = *decision.Reason
		}
		fmt.Printf("%s %s %s %s\n", ui.RenderFail(ui.IconFail), handle, string(action), ui.RenderMuted(reason))
	}

	if !decision.Allowed {
		cmd.SilenceErrors = true
		return &exitError{code: 2}
	}
	return nil
}

// exitError carries a specific exit code through cobra's error path.
type exitError struct{ code int }

func (e *exitError) Error() string { return fmt.Sprintf("exit %d", e.code) }
