package main

import (
	"fmt"

	"github.com/maisonhaus/capsule/internal/mutate"
	"github.com/maisonhaus/capsule/internal/ui"
)

// printSummary renders a mutator summary in the shared format.
func printSummary(s *mutate.Summary) {
	if jsonOutput {
		outputJSON(s)
		return
	}

	if s.Skipped {
		fmt.Printf("%s %s: no state file for %s, nothing to do\n", ui.RenderMuted(ui.IconSkip), s.Script, s.Capsule)
		return
	}

	icon := ui.RenderMuted(ui.IconSkip)
	if s.Changed > 0 {
		icon = ui.RenderPass(ui.IconPass)
	}
	fmt.Printf("%s %s: %d examined, %d changed\n", icon, s.Script, s.Examined, s.Changed)

	for _, note := range s.Notes {
		fmt.Printf("  %s %s\n", ui.RenderWarn(ui.IconWarn), note)
	}
	if len(s.Missing) > 0 {
		fmt.Printf("  %s %d CPI(s) without a mapping: %v\n", ui.RenderWarn(ui.IconWarn), len(s.Missing), s.Missing)
	}
}
