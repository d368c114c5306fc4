// status_line.go - Terminal status line for headless/no-window runs

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

package main

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/term"
)

// runStatusLine prints a continuously refreshed single line of
// orchestrator state to stdout, truncated to the terminal width, for
// headless builds where there is no debug overlay to look at
// (spec.md §4.11). Returns immediately if stdout is not a terminal.
func runStatusLine(done <-chan struct{}, orch *Orchestrator) {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return
	}

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			fmt.Println()
			return
		case <-ticker.C:
			s := orch.State()
			status := "RUNNING"
			if !s.Running {
				status = "PAUSED"
			}
			line := fmt.Sprintf("%s  phosphor=%s  source=%s  tonemap=%s  backlog=%d",
				status, s.PhosphorName, s.SourceName, s.Tonemap, s.BacklogSamples)

			width, _, err := term.GetSize(fd)
			if err == nil && width > 0 && len(line) > width {
				line = line[:width]
			}
			fmt.Printf("\r%s\033[K", line)
		}
	}
}
