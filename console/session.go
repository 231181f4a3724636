package console

import (
	"fmt"
	"strings"
)

// Run drives the operator read loop: read a line, try the local router,
// and forward anything unhandled verbatim to the controller. It returns
// only if the input source is exhausted; `exit` terminates the process
// from its handler.
func Run(consoleMgr Manager, system *LocalSystem, router *Router) {
	for {
		consoleMgr.Print("> ")
		line := consoleMgr.ReadInputLine()
		if strings.TrimSpace(line) == "" {
			continue
		}

		handledLocally, err := router.ProcessLine(line)
		if err != nil {
			// Parse and usage errors are recovered here: shown to the
			// operator, session continues.
			PrintlnErr(consoleMgr, err.Error())
			continue
		}
		if handledLocally {
			continue
		}

		if err := system.SendInstruction(line); err != nil {
			PrintlnErr(consoleMgr, fmt.Sprintf("Could not send command to the controller: %v", err))
		}
	}
}
