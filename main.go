package main

import (
	"fmt"
	"os"

	"github.com/devndesk/DevReady/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "devready:", err)
		os.Exit(1)
	}
}
