// ABOUTME: Entry point for the hrms CLI
// ABOUTME: Admin console for the HRMS backend, scriptable or interactive

package main

import (
	"fmt"
	"os"

	"github.com/markalston/hrms-console/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
