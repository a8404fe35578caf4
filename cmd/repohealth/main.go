// main is the entry point for the repohealth CLI.
package main

import (
	"fmt"
	"os"

	"github.com/seunfola/repohealth/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Println("❌", err)
		os.Exit(1)
	}
}
