// Package main is the entry point for the accounting CLI.
package main

import (
	"os"

	"github.com/b1f6c1c4/ProfessionalAccounting-sub000/cmd/accounting/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
