package main

import (
	"os"

	"github.com/education-insights/insightsctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
