package main

import (
	"fmt"
	"os"
)

// @title                       EcoGo API
// @version                     1.0
// @description                 Appliance lifecycle manager: timed appliances, auto-shutdown prompts, usage history and energy summaries.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
