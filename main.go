// main is the entry point for the netseries CLI.
package main

import (
	"github.com/huangsam/netseries/cmd"
	"github.com/huangsam/netseries/internal/contract"
)

func main() {
	err := cmd.Execute()
	if stopErr := cmd.StopProfiling(); stopErr != nil {
		contract.LogWarn("Cannot stop profiling", stopErr)
	}
	if err != nil {
		contract.LogFatal("Cannot run netseries", err)
	}
}
