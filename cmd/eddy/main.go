// Package main provides the Eddy Simulation Framework CLI.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/eddy-sim/eddy/backend"

	_ "github.com/eddy-sim/eddy/backend/native"
)

const version = "v0.0.1-dev"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version":
			fmt.Printf("Eddy Simulation Framework %s\n", version)
			return
		case "backends":
			fmt.Println(strings.Join(backend.Default.Backends(), "\n"))
			return
		}
	}

	fmt.Println("Eddy Simulation Framework - Fields and Backends for Go")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version    Show version")
	fmt.Println("  backends   List registered compute backends")
	fmt.Println("")
	fmt.Println("Coming soon: bench, convert")
}
