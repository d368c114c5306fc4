package main

import (
	"fmt"
	"runtime"
	"sort"
)

// Version is the simulator's release string, bumped on tagged releases.
const Version = "0.1.0"

// compiledFeatures tracks build-time feature flags via init() registration,
// grounded on basic_embed.go/lhasa_fallback.go's append-in-init idiom.
var compiledFeatures []string

func printFeatures() {
	fmt.Printf("Phosphor %s\n", Version)
	fmt.Printf("  Go version: %s\n", runtime.Version())
	fmt.Printf("  OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Println()
	fmt.Println("Compiled features:")

	sort.Strings(compiledFeatures)
	for _, f := range compiledFeatures {
		fmt.Printf("  %s\n", f)
	}
	if len(compiledFeatures) == 0 {
		fmt.Println("  (none)")
	}
}
