// Command httpc sends requests with the httpc client and serves the echo
// service used to try it out.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
