// Command hal runs and inspects WebAssembly modules with the hal
// interpreter.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
