// Command pdflayer is the CLI driver for the parser: it exercises the
// three core layers against real files without embedding any
// document-level (page tree, content stream) logic of its own.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
