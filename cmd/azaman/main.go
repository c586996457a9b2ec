// Command azaman is the Aza Man personal finance assistant CLI. It chats
// over stdin/stdout, persisting each session's budget, expenses and
// transcript to SQLite so conversations resume across restarts.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
