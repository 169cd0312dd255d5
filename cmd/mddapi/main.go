// Command mddapi runs the MDD API server.
package main

import (
	"context"
	"fmt"
	"os"
	"time"
)

func main() {
	time.Local = time.UTC

	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
