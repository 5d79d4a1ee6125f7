// Command importd runs the bulk import HTTP service.
package main

import (
	"context"
	"fmt"
	"os"

	"careimport/internal/app"
)

func main() {
	application, err := app.NewApplication(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start: %v\n", err)
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		application.Logger.Error("application exited with error", "error", err)
		os.Exit(1)
	}
}
