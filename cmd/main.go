package main

import (
	"fmt"
	"os"

	"github.com/labcold/catalog/internal/app"
)

func main() {
	a, err := app.New()
	if err != nil {
		fmt.Printf("failed to init app: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	addr := ":" + a.Cfg.Port
	a.Log.Info("starting server", "addr", addr)
	if err := a.Run(addr); err != nil {
		a.Log.Fatal("server exited", "error", err)
	}
}
