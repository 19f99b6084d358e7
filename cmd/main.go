package main

import (
	"fmt"
	"os"

	"github.com/yungbote/moviegraph-backend/internal/app"
)

func main() {
	application, err := app.New()
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	addr := application.Cfg.HTTPAddr
	application.Log.Info("Starting ingestion service", "addr", addr)
	if err := application.Run(addr); err != nil {
		application.Log.Error("server exited", "error", err)
		application.Close()
		os.Exit(1)
	}
}
