package main

import (
	"fmt"
	"os"

	"github.com/swipelab/swipelab-backend/internal/app"
	"github.com/swipelab/swipelab-backend/internal/utils"
)

func main() {
	application, err := app.New()
	if err != nil {
		fmt.Printf("Failed to init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	application.Start()

	port := utils.GetEnv("PORT", "8080", application.Log)
	application.Log.Info("Server listening", "port", port)
	if err := application.Run(":" + port); err != nil {
		application.Log.Error("Server failed", "error", err)
	}
}
