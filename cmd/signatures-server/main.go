package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/DekunleJr/Signatures/server"
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}

	dataDir := os.Getenv("SIGNATURES_DATA_DIR")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to resolve home directory: %v", err)
		}
		dataDir = filepath.Join(home, ".signatures", "server")
	}

	srv, err := server.New(
		filepath.Join(dataDir, "signatures.db"),
		filepath.Join(dataDir, "uploads"),
	)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}
	defer func() {
		if err := srv.Close(); err != nil {
			log.Printf("Error closing server: %v", err)
		}
	}()

	log.Printf("Signatures dev server starting on :%s", port)
	if err := srv.Start(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
