package main

import (
	"context"
	"log"

	"bibler-backend/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().ExecuteContext(context.Background()); err != nil {
		log.Fatalf("[ERROR] %v", err)
	}
}
