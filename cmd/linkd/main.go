package main

import (
	"log"

	"github.com/stacknscroll/linkd/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ linkd failed to start: %v", err)
	}
}
