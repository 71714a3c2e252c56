package main

import (
	"log"

	tool "github.com/prodtrack/auth-service/internal/tools/migrate"
)

func main() {
	if err := tool.NewRootCommand().Execute(); err != nil {
		log.Fatal(err)
	}
}
