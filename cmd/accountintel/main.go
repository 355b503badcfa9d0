package main

import (
	"accountintel/cmd/handlers"
	"accountintel/internal/logger"
)

func main() {
	logger.Init()
	handlers.Execute()
}
