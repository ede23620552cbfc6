package main

import (
	_ "gtaeconomy/docs"
	"gtaeconomy/internal/cli"
)

// @title GTA Economy API
// @version 1.0
// @description In-game economy tracker: players, items, market prices, transactions and analytics

// @host localhost:8080
// @BasePath /

func main() {
	cli.Execute()
}
