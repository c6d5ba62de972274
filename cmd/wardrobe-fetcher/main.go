package main

import "github.com/meur/wardrobe-fetcher/internal/cli"

func main() {
	cli.Execute()
}
