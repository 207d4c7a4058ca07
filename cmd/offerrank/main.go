package main

import "offer-ranker/internal/cli"

func main() {
	cli.Execute()
}
