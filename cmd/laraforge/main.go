package main

import "laraforge/cmd/laraforge/cli"

func main() {
	cli.Execute()
}
