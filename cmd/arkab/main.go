package main

import "github.com/arkab-io/arkab/internal/cli"

func main() {
	cli.Execute()
}
