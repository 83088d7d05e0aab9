package main

import "github.com/raidtally/raidtally/cmd"

func main() {
	cmd.Execute()
}
