package main

import "github.com/freehekimteam/quietvector/cmd/quietvector/cmd"

func main() {
	cmd.Execute()
}
