package main

import "github.com/trap-engine/trap-docs/cmd"

func main() {
	cmd.Execute()
}
