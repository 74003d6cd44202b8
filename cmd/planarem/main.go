package main

import "github.com/OpenTraceLab/planarem/cmd/planarem/cmd"

func main() {
	cmd.Execute()
}
