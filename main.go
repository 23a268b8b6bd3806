package main

import "github.com/itsmostafa/jseval/cmd"

func main() {
	cmd.Execute()
}
