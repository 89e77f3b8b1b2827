package main

import "github.com/emainas/alasca/cmd"

func main() {
	cmd.Execute() // initialize cobra commands
}
