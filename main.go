package main

import "github.com/gaurav-prasanna/sitehash/cmd"

func main() {
	cmd.Execute()
}
