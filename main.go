package main

import "github.com/notargets/tdma/cmd"

func main() {
	cmd.Execute()
}
