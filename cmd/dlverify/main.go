package main

import "github.com/adamwoolhether/dlverify/cmd/dlverify/cmd"

func main() {
	cmd.Execute()
}
