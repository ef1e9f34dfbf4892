package main

import "github.com/haiseskibidi/autogun-build-tools/cmd"

func main() {
	cmd.Execute()
}
