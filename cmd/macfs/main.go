package main

import "github.com/deploymenttheory/go-macfs/cmd"

func main() {
	cmd.Execute()
}
