package main

import "usedcar-analyzer/cmd"

func main() {
	cmd.Execute()
}
