package main

import "github.com/zjrosen/stemma/cmd"

func main() {
	cmd.Execute()
}
