package main

import "github.com/paulmatencio/tbm/tbm/cmd"

func main() {
	cmd.Execute()
}
