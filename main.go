package main

import "navisync/cmd"

func main() {
	cmd.Execute()
}
