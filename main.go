package main

import "log-cleaner/cmd"

func main() {
	cmd.Execute()
}
