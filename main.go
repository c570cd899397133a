package main

import "github.com/askanna-io/askanna-cli/cmd"

func main() {
	cmd.Execute()
}
