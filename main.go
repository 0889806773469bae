package main

import "nathanbeddoewebdev/deployctl/cmd"

func main() {
	cmd.Execute()
}
