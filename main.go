package main

import "country-registry/cmd"

func main() {
	cmd.Execute()
}
