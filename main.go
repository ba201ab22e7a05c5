package main

import "github.com/KaramelBytes/gapminder-cli/cmd"

func main() {
	cmd.Execute()
}
