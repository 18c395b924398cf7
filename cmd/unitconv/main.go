package main

import "github.com/zlatanpham/exploro-sub001/cmd/unitconv/commands"

func main() {
	commands.Execute()
}
