package main

import (
	"github.com/alyraffauf/alycodes/cmd"
)

func main() {
	cmd.Execute()
}
