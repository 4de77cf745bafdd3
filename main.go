package main

import (
	"github.com/AzielCF/az-xpost/cmd"
)

func main() {
	cmd.Execute()
}
