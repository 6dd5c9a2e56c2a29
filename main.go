package main

import (
	_ "embed"

	"github.com/pulse-beyond/pulse-beyond/cmd"
)

//go:embed config/config.yaml
var c string

func main() {
	cmd.Execute(c)
}
