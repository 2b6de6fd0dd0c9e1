package main

import (
	"github.com/Rakhulsr/e-agri/app/cmd"
)

func main() {
	cmd.RunCli()
}
