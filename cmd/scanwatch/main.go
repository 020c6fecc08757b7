package main

import (
	"github.com/NVIDIA/scanwatch/pkg/cli"
)

func main() {
	cli.Execute()
}
