package main

import (
	"github.com/onflow/chainbft/cmd/util/cmd"
)

func main() {
	cmd.Execute()
}
