// Command piggybank simulates the companion application of a coin-counting
// piggy bank.
package main

import (
	"github.com/tebeka/atexit"

	"github.com/sarchlab/piggybank/piggybank/cmd"
)

func main() {
	cmd.Execute()
	atexit.Exit(0)
}
