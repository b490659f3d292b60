package main

import (
	"os"

	"github.com/sieve-report/sieve/cmd"
)

func main() {
	code := cmd.Execute()
	os.Exit(code)
}
