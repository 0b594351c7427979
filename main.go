package main

import (
	"os"

	"catalog-etl/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
