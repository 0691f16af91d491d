// ./main.go
package main

import (
	"github.com/xkilldash9x/kinesis/cmd"
)

// main is the entry point for the kinesis CLI.
func main() {
	cmd.Execute()
}
