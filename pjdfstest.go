// Test a filesystem for POSIX/BSD metadata and namespace semantics
package main

import (
	"github.com/musikid/pjdfstest/cmd"

	// Register the test groups
	_ "github.com/musikid/pjdfstest/tests/all"
)

func main() {
	cmd.Main()
}
