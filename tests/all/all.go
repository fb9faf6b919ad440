// Package all imports every test group so that their test cases are
// registered with the harness.
package all

import (
	// Active test groups
	_ "github.com/musikid/pjdfstest/tests/chflags"
	_ "github.com/musikid/pjdfstest/tests/chmod"
	_ "github.com/musikid/pjdfstest/tests/chown"
	_ "github.com/musikid/pjdfstest/tests/link"
	_ "github.com/musikid/pjdfstest/tests/mkdir"
	_ "github.com/musikid/pjdfstest/tests/posixfallocate"
	_ "github.com/musikid/pjdfstest/tests/rename"
	_ "github.com/musikid/pjdfstest/tests/unlink"
	_ "github.com/musikid/pjdfstest/tests/utimensat"
)
