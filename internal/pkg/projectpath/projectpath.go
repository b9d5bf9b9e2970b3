// Package projectpath resolves the repository root so that files such as
// .env are found regardless of the working directory tests run in.
package projectpath

import (
	"path/filepath"
	"runtime"
)

var (
	_, b, _, _ = runtime.Caller(0)

	// Root is the root directory of this project.
	Root = filepath.Join(filepath.Dir(b), "../../..")
)
