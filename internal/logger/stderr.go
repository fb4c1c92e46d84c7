package logger

import (
	"io"
	"os"
)

// stderr is swapped in tests.
var stderr = func() io.Writer { return os.Stderr }
