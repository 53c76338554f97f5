package chunkseq

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Log is the package-level logger. Structural events (chunk promotion,
// skip-index population, stream close) are reported at Debug/Trace level.
// Output is discarded by default so the hot Append path never pays for
// logging a caller hasn't asked for.
var Log = logrus.New()

func init() {
	Log.SetOutput(io.Discard)
}
