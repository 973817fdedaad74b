//go:build filelog
// +build filelog

package build

import "os"

var logf *os.File

// LoggingType is overridden under the filelog build tag: the surrounding
// process (usually a test harness) redirects stdout to a file itself, so the
// rotator is redundant.
const overrideLoggingType = LogTypeStdOut

func init() {
	LoggingType = overrideLoggingType

	var err error
	logf, err = os.Create("kasparov-wallet.log")
	if err != nil {
		panic(err)
	}
}
