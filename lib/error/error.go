/*package error contains simple functions for reporting fatal beamdpr errors.
*/
package error

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/sirupsen/logrus"
)

// Exit is called after a fatal error has been reported. Tests replace it.
var Exit = os.Exit

// External reports an error and exits with the given code. It should be used
// when an error is something a user could reasonably be expected to fix
// through changes in arguments, configuration, or data. Apart from the
// logger and exit code, it has the same signature as the standard
// fmt.*printf() functions.
func External(
	log logrus.FieldLogger, code int, format string, a ...interface{},
) {
	log.Errorf("beamdpr exited early with the following error: "+format, a...)
	Exit(code)
}

// Internal reports an error along with a stack trace and exits with code 1.
// It should be used when the error requires a code dive to fix.
func Internal(log logrus.FieldLogger, format string, a ...interface{}) {
	log.WithField("stack", string(debug.Stack())).
		Errorf("beamdpr exited early with an internal error: %s",
			fmt.Sprintf(format, a...))
	Exit(1)
}
