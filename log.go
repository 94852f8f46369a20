package mutationdiff

import "github.com/golang/glog"

// Verbosity levels for the [mutations] tag, mirroring the bracket-tag
// convention used throughout the tether/connect logging in the wider
// toolkit this core ships inside of.
const (
	logMutationSummary glog.Level = 1 // one line per mutation() call
	logPromiseDetail    glog.Level = 2 // promise resolution / fixedness propagation
)

func logMutation(format string, args ...any) {
	if glog.V(logMutationSummary) {
		glog.Infof("[mutations] "+format, args...)
	}
}

func logPromise(format string, args ...any) {
	if glog.V(logPromiseDetail) {
		glog.Infof("[mutations][promise] "+format, args...)
	}
}
