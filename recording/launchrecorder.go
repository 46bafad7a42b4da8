package recording

import (
	"os"
	"strings"
	"time"
)

// LaunchInfo is one property of the current app launch.
type LaunchInfo struct {
	Property string
	Value    string
}

// A LaunchRecorder records one row per property of the current app launch
// (start time, command line, host) so that recorded signals can be tied back
// to the run that produced them.
type LaunchRecorder struct {
	tablename string
	recorder  DataRecorder
	entries   []LaunchInfo
}

// NewLaunchRecorder creates a LaunchRecorder that writes through the given
// backend.
func NewLaunchRecorder(recorder DataRecorder) *LaunchRecorder {
	l := &LaunchRecorder{
		recorder:  recorder,
		tablename: "launch_info",
	}

	l.recorder.CreateTable(l.tablename, LaunchInfo{})

	return l
}

// Start collects the launch properties.
func (l *LaunchRecorder) Start() {
	currentTime := time.Now()
	startTime := currentTime.Format("2006-01-02 15:04:05.000000000")
	l.entries = append(l.entries, LaunchInfo{"Start Time", startTime})

	cmd := strings.Join(os.Args, " ")
	l.entries = append(l.entries, LaunchInfo{"Command", cmd})

	host, err := os.Hostname()
	if err == nil {
		l.entries = append(l.entries, LaunchInfo{"Host", host})
	}
}

// End writes the collected properties along with the exit time.
func (l *LaunchRecorder) End() {
	for _, entry := range l.entries {
		l.recorder.InsertData(l.tablename, entry)
	}

	endTime := time.Now()
	endValue := endTime.Format("2006-01-02 15:04:05.000000000")
	l.recorder.InsertData(l.tablename, LaunchInfo{"End Time", endValue})

	l.entries = nil

	l.recorder.Flush()
}
