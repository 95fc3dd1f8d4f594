package datarecording

import (
	"os"
	"strings"
	"time"
)

const (
	execTableName     = "exec_info"
	artifactTableName = "artifact_info"
	timeLayout        = "2006-01-02 15:04:05.000000000"
)

// Property names recorded for every run.
const (
	PropStartTime  = "Start Time"
	PropCommand    = "Command"
	PropWorkingDir = "Working Directory"
	PropBuildID    = "Build ID"
	PropStatus     = "Status"
	PropEndTime    = "End Time"
)

// execInfo is one property of one run.
type execInfo struct {
	RunID    string
	Property string
	Value    string
}

// artifactInfo describes one file written by a run.
type artifactInfo struct {
	RunID   string
	BuildID string
	Name    string
	Bytes   int64
	SHA256  string
}

// execRecorder collects the properties of a run until it ends.
type execRecorder struct {
	runID    string
	recorder DataRecorder
	entries  []execInfo
	now      func() time.Time
}

func newExecRecorder(recorder DataRecorder, runID string) *execRecorder {
	return &execRecorder{
		runID:    runID,
		recorder: recorder,
		now:      time.Now,
	}
}

func (e *execRecorder) add(property, value string) {
	e.entries = append(e.entries, execInfo{e.runID, property, value})
}

// Start logs the current execution.
func (e *execRecorder) Start(buildID string) {
	e.add(PropStartTime, e.now().Format(timeLayout))
	e.add(PropCommand, strings.Join(os.Args, " "))

	cwd, err := os.Getwd()
	if err != nil {
		cwd = "unknown"
	}

	e.add(PropWorkingDir, cwd)
	e.add(PropBuildID, buildID)
}

// End writes the collected properties along with the status and end time.
func (e *execRecorder) End(status string) error {
	e.add(PropStatus, status)
	e.add(PropEndTime, e.now().Format(timeLayout))

	for _, entry := range e.entries {
		e.recorder.InsertData(execTableName, entry)
	}

	e.entries = nil

	return e.recorder.Flush()
}
