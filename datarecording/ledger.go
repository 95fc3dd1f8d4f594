package datarecording

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

// Run statuses.
const (
	StatusOK          = "ok"
	StatusFailed      = "failed"
	StatusInterrupted = "interrupted"
)

// Ledger records one compiler run: when and how it was invoked and which
// artifacts it produced.
type Ledger struct {
	mu       sync.Mutex
	recorder DataRecorder
	exec     *execRecorder
	runID    string
	buildID  string
	ended    bool
}

// Open connects to a ledger destination. A clickhouse:// DSN selects
// ClickHouse, anything else is an SQLite file path.
//
// If the process exits before End is called, the run is recorded as
// interrupted.
func Open(ctx context.Context, dest string) (*Ledger, error) {
	var (
		recorder DataRecorder
		err      error
	)

	if strings.HasPrefix(dest, "clickhouse://") {
		recorder, err = NewClickHouse(ctx, dest)
	} else {
		recorder, err = NewSQLite(dest)
	}

	if err != nil {
		return nil, err
	}

	l, err := NewLedger(recorder)
	if err != nil {
		recorder.Close()
		return nil, err
	}

	atexit.Register(func() {
		l.End(StatusInterrupted)
	})

	return l, nil
}

// NewLedger prepares the ledger tables of recorder.
func NewLedger(recorder DataRecorder) (*Ledger, error) {
	if err := recorder.CreateTable(execTableName, execInfo{}); err != nil {
		return nil, err
	}

	if err := recorder.CreateTable(artifactTableName, artifactInfo{}); err != nil {
		return nil, err
	}

	runID := xid.New().String()

	return &Ledger{
		recorder: recorder,
		exec:     newExecRecorder(recorder, runID),
		runID:    runID,
	}, nil
}

// RunID identifies this run in the ledger.
func (l *Ledger) RunID() string {
	return l.runID
}

// Start records the invocation of a build.
func (l *Ledger) Start(buildID string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.buildID = buildID
	l.exec.Start(buildID)
}

// RecordArtifact records the size and digest of a written file.
func (l *Ledger) RecordArtifact(name string, content []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()

	sum := sha256.Sum256(content)

	l.recorder.InsertData(artifactTableName, artifactInfo{
		RunID:   l.runID,
		BuildID: l.buildID,
		Name:    name,
		Bytes:   int64(len(content)),
		SHA256:  hex.EncodeToString(sum[:]),
	})
}

// End records the final status and closes the ledger. Calls after the first
// do nothing.
func (l *Ledger) End(status string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.ended {
		return nil
	}

	l.ended = true

	if err := l.exec.End(status); err != nil {
		l.recorder.Close()
		return fmt.Errorf("recording run %s: %w", l.runID, err)
	}

	return l.recorder.Close()
}

// Run is a recorded run as read back from an SQLite ledger.
type Run struct {
	RunID      string
	Properties map[string]string
	Artifacts  []Artifact
}

// Artifact is a recorded file of a run.
type Artifact struct {
	Name   string
	Bytes  int64
	SHA256 string
}

// ReadRuns lists the runs recorded in an SQLite ledger in the order they
// ended. A non-empty buildID keeps only runs of that build.
func ReadRuns(ctx context.Context, path, buildID string) ([]Run, error) {
	reader, err := NewReader(path)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	reader.MapTable(execTableName, execInfo{})
	reader.MapTable(artifactTableName, artifactInfo{})

	props, err := reader.Query(ctx, execTableName, QueryParams{OrderBy: "rowid"})
	if err != nil {
		return nil, err
	}

	var (
		runs  []*Run
		index = map[string]*Run{}
	)

	for _, p := range props {
		e := p.(*execInfo)

		run, ok := index[e.RunID]
		if !ok {
			run = &Run{RunID: e.RunID, Properties: map[string]string{}}
			index[e.RunID] = run
			runs = append(runs, run)
		}

		run.Properties[e.Property] = e.Value
	}

	files, err := reader.Query(ctx, artifactTableName, QueryParams{OrderBy: "rowid"})
	if err != nil {
		return nil, err
	}

	for _, f := range files {
		a := f.(*artifactInfo)
		if run, ok := index[a.RunID]; ok {
			run.Artifacts = append(run.Artifacts, Artifact{
				Name: a.Name, Bytes: a.Bytes, SHA256: a.SHA256,
			})
		}
	}

	result := make([]Run, 0, len(runs))
	for _, r := range runs {
		if buildID != "" && r.Properties[PropBuildID] != buildID {
			continue
		}

		sort.Slice(r.Artifacts, func(i, j int) bool {
			return r.Artifacts[i].Name < r.Artifacts[j].Name
		})

		result = append(result, *r)
	}

	return result, nil
}
