// Package archive writes an audit record for each submitted flow to a
// blob bucket. Archiving is best-effort: failures are reported to the
// caller for logging but never block submission
package archive

import (
	"context"
	"encoding/json"
	"time"

	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"

	_ "gocloud.dev/blob/azureblob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/memblob"
	_ "gocloud.dev/blob/s3blob"

	"github.com/kode4food/arran/pkg/api"
)

type (
	// Archiver stores submitted-flow records in a gocloud.dev bucket,
	// supporting S3, GCS, Azure Blob Storage, local files, and in-memory
	// buckets
	Archiver struct {
		bucket *blob.Bucket
		prefix string
	}

	// Record is the serialized audit trail of one submitted flow
	Record struct {
		SubmittedAt    time.Time        `json:"submitted_at"`
		CreatedAt      time.Time        `json:"created_at"`
		Values         api.Args         `json:"values,omitempty"`
		StepData       map[int]api.Args `json:"step_data,omitempty"`
		FlowID         api.FlowID       `json:"flow_id"`
		CompletedSteps []int            `json:"completed_steps"`
		SkippedSteps   []int            `json:"skipped_steps"`
	}
)

// NewArchiver opens the bucket at the URL and returns an archiver writing
// under the key prefix
func NewArchiver(
	ctx context.Context, bucketURL, prefix string,
) (*Archiver, error) {
	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, err
	}
	return &Archiver{
		bucket: bucket,
		prefix: prefix,
	}, nil
}

// ArchiveFlow writes the audit record for a submitted flow
func (a *Archiver) ArchiveFlow(
	ctx context.Context, id api.FlowID, st *api.FlowState, values api.Args,
) error {
	rec := NewRecord(id, st, values)
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return a.bucket.WriteAll(ctx, a.keyFor(id), data, nil)
}

// ReadRecord retrieves a previously archived record, reporting whether one
// exists for the flow
func (a *Archiver) ReadRecord(
	ctx context.Context, id api.FlowID,
) (*Record, bool, error) {
	data, err := a.bucket.ReadAll(ctx, a.keyFor(id))
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, false, nil
		}
		return nil, false, err
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, false, err
	}
	return &rec, true, nil
}

// Close releases the underlying bucket
func (a *Archiver) Close() error {
	return a.bucket.Close()
}

// NewRecord builds the audit record for a submitted flow
func NewRecord(id api.FlowID, st *api.FlowState, values api.Args) *Record {
	return &Record{
		FlowID:         id,
		CreatedAt:      st.CreatedAt,
		SubmittedAt:    time.Now(),
		Values:         values,
		StepData:       st.StepData,
		CompletedSteps: setIndexes(st.Completed),
		SkippedSteps:   setIndexes(st.Skipped),
	}
}

func (a *Archiver) keyFor(id api.FlowID) string {
	return a.prefix + string(id) + ".json"
}

func setIndexes(set []bool) []int {
	res := []int{}
	for i, ok := range set {
		if ok {
			res = append(res, i)
		}
	}
	return res
}
