package assert

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kode4food/arran/internal/config"
	"github.com/kode4food/arran/pkg/api"
)

// Wrapper wraps testify assertions with Arran-specific helpers
type Wrapper struct {
	*testing.T
	*assert.Assertions
	Require *assert.Assertions
}

// DefaultRetryInterval is the default polling interval for Eventually checks
const DefaultRetryInterval = 100 * time.Millisecond

// New creates a new test assertion wrapper with both assert and require
// from testify plus Arran-specific helpers
func New(t *testing.T) *Wrapper {
	return &Wrapper{
		T:          t,
		Assertions: assert.New(t),
		Require:    assert.New(t),
	}
}

// StepValid asserts that a step descriptor is valid
func (w *Wrapper) StepValid(s *api.Step) {
	w.Helper()
	w.NoError(s.Validate())
	w.NotEmpty(s.ID)
	w.NotEmpty(s.Title)
}

// StepInvalid asserts that a step descriptor is invalid and returns the
// validation error
func (w *Wrapper) StepInvalid(
	s *api.Step, expectedErrorContains string,
) error {
	w.Helper()
	err := s.Validate()
	w.Error(err)
	if err != nil && expectedErrorContains != "" {
		w.Contains(err.Error(), expectedErrorContains)
	}
	return err
}

// Allowed asserts that an intent outcome was permitted at the index
func (w *Wrapper) Allowed(out api.Outcome, index int) {
	w.Helper()
	w.True(out.Allowed, "intent should be allowed: %s", out.Reason)
	w.Equal(index, out.Index)
}

// Denied asserts that an intent outcome was denied for the reason
func (w *Wrapper) Denied(out api.Outcome, reason api.Reason) {
	w.Helper()
	w.False(out.Allowed, "intent should be denied")
	w.Equal(reason, out.Reason)
}

// StateAt asserts the current position of a flow state
func (w *Wrapper) StateAt(st *api.FlowState, index int) {
	w.Helper()
	w.Equal(index, st.CurrentIndex)
}

// Visited asserts the visited set of a flow state
func (w *Wrapper) Visited(st *api.FlowState, indexes ...int) {
	w.Helper()
	w.Equal(normalize(indexes), setIndexes(st.Visited))
}

// Completed asserts the completed set of a flow state
func (w *Wrapper) Completed(st *api.FlowState, indexes ...int) {
	w.Helper()
	w.Equal(normalize(indexes), setIndexes(st.Completed))
}

// Skipped asserts the skipped set of a flow state
func (w *Wrapper) Skipped(st *api.FlowState, indexes ...int) {
	w.Helper()
	w.Equal(normalize(indexes), setIndexes(st.Skipped))
}

// ValidResult asserts that a validation result passed
func (w *Wrapper) ValidResult(res *api.ValidationResult) {
	w.Helper()
	w.Require.NotNil(res)
	w.True(res.Valid)
	w.Empty(res.Errors)
}

// InvalidResult asserts that a validation result failed for the fields
func (w *Wrapper) InvalidResult(
	res *api.ValidationResult, fields ...api.Name,
) {
	w.Helper()
	w.Require.NotNil(res)
	w.False(res.Valid)
	for _, name := range fields {
		w.Contains(res.Errors, name)
	}
}

// ConfigValid asserts that a configuration is valid
func (w *Wrapper) ConfigValid(cfg *config.Config) {
	w.Helper()
	w.NoError(cfg.Validate())
	w.True(cfg.APIPort > 0 && cfg.APIPort <= config.MaxTCPPort)
}

// ConfigInvalid asserts that a configuration is invalid
func (w *Wrapper) ConfigInvalid(cfg *config.Config, contains string) {
	w.Helper()
	err := cfg.Validate()
	w.Error(err)
	if contains != "" {
		w.Contains(err.Error(), contains)
	}
}

// Eventually runs a condition repeatedly until it passes or times out
func (w *Wrapper) Eventually(
	condition func() bool, timeout time.Duration, msg string, args ...any,
) {
	w.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(DefaultRetryInterval)
	}
	w.Fail(msg, args...)
}

func normalize(indexes []int) []int {
	if indexes == nil {
		return []int{}
	}
	return indexes
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
