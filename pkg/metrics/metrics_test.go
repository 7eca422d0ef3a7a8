package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordFareEvaluation(t *testing.T) {
	before := testutil.ToFloat64(FareEvaluationsTotal.WithLabelValues("RANGE", "success"))
	beforeErr := testutil.ToFloat64(FareEvaluationsTotal.WithLabelValues("RANGE", "error"))

	RecordFareEvaluation("RANGE", 4600, nil)
	RecordFareEvaluation("RANGE", 0, errors.New("unknown surge rule"))

	assert.Equal(t, before+1, testutil.ToFloat64(FareEvaluationsTotal.WithLabelValues("RANGE", "success")))
	assert.Equal(t, beforeErr+1, testutil.ToFloat64(FareEvaluationsTotal.WithLabelValues("RANGE", "error")))
}

func TestRecordConfigRejection(t *testing.T) {
	c := ConfigRejectionsTotal.WithLabelValues("ranges", "duplicate default tier")
	before := testutil.ToFloat64(c)

	RecordConfigRejection("ranges", "duplicate default tier")

	assert.Equal(t, before+1, testutil.ToFloat64(c))
}

func TestRecordSurgeCacheLookup(t *testing.T) {
	hit := testutil.ToFloat64(SurgeCacheLookups.WithLabelValues("hit"))
	miss := testutil.ToFloat64(SurgeCacheLookups.WithLabelValues("miss"))

	RecordSurgeCacheLookup(true)
	RecordSurgeCacheLookup(false)
	RecordSurgeCacheLookup(false)

	assert.Equal(t, hit+1, testutil.ToFloat64(SurgeCacheLookups.WithLabelValues("hit")))
	assert.Equal(t, miss+2, testutil.ToFloat64(SurgeCacheLookups.WithLabelValues("miss")))
}
