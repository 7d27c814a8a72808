package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordReport(t *testing.T) {
	before := testutil.ToFloat64(ReportsGenerated.WithLabelValues("2011", SurfaceCLI, "success"))
	RecordReport("2011", SurfaceCLI, time.Millisecond, nil)
	after := testutil.ToFloat64(ReportsGenerated.WithLabelValues("2011", SurfaceCLI, "success"))
	if after-before != 1 {
		t.Errorf("expected one more report, got %v", after-before)
	}

	RecordReport("both", SurfaceAPI, time.Millisecond, errors.New("boom"))
	if testutil.ToFloat64(ReportsGenerated.WithLabelValues("both", SurfaceAPI, "error")) < 1 {
		t.Error("expected failed report to be counted")
	}
}

func TestSetDatasetRecords(t *testing.T) {
	SetDatasetRecords(731, 17379)
	if v := testutil.ToFloat64(DatasetRecords.WithLabelValues("daily")); v != 731 {
		t.Errorf("expected 731, got %v", v)
	}
	if v := testutil.ToFloat64(DatasetRecords.WithLabelValues("hourly")); v != 17379 {
		t.Errorf("expected 17379, got %v", v)
	}
}

func TestRecordHTTPRequest(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequests.WithLabelValues("/healthz", "200"))
	RecordHTTPRequest("/healthz", 200, time.Microsecond)
	if testutil.ToFloat64(HTTPRequests.WithLabelValues("/healthz", "200"))-before != 1 {
		t.Error("expected request to be counted")
	}
}
