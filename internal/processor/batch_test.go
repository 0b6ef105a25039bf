package processor_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vrsandeep/comic-go/internal/models"
	"github.com/vrsandeep/comic-go/internal/processor"
)

type progressCall struct {
	processed int
	total     int
	label     string
}

func queue() []models.QueueFile {
	return []models.QueueFile{
		{ID: "a", Path: "/incoming/Saga 001 (2012).cbz", Name: "Saga 001 (2012).cbz"},
		{ID: "b", Path: "/incoming/Unknown Thing 004 (2020).cbz", Name: "Unknown Thing 004 (2020).cbz"},
		{ID: "c", Path: "/incoming/readme.txt", Name: "readme.txt"},
	}
}

func TestRunBatch_OrderingAndProgress(t *testing.T) {
	coord := processor.NewBatchCoordinator(processor.New(sagaKB()), 0)

	var calls []progressCall
	results := coord.RunBatch(context.Background(), queue(), func(processed, total int, label string) {
		calls = append(calls, progressCall{processed, total, label})
	})

	require.Len(t, calls, 4)
	assert.Equal(t, []string{"Saga 001 (2012).cbz", "Unknown Thing 004 (2020).cbz", "readme.txt", processor.CompleteLabel},
		[]string{calls[0].label, calls[1].label, calls[2].label, calls[3].label})
	for i := 0; i < 3; i++ {
		assert.Equal(t, i+1, calls[i].processed)
		assert.Equal(t, 3, calls[i].total)
	}
	assert.Equal(t, 3, calls[3].processed)

	require.Len(t, results, 3)
	assert.True(t, results["a"].Success)
	assert.Equal(t, models.ConfidenceHigh, results["a"].Confidence)
	assert.True(t, results["b"].Success)
	assert.Equal(t, models.ConfidenceLow, results["b"].Confidence)
	assert.False(t, results["c"].Success)
}

func TestRunBatch_NilProgressAndEmptyQueue(t *testing.T) {
	coord := processor.NewBatchCoordinator(processor.New(nil), 0)
	assert.Len(t, coord.RunBatch(context.Background(), queue(), nil), 3)

	var calls []progressCall
	results := coord.RunBatch(context.Background(), nil, func(processed, total int, label string) {
		calls = append(calls, progressCall{processed, total, label})
	})
	assert.Empty(t, results)
	assert.Equal(t, []progressCall{{0, 0, processor.CompleteLabel}}, calls)
}

func TestRunBatch_KeysFallBackToPath(t *testing.T) {
	coord := processor.NewBatchCoordinator(processor.New(nil), 0)
	results := coord.RunBatch(context.Background(), []models.QueueFile{{Path: "Saga 061 (2023).cbz"}}, nil)
	_, ok := results["Saga 061 (2023).cbz"]
	assert.True(t, ok)
}

func TestRunBatch_Cancellation(t *testing.T) {
	coord := processor.NewBatchCoordinator(processor.New(sagaKB()), 0)
	ctx, cancel := context.WithCancel(context.Background())

	var labels []string
	results := coord.RunBatch(ctx, queue(), func(processed, total int, label string) {
		labels = append(labels, label)
		if processed == 1 {
			cancel()
		}
	})

	assert.Equal(t, []string{"Saga 001 (2012).cbz"}, labels, "no further files and no completion after cancel")
	assert.Len(t, results, 1)
}

func TestRunBatch_Delay(t *testing.T) {
	coord := processor.NewBatchCoordinator(processor.New(nil), 20*time.Millisecond)
	start := time.Now()
	coord.RunBatch(context.Background(), queue(), nil)
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestGetStats(t *testing.T) {
	results := map[string]models.ProcessingResult{
		"1": {Success: true, Confidence: models.ConfidenceHigh},
		"2": {Success: true, Confidence: models.ConfidenceHigh},
		"3": {Success: true, Confidence: models.ConfidenceMedium},
		"4": {Success: false, Confidence: models.ConfidenceLow, Error: "nope"},
	}
	assert.Equal(t, models.BatchStats{
		Total: 4, Successful: 3, Failed: 1,
		HighConfidence: 2, MediumConfidence: 1, LowConfidence: 0,
	}, processor.GetStats(results))

	assert.Equal(t, models.BatchStats{}, processor.GetStats(nil))
}
