// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"
	"fmt"
	"io"
)

// BatchResult holds the outcome of a batch run.
type BatchResult struct {
	Extracted int
	Failed    int
}

// Total returns the number of datasets processed.
func (r BatchResult) Total() int {
	return r.Extracted + r.Failed
}

// HasFailures reports whether any dataset failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// RunBatch reduces every dataset in m in order, printing one status line
// per dataset to w followed by a summary. A failed dataset does not stop
// the run. Cancelling ctx stops before the next dataset and returns
// ctx.Err() with the counts so far.
func (e *Extractor) RunBatch(ctx context.Context, m *Manifest, w io.Writer) (BatchResult, error) {
	var result BatchResult

	for _, d := range m.Datasets {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		path := m.Resolve(d)
		res, err := e.withField(d.Field).ExtractAndReplace(ctx, path)
		if err != nil {
			fmt.Fprintf(w, "failed:    %s (%v)\n", d.Name, err)
			result.Failed++
			continue
		}
		fmt.Fprintf(w, "extracted: %s (%s, %d ids)\n", d.Name, path, res.Records)
		result.Extracted++
	}

	fmt.Fprintf(w, "\nBatch summary: %d extracted, %d failed (total: %d)\n",
		result.Extracted, result.Failed, result.Total())
	return result, nil
}
