package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"docportal/document"
	"docportal/pdfsettings"
)

// BatchRequest is one document of a batch export.
type BatchRequest struct {
	Type   pdfsettings.DocumentType `json:"type"`
	Record document.Record          `json:"record"`
	Format Format                   `json:"format"`
}

// BatchResult pairs a request index with its artifact or error.
type BatchResult struct {
	Index    int
	Artifact Artifact
	Err      error
}

// BatchExport renders every request with at most the configured number of
// concurrent renders. A failed item does not stop the others; results are
// returned in request order.
func (x *Exporter) BatchExport(ctx context.Context, reqs []BatchRequest) []BatchResult {
	batchID := uuid.NewString()
	log := x.log.WithFields(logrus.Fields{"batch_id": batchID, "count": len(reqs)})
	log.Info("batch export started")

	results := make([]BatchResult, len(reqs))
	var g errgroup.Group
	g.SetLimit(x.concurrency)

	for i, req := range reqs {
		results[i].Index = i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			f := req.Format
			if f == "" {
				f = FormatPDF
			}
			art, err := x.Export(ctx, req.Type, req.Record, f)
			results[i].Artifact = art
			results[i].Err = err
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			log.WithError(r.Err).WithField("index", r.Index).Warn("batch item failed")
		}
	}
	log.WithField("failed", failed).Info("batch export finished")
	return results
}
