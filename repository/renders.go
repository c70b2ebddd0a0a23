package repository

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
)

// RenderEntry is one document_renders row: proof that an artifact with the
// given payload was produced.
type RenderEntry struct {
	ID        string
	DocType   string
	RecordID  string
	Number    string
	IssuedAt  string
	Payload   json.RawMessage
	Signature string
	PageCount int
	Filename  string
	Rendered  time.Time
}

type RenderRepository struct {
	app core.App
}

func (r *RenderRepository) Append(e RenderEntry) (RenderEntry, error) {
	col, err := r.app.FindCollectionByNameOrId(RendersCollection)
	if err != nil {
		return RenderEntry{}, fmt.Errorf("failed to find %s collection: %w", RendersCollection, err)
	}
	if e.Rendered.IsZero() {
		e.Rendered = time.Now()
	}

	rec := core.NewRecord(col)
	rec.Set("doc_type", e.DocType)
	rec.Set("record_id", e.RecordID)
	rec.Set("number", e.Number)
	rec.Set("issued_at", e.IssuedAt)
	rec.Set("rendered_at", e.Rendered.UnixMicro())
	rec.Set("signature", e.Signature)
	rec.Set("page_count", e.PageCount)
	rec.Set("filename", e.Filename)
	if len(e.Payload) > 0 {
		if err := encodeJSON(rec, "payload", e.Payload); err != nil {
			return RenderEntry{}, err
		}
	}

	if err := r.app.Save(rec); err != nil {
		return RenderEntry{}, fmt.Errorf("failed to save render log: %w", err)
	}
	e.ID = rec.Id
	return e, nil
}

// Latest returns the most recent render of one record.
func (r *RenderRepository) Latest(docType, recordID string) (RenderEntry, error) {
	recs, err := r.app.FindRecordsByFilter(RendersCollection,
		"doc_type = {:type} && record_id = {:id}", "-rendered_at", 1, 0,
		dbx.Params{"type": docType, "id": recordID})
	if err != nil {
		return RenderEntry{}, fmt.Errorf("failed to query render log: %w", err)
	}
	if len(recs) == 0 {
		return RenderEntry{}, fmt.Errorf("render of %s/%s: %w", docType, recordID, ErrNotFound)
	}
	return entryFromRecord(recs[0]), nil
}

// FindIssued returns the render whose payload carried issuedAt.
func (r *RenderRepository) FindIssued(docType, recordID, issuedAt string) (RenderEntry, error) {
	rec, err := r.app.FindFirstRecordByFilter(RendersCollection,
		"doc_type = {:type} && record_id = {:id} && issued_at = {:at}",
		dbx.Params{"type": docType, "id": recordID, "at": issuedAt})
	if isNotFound(err) {
		return RenderEntry{}, fmt.Errorf("render of %s/%s at %s: %w", docType, recordID, issuedAt, ErrNotFound)
	}
	if err != nil {
		return RenderEntry{}, fmt.Errorf("failed to query render log: %w", err)
	}
	return entryFromRecord(rec), nil
}

func entryFromRecord(rec *core.Record) RenderEntry {
	e := RenderEntry{
		ID:        rec.Id,
		DocType:   rec.GetString("doc_type"),
		RecordID:  rec.GetString("record_id"),
		Number:    rec.GetString("number"),
		IssuedAt:  rec.GetString("issued_at"),
		Signature: rec.GetString("signature"),
		PageCount: rec.GetInt("page_count"),
		Filename:  rec.GetString("filename"),
		Rendered:  time.UnixMicro(int64(rec.GetFloat("rendered_at"))),
	}
	if raw := rec.GetString("payload"); raw != "" && raw != "null" {
		e.Payload = json.RawMessage(raw)
	}
	return e
}
