package pdftemplates

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"docportal/repository"
)

// ExportVersion is the current template file format.
const ExportVersion = 1

// ExportFile carries templates between installations. Ids, usage counts and
// default/system flags are not part of the file.
type ExportFile struct {
	Version    int         `json:"version"`
	ExportedAt time.Time   `json:"exportedAt"`
	Templates  []SaveInput `json:"templates"`
}

// Export writes the given templates, or every template when ids is empty.
func (s *Store) Export(ids []string, now time.Time) ([]byte, error) {
	var tpls []Template
	if len(ids) == 0 {
		all, err := s.List(Filter{})
		if err != nil {
			return nil, err
		}
		tpls = all
	} else {
		for _, id := range ids {
			t, err := s.Get(id)
			if err != nil {
				return nil, err
			}
			tpls = append(tpls, t)
		}
	}

	f := ExportFile{
		Version:    ExportVersion,
		ExportedAt: now.UTC().Truncate(time.Second),
		Templates:  make([]SaveInput, 0, len(tpls)),
	}
	for _, t := range tpls {
		i := t.Info()
		f.Templates = append(f.Templates, SaveInput{
			Name:        i.Name,
			Description: i.Description,
			Scope:       i.Scope,
			Tags:        i.Tags,
			Settings:    i.Settings,
		})
	}

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode template file: %w", err)
	}
	return data, nil
}

// Import validates every entry first and then saves them all in one
// transaction as user templates.
func (s *Store) Import(data []byte) ([]UserTemplate, error) {
	var f ExportFile
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}
	if f.Version != ExportVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidFile, f.Version)
	}
	for n, in := range f.Templates {
		if err := in.Validate(); err != nil {
			return nil, fmt.Errorf("template %d (%q): %w", n+1, in.Name, err)
		}
	}

	out := make([]UserTemplate, 0, len(f.Templates))
	err := s.repos.Transaction(func(tx *repository.Repos) error {
		for _, in := range f.Templates {
			row, err := tx.Templates.Insert(repository.TemplateRow{
				Name:        strings.TrimSpace(in.Name),
				Description: in.Description,
				Scope:       string(in.Scope),
				Settings:    in.Settings,
				Tags:        normalizeTags(in.Tags),
			})
			if err != nil {
				return err
			}
			out = append(out, fromRow(row).(UserTemplate))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.WithField("count", len(out)).Info("templates imported")
	return out, nil
}
