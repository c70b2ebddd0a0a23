package pdftemplates

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/sirupsen/logrus"

	"docportal/pdfsettings"
	"docportal/repository"
)

// SaveInput is the data for a new user template.
type SaveInput struct {
	Name        string                  `json:"name"`
	Description string                  `json:"description"`
	Scope       Scope                   `json:"document_type"`
	Tags        []string                `json:"tags"`
	Settings    pdfsettings.PDFSettings `json:"settings"`
}

func (in SaveInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrEmptyName
	}
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.RuneLength(1, 120)),
		validation.Field(&in.Description, validation.RuneLength(0, 500)),
		validation.Field(&in.Scope, validation.By(validScope)),
		validation.Field(&in.Tags, validation.Each(validation.RuneLength(0, 40))),
		validation.Field(&in.Settings),
	)
}

func validScope(v any) error {
	s, _ := v.(Scope)
	if !s.Valid() {
		return validation.NewError("validation_unknown_scope", "must be a document type or global")
	}
	return nil
}

// Filter narrows List. Scope keeps templates applicable to that scope:
// a document type matches its own templates and global ones.
type Filter struct {
	Query string
	Scope Scope
}

// Store implements template operations over the repository. Mutations of
// one template id are serialized; the settings blob is updated in the same
// transaction as the template row.
type Store struct {
	repos *repository.Repos
	log   logrus.FieldLogger
	locks keyedMutex
}

func NewStore(repos *repository.Repos, log logrus.FieldLogger) *Store {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Store{repos: repos, log: log}
}

func fromRow(row repository.TemplateRow) Template {
	info := Info{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		Scope:       Scope(row.Scope),
		IsDefault:   row.IsDefault,
		Settings:    row.Settings,
		Tags:        row.Tags,
		UsageCount:  row.UsageCount,
		Created:     row.Created,
		Updated:     row.Updated,
	}
	if row.IsSystem {
		return SystemTemplate{info: info}
	}
	return UserTemplate{info: info}
}

func toRow(t UserTemplate) repository.TemplateRow {
	i := t.info
	return repository.TemplateRow{
		ID:          i.ID,
		Name:        i.Name,
		Description: i.Description,
		Scope:       string(i.Scope),
		IsDefault:   i.IsDefault,
		Settings:    i.Settings,
		Tags:        i.Tags,
		UsageCount:  i.UsageCount,
	}
}

func mapNotFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return err
}

func (s *Store) Get(id string) (Template, error) {
	row, err := s.repos.Templates.Get(id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return fromRow(row), nil
}

// Save creates a user template with zero usage.
func (s *Store) Save(in SaveInput) (UserTemplate, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := in.Validate(); err != nil {
		return UserTemplate{}, err
	}
	row, err := s.repos.Templates.Insert(repository.TemplateRow{
		Name:        in.Name,
		Description: in.Description,
		Scope:       string(in.Scope),
		Settings:    in.Settings.Clone(),
		Tags:        normalizeTags(in.Tags),
	})
	if err != nil {
		return UserTemplate{}, err
	}
	s.log.WithFields(logrus.Fields{"template_id": row.ID, "scope": row.Scope}).Info("template saved")
	return fromRow(row).(UserTemplate), nil
}

// Apply copies the template's settings into target's stored bucket and counts
// the use. The template itself is not changed otherwise.
func (s *Store) Apply(id string, target pdfsettings.DocumentType) (pdfsettings.DocumentPDFSettings, error) {
	if !target.Valid() {
		return pdfsettings.DocumentPDFSettings{}, fmt.Errorf("%w: %q", pdfsettings.ErrUnknownDocumentType, target)
	}
	unlock := s.locks.Lock(id)
	defer unlock()

	var out pdfsettings.DocumentPDFSettings
	err := s.repos.Transaction(func(tx *repository.Repos) error {
		row, err := tx.Templates.Get(id)
		if err != nil {
			return mapNotFound(err)
		}
		if !Scope(row.Scope).Admits(target) {
			return fmt.Errorf("%w: %s template on %s", ErrScopeMismatch, row.Scope, target)
		}
		out, err = tx.Settings.Update(func(d pdfsettings.DocumentPDFSettings) (pdfsettings.DocumentPDFSettings, error) {
			if err := d.SetBucket(target, row.Settings); err != nil {
				return d, err
			}
			return d, nil
		})
		if err != nil {
			return err
		}
		return tx.Templates.IncrementUsage(id)
	})
	if err != nil {
		return pdfsettings.DocumentPDFSettings{}, err
	}
	s.log.WithFields(logrus.Fields{"template_id": id, "doc_type": target}).Info("template applied")
	return out, nil
}

// Update changes a user template. System templates and attempts to change
// is_system are rejected.
func (s *Store) Update(id string, p Patch) (UserTemplate, error) {
	if p.IsSystem != nil {
		return UserTemplate{}, fmt.Errorf("%w: is_system", ErrImmutableField)
	}
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return UserTemplate{}, ErrEmptyName
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	tpl, err := s.Get(id)
	if err != nil {
		return UserTemplate{}, err
	}
	user, ok := tpl.(UserTemplate)
	if !ok {
		return UserTemplate{}, ErrSystemTemplate
	}

	next := user.withPatch(p)
	i := next.info
	if err := (SaveInput{Name: i.Name, Description: i.Description, Scope: i.Scope, Tags: i.Tags, Settings: i.Settings}).Validate(); err != nil {
		return UserTemplate{}, err
	}

	var saved repository.TemplateRow
	err = s.repos.Transaction(func(tx *repository.Repos) error {
		var err error
		saved, err = tx.Templates.Replace(toRow(next))
		if err != nil {
			return mapNotFound(err)
		}
		// a default moved to another scope must not collide with that scope's default
		if saved.IsDefault && i.Scope != user.info.Scope {
			return tx.Templates.ClearDefaults(saved.Scope, saved.ID)
		}
		return nil
	})
	if err != nil {
		return UserTemplate{}, err
	}
	return fromRow(saved).(UserTemplate), nil
}

func (s *Store) Delete(id string) error {
	unlock := s.locks.Lock(id)
	defer unlock()

	tpl, err := s.Get(id)
	if err != nil {
		return err
	}
	if _, ok := tpl.(UserTemplate); !ok {
		return ErrSystemTemplate
	}
	if err := s.repos.Templates.Delete(id); err != nil {
		return mapNotFound(err)
	}
	s.log.WithField("template_id", id).Info("template deleted")
	return nil
}

// CopySettings stores the currently effective settings of source as target's
// bucket. No template is involved.
func (s *Store) CopySettings(source, target pdfsettings.DocumentType) (pdfsettings.DocumentPDFSettings, error) {
	var out pdfsettings.DocumentPDFSettings
	err := s.repos.Transaction(func(tx *repository.Repos) error {
		var err error
		out, err = tx.Settings.Update(func(d pdfsettings.DocumentPDFSettings) (pdfsettings.DocumentPDFSettings, error) {
			return pdfsettings.CopySettings(d, source, target)
		})
		return err
	})
	return out, err
}

// List returns matching templates: defaults first, then most used, then by name.
func (s *Store) List(f Filter) ([]Template, error) {
	if f.Scope != "" && !f.Scope.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScope, f.Scope)
	}
	rows, err := s.repos.Templates.List()
	if err != nil {
		return nil, err
	}

	out := make([]Template, 0, len(rows))
	for _, row := range rows {
		t := fromRow(row)
		i := t.Info()
		if f.Scope != "" && i.Scope != f.Scope && i.Scope != ScopeGlobal {
			continue
		}
		if !Matches(i, f.Query) {
			continue
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(a, b int) bool {
		ia, ib := out[a].Info(), out[b].Info()
		if ia.IsDefault != ib.IsDefault {
			return ia.IsDefault
		}
		if ia.UsageCount != ib.UsageCount {
			return ia.UsageCount > ib.UsageCount
		}
		return strings.ToLower(ia.Name) < strings.ToLower(ib.Name)
	})
	return out, nil
}

// Duplicate copies any template, system ones included, into a new user
// template. An empty name becomes "<name> (copy)".
func (s *Store) Duplicate(id, name string) (UserTemplate, error) {
	tpl, err := s.Get(id)
	if err != nil {
		return UserTemplate{}, err
	}
	i := tpl.Info()
	if strings.TrimSpace(name) == "" {
		name = i.Name + " (copy)"
	}
	return s.Save(SaveInput{
		Name:        name,
		Description: i.Description,
		Scope:       i.Scope,
		Tags:        i.Tags,
		Settings:    i.Settings,
	})
}

// SetDefault marks a user template as the default of its scope and clears
// any previous default there.
func (s *Store) SetDefault(id string) (UserTemplate, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	var saved repository.TemplateRow
	err := s.repos.Transaction(func(tx *repository.Repos) error {
		row, err := tx.Templates.Get(id)
		if err != nil {
			return mapNotFound(err)
		}
		if row.IsSystem {
			return ErrSystemTemplate
		}
		if err := tx.Templates.ClearDefaults(row.Scope, id); err != nil {
			return err
		}
		row.IsDefault = true
		saved, err = tx.Templates.Replace(row)
		return err
	})
	if err != nil {
		return UserTemplate{}, err
	}
	return fromRow(saved).(UserTemplate), nil
}
