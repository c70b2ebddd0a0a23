// Package pdftemplates manages named, reusable style presets. System templates
// are seed data and read-only; user templates are created and edited freely.
package pdftemplates

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"docportal/pdfsettings"
)

var (
	ErrNotFound       = errors.New("template not found")
	ErrSystemTemplate = errors.New("system templates are read-only")
	ErrEmptyName      = errors.New("template name is required")
	ErrScopeMismatch  = errors.New("template does not apply to this document type")
	ErrImmutableField = errors.New("field cannot be changed")
	ErrUnknownScope   = errors.New("unknown template scope")
	ErrInvalidFile    = errors.New("invalid template file")
)

// Scope is a document type or ScopeGlobal.
type Scope string

const ScopeGlobal Scope = "global"

func ParseScope(s string) (Scope, error) {
	if strings.EqualFold(strings.TrimSpace(s), string(ScopeGlobal)) {
		return ScopeGlobal, nil
	}
	t, err := pdfsettings.ParseDocumentType(s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownScope, s)
	}
	return Scope(t), nil
}

func (s Scope) Valid() bool {
	return s == ScopeGlobal || pdfsettings.DocumentType(s).Valid()
}

// Admits reports whether a template with this scope may be applied to t.
func (s Scope) Admits(t pdfsettings.DocumentType) bool {
	return s == ScopeGlobal || Scope(t) == s
}

// Info is the data shared by both template variants.
type Info struct {
	ID          string
	Name        string
	Description string
	Scope       Scope
	IsDefault   bool
	Settings    pdfsettings.PDFSettings
	Tags        []string
	UsageCount  int
	Created     time.Time
	Updated     time.Time
}

func (i Info) IsGlobal() bool { return i.Scope == ScopeGlobal }

// Template is a closed sum: SystemTemplate or UserTemplate.
type Template interface {
	Info() Info
	sealed()
}

// SystemTemplate is immutable seed data. It offers no mutation methods.
type SystemTemplate struct{ info Info }

func (t SystemTemplate) Info() Info { return t.info }
func (SystemTemplate) sealed()      {}

// UserTemplate is created by users and may be edited or deleted.
type UserTemplate struct{ info Info }

func (t UserTemplate) Info() Info { return t.info }
func (UserTemplate) sealed()      {}

// withPatch returns the template with p applied. Only user templates can be
// patched.
func (t UserTemplate) withPatch(p Patch) UserTemplate {
	out := t.info
	if p.Name != nil {
		out.Name = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.Scope != nil {
		out.Scope = *p.Scope
	}
	if p.Settings != nil {
		out.Settings = p.Settings.Clone()
	}
	if p.Tags != nil {
		out.Tags = normalizeTags(*p.Tags)
	}
	return UserTemplate{info: out}
}

// IsSystem reports which variant t is.
func IsSystem(t Template) bool {
	_, ok := t.(SystemTemplate)
	return ok
}

// Patch lists the fields an update may change. IsSystem exists only so a
// request that tries to set it can be rejected explicitly.
type Patch struct {
	Name        *string                  `json:"name,omitempty"`
	Description *string                  `json:"description,omitempty"`
	Scope       *Scope                   `json:"document_type,omitempty"`
	Settings    *pdfsettings.PDFSettings `json:"settings,omitempty"`
	Tags        *[]string                `json:"tags,omitempty"`
	IsSystem    *bool                    `json:"is_system,omitempty"`
}

// View is the JSON shape of a template.
type View struct {
	ID          string                  `json:"id"`
	Name        string                  `json:"name"`
	Description string                  `json:"description"`
	Scope       Scope                   `json:"document_type"`
	IsDefault   bool                    `json:"is_default"`
	IsGlobal    bool                    `json:"is_global"`
	IsSystem    bool                    `json:"is_system"`
	Settings    pdfsettings.PDFSettings `json:"settings"`
	Tags        []string                `json:"tags"`
	UsageCount  int                     `json:"usage_count"`
	Created     time.Time               `json:"created"`
	Updated     time.Time               `json:"updated"`
}

func ToView(t Template) View {
	i := t.Info()
	tags := i.Tags
	if tags == nil {
		tags = []string{}
	}
	return View{
		ID:          i.ID,
		Name:        i.Name,
		Description: i.Description,
		Scope:       i.Scope,
		IsDefault:   i.IsDefault,
		IsGlobal:    i.IsGlobal(),
		IsSystem:    IsSystem(t),
		Settings:    i.Settings,
		Tags:        tags,
		UsageCount:  i.UsageCount,
		Created:     i.Created,
		Updated:     i.Updated,
	}
}

// Matches reports whether q occurs, case-insensitively, in the name, the
// description or any tag. An empty query matches everything.
func Matches(i Info, q string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(i.Name), q) || strings.Contains(strings.ToLower(i.Description), q) {
		return true
	}
	for _, tag := range i.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// normalizeTags trims, drops empties and de-duplicates case-insensitively.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		key := strings.ToLower(tag)
		if tag == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, tag)
	}
	return out
}
