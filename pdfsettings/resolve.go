package pdfsettings

// Source records which precedence level produced the effective settings.
type Source string

const (
	SourceGlobal  Source = "global"
	SourceStored  Source = "stored"
	SourceDefault Source = "default"
)

// Resolve picks exactly one whole settings object for t. Global defaults win
// while enabled, then the stored bucket for t, then the built-in default.
// Levels are never merged field by field.
func Resolve(t DocumentType, stored DocumentPDFSettings) PDFSettings {
	s, _ := ResolveWithSource(t, stored)
	return s
}

// ResolveWithSource is Resolve plus the level the result came from.
func ResolveWithSource(t DocumentType, stored DocumentPDFSettings) (PDFSettings, Source) {
	if g := stored.Global; g != nil && g.UseGlobalDefaults {
		return g.DefaultSettings.Clone(), SourceGlobal
	}
	if s, ok := stored.Bucket(t); ok {
		return s, SourceStored
	}
	return Default(t), SourceDefault
}

// CopySettings stores the currently effective settings of source as the
// bucket for target and returns the updated blob. The input is not modified.
func CopySettings(stored DocumentPDFSettings, source, target DocumentType) (DocumentPDFSettings, error) {
	if !source.Valid() || !target.Valid() {
		return stored, ErrUnknownDocumentType
	}
	out := stored.Clone()
	if err := out.SetBucket(target, Resolve(source, stored)); err != nil {
		return stored, err
	}
	return out, nil
}
