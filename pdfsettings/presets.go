package pdfsettings

// Preset is a named, built-in style. Presets back the read-only system
// templates and are never stored per type directly.
type Preset struct {
	ID          string
	Name        string
	Description string
	Tags        []string
	Settings    PDFSettings
}

// Presets returns fresh copies of the built-in styles in display order.
// IDs are fixed so re-seeding overwrites rather than duplicates.
func Presets() []Preset {
	return []Preset{
		{
			ID:          "systplclassic01",
			Name:        "Classic",
			Description: "Navy banner, striped table and numbered terms.",
			Tags:        []string{"classic", "striped", "default"},
			Settings:    base(),
		},
		{
			ID:          "systplmodern001",
			Name:        "Modern",
			Description: "Gradient header with teal accents and stacked info boxes.",
			Tags:        []string{"modern", "gradient", "teal"},
			Settings:    modern(),
		},
		{
			ID:          "systplminimal01",
			Name:        "Minimal",
			Description: "Letterhead header, plain table and no background fills.",
			Tags:        []string{"minimal", "letterhead", "plain"},
			Settings:    minimal(),
		},
		{
			ID:          "systplbold00001",
			Name:        "Bold",
			Description: "Large title, grid table and a bordered footer band.",
			Tags:        []string{"bold", "grid", "print"},
			Settings:    bold(),
		},
	}
}

func modern() PDFSettings {
	s := base()
	s.Header.Style = HeaderGradient
	s.Footer.Style = FooterGradient
	s.Colors.TableHeaderBg = "#0F766E"
	s.Colors.Accent = "#14B8A6"
	s.Colors.AlternateRow = "#F0FDFA"
	s.Colors.TableBorder = "#CCFBF1"
	s.InfoBoxes.Layout = BoxesStacked
	s.InfoBoxes.BorderRadius = 3
	s.DocumentTitle.BorderRadius = 4
	s.DocumentTitle.ReferencePosition = ReferenceBelow
	return s
}

func minimal() PDFSettings {
	s := base()
	s.Header.Style = HeaderLetterhead
	s.Header.TextColor = "#1A202C"
	s.Colors.TableHeaderBg = "#FFFFFF"
	s.Colors.TableHeaderText = "#1A202C"
	s.Colors.Accent = "#4A5568"
	s.Table.TableStyle = TablePlain
	s.DocumentTitle.BackgroundOpacity = 0
	s.InfoBoxes.ShowIcons = false
	s.Remarks.Style = ListPlain
	s.Fonts.HeaderFont = "Times"
	return s
}

func bold() PDFSettings {
	s := base()
	s.Header.Style = HeaderBordered
	s.Footer.Style = FooterBordered
	s.Colors.TableHeaderBg = "#111827"
	s.Colors.Accent = "#DC2626"
	s.Table.TableStyle = TableGrid
	s.DocumentTitle.FontSize = 22
	s.DocumentTitle.Padding = 4
	s.InfoBoxes.BorderWidth = 0.6
	return s
}
