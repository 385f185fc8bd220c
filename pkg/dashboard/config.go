package dashboard

// ResolveTheme fills unset fields of theme from the default theme. A nil
// theme yields the defaults. The argument is not modified.
func ResolveTheme(theme *DashboardTheme) *DashboardTheme {
	if theme == nil {
		return DefaultDashboardTheme()
	}
	merged := *theme
	return mergeWithDefaults(&merged)
}

// mergeWithDefaults fills in missing values from the default theme.
func mergeWithDefaults(theme *DashboardTheme) *DashboardTheme {
	def := DefaultDashboardTheme()

	// Colors
	fill(&theme.Colors.Primary, def.Colors.Primary)
	fill(&theme.Colors.Success, def.Colors.Success)
	fill(&theme.Colors.Error, def.Colors.Error)
	fill(&theme.Colors.Progress, def.Colors.Progress)
	fill(&theme.Colors.Info, def.Colors.Info)
	fill(&theme.Colors.Muted, def.Colors.Muted)
	fill(&theme.Colors.Text, def.Colors.Text)
	fill(&theme.Colors.Border, def.Colors.Border)
	fill(&theme.Colors.Highlight, def.Colors.Highlight)

	// Icons
	fill(&theme.Icons.Ready, def.Icons.Ready)
	fill(&theme.Icons.Select, def.Icons.Select)
	fill(&theme.Icons.Discover, def.Icons.Discover)

	// Title
	fill(&theme.Title.Text, def.Title.Text)
	fill(&theme.Title.Icon, def.Title.Icon)

	// Spinner
	fill(&theme.Spinner.Frames, def.Spinner.Frames)
	if theme.Spinner.Interval == 0 {
		theme.Spinner.Interval = def.Spinner.Interval
	}

	return theme
}

func fill(field *string, def string) {
	if *field == "" {
		*field = def
	}
}
