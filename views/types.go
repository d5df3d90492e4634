package views

// SiteConfig holds the site-wide settings the page shell needs.
type SiteConfig struct {
	Name        string // SITE_NAME (default "Portfolio")
	Description string // SITE_DESCRIPTION
}

// PageMeta carries per-page metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	CSRFToken   string
}

// Section is one tracked portfolio section of the page shell.
type Section struct {
	ID    string
	Title string
}
