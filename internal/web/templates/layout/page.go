package layout

const siteName = "Tetris Showcase"

// PageData is shared by every full page
type PageData struct {
	Title string
}

// FullTitle returns the document title with the site name appended
func (d PageData) FullTitle() string {
	if d.Title == "" {
		return siteName
	}
	return d.Title + " | " + siteName
}
