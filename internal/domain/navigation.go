package domain

// NavigationDocument is the site-wide header navigation flyout.
type NavigationDocument struct {
	Header struct {
		PrimaryNavigation []NavigationDepartment `json:"primaryNavigation"`
	} `json:"header"`
}

type NavigationDepartment struct {
	Title      string               `json:"title"`
	Categories []NavigationCategory `json:"l2"`
}

type NavigationCategory struct {
	Name          string               `json:"name"`
	URL           string               `json:"url"`
	SubCategories []NavigationCategory `json:"l3"`
}
