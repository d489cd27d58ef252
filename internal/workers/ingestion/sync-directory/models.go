// internal/workers/ingestion/sync-directory/models.go
package syncdirectory

// Input optionally narrows the run to specific cuisines.
type Input struct {
	Cuisines []string `json:"cuisines,omitempty"`
}

// Output summarizes one directory sync run.
type Output struct {
	Fetched    int            `json:"fetched"`
	Written    int            `json:"written"`
	Indexed    int            `json:"indexed"`
	Skipped    int            `json:"skipped"`
	PerCuisine map[string]int `json:"perCuisine"`
	Notified   bool           `json:"notified"`
	Status     string         `json:"status"`
}

// Listing is one business as the directory API returns it.
type Listing struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	ReviewCount int     `json:"review_count"`
	Rating      float64 `json:"rating"`
	Price       string  `json:"price,omitempty"`
	Coordinates struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"coordinates"`
	Location struct {
		Address1 string `json:"address1"`
		Address2 string `json:"address2"`
		City     string `json:"city"`
		State    string `json:"state"`
		ZipCode  string `json:"zip_code"`
	} `json:"location"`
	Categories []struct {
		Alias string `json:"alias"`
		Title string `json:"title"`
	} `json:"categories"`
	BusinessHours []struct {
		Open []struct {
			Start string `json:"start"`
			End   string `json:"end"`
		} `json:"open"`
	} `json:"business_hours"`

	// queriedCuisine is the cuisine whose search page returned the listing.
	queriedCuisine string
}

// searchResponse is one page of the directory search endpoint.
type searchResponse struct {
	Businesses []Listing `json:"businesses"`
	Total      int       `json:"total"`
}
