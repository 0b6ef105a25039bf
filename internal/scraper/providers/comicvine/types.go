package comicvine

// searchResponse is the envelope of the /search endpoint.
type searchResponse struct {
	Error      string         `json:"error"`
	StatusCode int            `json:"status_code"`
	Results    []volumeResult `json:"results"`
}

type volumeResult struct {
	Name        string `json:"name"`
	StartYear   string `json:"start_year"`
	Deck        string `json:"deck"`
	Description string `json:"description"`
	Publisher   *struct {
		Name string `json:"name"`
	} `json:"publisher"`
}

// Status codes documented by the API.
const (
	statusOK            = 1
	statusInvalidAPIKey = 100
)
