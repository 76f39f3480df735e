package models

// Station is a single station record as returned by the radio-browser API.
// Field names follow the upstream JSON wire format. Records are read-only;
// this service never mutates or persists them.
type Station struct {
	StationUUID    string `json:"stationuuid"`
	Name           string `json:"name"`
	URL            string `json:"url"`
	URLResolved    string `json:"url_resolved"`
	Homepage       string `json:"homepage,omitempty"`
	Favicon        string `json:"favicon,omitempty"`
	Tags           string `json:"tags"`
	Country        string `json:"country"`
	Language       string `json:"language"`
	Bitrate        int    `json:"bitrate"`
	Codec          string `json:"codec"`
	Votes          int    `json:"votes"`
	ClickCount     int    `json:"clickcount"`
	LastChangeTime string `json:"lastchangetime,omitempty"`
}
