package domain

// Movie is a catalog entry. Genre and Director are embedded copies, not
// references to separate records.
type Movie struct {
	ID          string   `json:"_id,omitempty"`
	Title       string   `json:"Title"`
	Description string   `json:"Description"`
	Genre       Genre    `json:"Genre"`
	Director    Director `json:"Director"`
	ImagePath   string   `json:"ImagePath,omitempty"`
	Featured    bool     `json:"Featured"`
}

type Genre struct {
	Name        string `json:"Name"`
	Description string `json:"Description"`
}

type Director struct {
	Name  string `json:"Name"`
	Bio   string `json:"Bio"`
	Birth int    `json:"Birth,omitempty"`
	Death *int   `json:"Death,omitempty"`
}
