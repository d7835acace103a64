package v1

// Commit is one entry of recent history.
type Commit struct {
	Identifier string `json:"identifier"`
	Author     string `json:"author"`
	Date       string `json:"date"`
	Message    string `json:"message"`
}

// Delivery reports which repositories received a pending message.
type Delivery struct {
	Written []string `json:"written"`
	Matched bool     `json:"matched"`
}

// Pending is the pending commit message of one repository.
type Pending struct {
	Root    string `json:"root"`
	Message string `json:"message"`
}
