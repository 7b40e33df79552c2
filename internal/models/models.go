package models

// Table is the fully-resolved, ordered output of one view, ready for a
// widget to render without further joining or sorting.
type Table struct {
	Caption string     `json:"caption"`
	Columns []string   `json:"columns"`
	Rows    []TableRow `json:"rows"`
}

// TableRow is one output row. Cells are display strings or small markup
// fragments (country links, flags). Class carries the hierarchy level
// for country views; Separator marks rating-grade boundary rows in
// single-dimension views.
type TableRow struct {
	Cells     []string `json:"cells"`
	Class     string   `json:"class,omitempty"`
	Color     string   `json:"color,omitempty"`
	Separator bool     `json:"separator,omitempty"`
}

// ErrorResponse is the localized error payload for a failed view.
type ErrorResponse struct {
	Kind  string `json:"kind,omitempty"`
	Error string `json:"error"`
}
