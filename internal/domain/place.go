package domain

// Place is a searchable point of interest.
type Place struct {
	ID       string
	Name     string
	Address  string
	Lat      float64
	Lng      float64
	Category string
}
