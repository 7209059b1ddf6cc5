package domain

// Airline is keyed by its code, which never changes after creation.
type Airline struct {
	Code string
	Name string
}
