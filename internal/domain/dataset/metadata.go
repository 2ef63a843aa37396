package dataset

import "time"

// Metadata describes one published dataset of the upstream open-data API.
// This is a domain entity - it has no knowledge of the upstream wire format.
type Metadata struct {
	// ID is the upstream dataset identifier.
	ID int

	ModifiedAt time.Time

	Type         string
	Status       string
	Organization string

	// Name, Description, DataPeriod and Unit hold the English texts;
	// the *Fi fields hold Finnish variants when the upstream provides them.
	Name            string
	NameFi          *string
	Description     string
	DescriptionFi   *string
	DataPeriod      string
	DataPeriodFi    *string
	UpdateCadence   *string
	UpdateCadenceFi *string
	Unit            string
	UnitFi          *string

	ContactPersons string
	License        License

	// Keywords, ContentGroups and AvailableFormats are never nil.
	Keywords         []string
	KeywordsFi       []string
	ContentGroups    []string
	ContentGroupsFi  []string
	AvailableFormats []string

	// DataAvailableFrom is nil when the upstream does not publish it.
	DataAvailableFrom *time.Time
}

// License names the terms a dataset is published under.
type License struct {
	Name      string
	TermsLink string
}
