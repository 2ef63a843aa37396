package dto

import (
	"time"

	"github.com/jsamuelsen/api-integration/internal/domain/dataset"
)

// MetadataResponse is the public shape of dataset metadata. Field names follow
// the upstream API so existing consumers can switch without remapping.
type MetadataResponse struct {
	ID                   int             `json:"id"`
	ModifiedAtUTC        time.Time       `json:"modifiedAtUtc"`
	Type                 string          `json:"type"`
	Status               string          `json:"status"`
	Organization         string          `json:"organization"`
	NameEn               string          `json:"nameEn"`
	NameFi               *string         `json:"nameFi"`
	DescriptionEn        string          `json:"descriptionEn"`
	DescriptionFi        *string         `json:"descriptionFi"`
	DataPeriodEn         string          `json:"dataPeriodEn"`
	DataPeriodFi         *string         `json:"dataPeriodFi"`
	UpdateCadenceEn      *string         `json:"updateCadenceEn"`
	UpdateCadenceFi      *string         `json:"updateCadenceFi"`
	UnitEn               string          `json:"unitEn"`
	UnitFi               *string         `json:"unitFi"`
	ContactPersons       string          `json:"contactPersons"`
	License              LicenseResponse `json:"license"`
	KeyWordsEn           []string        `json:"keyWordsEn"`
	KeyWordsFi           []string        `json:"keyWordsFi"`
	ContentGroupsEn      []string        `json:"contentGroupsEn"`
	ContentGroupsFi      []string        `json:"contentGroupsFi"`
	AvailableFormats     []string        `json:"availableFormats"`
	DataAvailableFromUTC *time.Time      `json:"dataAvailableFromUtc"`
}

// LicenseResponse is the public shape of a dataset license.
type LicenseResponse struct {
	Name      string `json:"name"`
	TermsLink string `json:"termsLink"`
}

// NewMetadataResponse maps the domain entity onto the response shape.
func NewMetadataResponse(m *dataset.Metadata) *MetadataResponse {
	if m == nil {
		return nil
	}

	return &MetadataResponse{
		ID:                   m.ID,
		ModifiedAtUTC:        m.ModifiedAt,
		Type:                 m.Type,
		Status:               m.Status,
		Organization:         m.Organization,
		NameEn:               m.Name,
		NameFi:               m.NameFi,
		DescriptionEn:        m.Description,
		DescriptionFi:        m.DescriptionFi,
		DataPeriodEn:         m.DataPeriod,
		DataPeriodFi:         m.DataPeriodFi,
		UpdateCadenceEn:      m.UpdateCadence,
		UpdateCadenceFi:      m.UpdateCadenceFi,
		UnitEn:               m.Unit,
		UnitFi:               m.UnitFi,
		ContactPersons:       m.ContactPersons,
		License:              LicenseResponse{Name: m.License.Name, TermsLink: m.License.TermsLink},
		KeyWordsEn:           m.Keywords,
		KeyWordsFi:           m.KeywordsFi,
		ContentGroupsEn:      m.ContentGroups,
		ContentGroupsFi:      m.ContentGroupsFi,
		AvailableFormats:     m.AvailableFormats,
		DataAvailableFromUTC: m.DataAvailableFrom,
	}
}
