package acl

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/jsamuelsen/api-integration/internal/domain/dataset"
)

// externalMetadata is the dataset document served by the upstream API.
// Unexported: it never leaves this package.
type externalMetadata struct {
	ID                   int             `json:"id"`
	ModifiedAtUTC        upstreamTime    `json:"modifiedAtUtc"`
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
	License              externalLicense `json:"license"`
	KeyWordsEn           []string        `json:"keyWordsEn"`
	KeyWordsFi           []string        `json:"keyWordsFi"`
	ContentGroupsEn      []string        `json:"contentGroupsEn"`
	ContentGroupsFi      []string        `json:"contentGroupsFi"`
	AvailableFormats     []string        `json:"availableFormats"`
	DataAvailableFromUTC *upstreamTime   `json:"dataAvailableFromUtc"`
}

type externalLicense struct {
	Name      string `json:"name"`
	TermsLink string `json:"termsLink"`
}

// Zone-less layouts the upstream has been seen to send. They are read as UTC.
var upstreamTimeLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// upstreamTime accepts RFC 3339 timestamps and the zone-less forms above.
type upstreamTime struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler. A JSON null leaves the zero time.
func (t *upstreamTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if parsed, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		t.Time = parsed.UTC()
		return nil
	}

	for _, layout := range upstreamTimeLayouts {
		if parsed, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			t.Time = parsed
			return nil
		}
	}

	return &json.UnmarshalTypeError{Value: "timestamp " + raw, Type: reflect.TypeFor[time.Time]()}
}

// decodeJSON decodes a complete upstream body. A literal null is an error
// so callers never see a nil value on success.
func decodeJSON[T any](body []byte) (*T, error) {
	var out *T
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decoding upstream body: %w", err)
	}

	if out == nil {
		return nil, errNullPayload
	}

	return out, nil
}

// toDomain translates the upstream document. Missing English lists become
// empty slices; the Finnish ones stay nil. Timestamps are normalized to UTC.
func (ext *externalMetadata) toDomain() *dataset.Metadata {
	md := &dataset.Metadata{
		ID:               ext.ID,
		ModifiedAt:       ext.ModifiedAtUTC.UTC(),
		Type:             ext.Type,
		Status:           ext.Status,
		Organization:     ext.Organization,
		Name:             ext.NameEn,
		NameFi:           ext.NameFi,
		Description:      ext.DescriptionEn,
		DescriptionFi:    ext.DescriptionFi,
		DataPeriod:       ext.DataPeriodEn,
		DataPeriodFi:     ext.DataPeriodFi,
		UpdateCadence:    ext.UpdateCadenceEn,
		UpdateCadenceFi:  ext.UpdateCadenceFi,
		Unit:             ext.UnitEn,
		UnitFi:           ext.UnitFi,
		ContactPersons:   ext.ContactPersons,
		License:          dataset.License{Name: ext.License.Name, TermsLink: ext.License.TermsLink},
		Keywords:         nonNil(ext.KeyWordsEn),
		KeywordsFi:       ext.KeyWordsFi,
		ContentGroups:    nonNil(ext.ContentGroupsEn),
		ContentGroupsFi:  ext.ContentGroupsFi,
		AvailableFormats: nonNil(ext.AvailableFormats),
	}

	if ext.DataAvailableFromUTC != nil && !ext.DataAvailableFromUTC.IsZero() {
		from := ext.DataAvailableFromUTC.UTC()
		md.DataAvailableFrom = &from
	}

	return md
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}

	return s
}
