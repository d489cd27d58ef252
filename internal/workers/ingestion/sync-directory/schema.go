// internal/workers/ingestion/sync-directory/schema.go
package syncdirectory

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// listingSchema rejects directory payloads missing the fields the record
// conversion depends on.
const listingSchema = `{
	"type": "object",
	"required": ["id", "name", "coordinates", "location"],
	"properties": {
		"id": {"type": "string", "minLength": 1},
		"name": {"type": "string", "minLength": 1},
		"review_count": {"type": "integer", "minimum": 0},
		"rating": {"type": "number", "minimum": 0, "maximum": 5},
		"price": {"type": "string"},
		"coordinates": {
			"type": "object",
			"required": ["latitude", "longitude"],
			"properties": {
				"latitude": {"type": "number"},
				"longitude": {"type": "number"}
			}
		},
		"location": {
			"type": "object",
			"properties": {
				"address1": {"type": ["string", "null"]},
				"address2": {"type": ["string", "null"]},
				"city": {"type": ["string", "null"]},
				"state": {"type": ["string", "null"]},
				"zip_code": {"type": ["string", "null"]}
			}
		},
		"categories": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"alias": {"type": "string"},
					"title": {"type": "string"}
				}
			}
		}
	}
}`

var compiledListingSchema *gojsonschema.Schema

func init() {
	var err error
	compiledListingSchema, err = gojsonschema.NewSchema(gojsonschema.NewStringLoader(listingSchema))
	if err != nil {
		panic(fmt.Sprintf("compile listing schema: %v", err))
	}
}

// validateListing checks a raw listing document against the schema and
// returns a single descriptive error when it does not conform.
func validateListing(raw []byte) error {
	result, err := compiledListingSchema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("validate listing: %w", err)
	}
	if result.Valid() {
		return nil
	}

	details := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		details = append(details, desc.String())
	}
	return fmt.Errorf("listing does not conform: %s", strings.Join(details, "; "))
}
