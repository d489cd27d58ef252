// internal/models/dynamo.go
package models

import (
	"strconv"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// AttributeValueToPlain converts a DynamoDB attribute value into the plain
// shape the Attr type understands.
func AttributeValueToPlain(av types.AttributeValue) interface{} {
	switch v := av.(type) {
	case *types.AttributeValueMemberS:
		return v.Value
	case *types.AttributeValueMemberN:
		if f, err := strconv.ParseFloat(v.Value, 64); err == nil {
			return f
		}
		return v.Value
	case *types.AttributeValueMemberBOOL:
		return v.Value
	case *types.AttributeValueMemberM:
		m := make(map[string]interface{}, len(v.Value))
		for k, inner := range v.Value {
			m[k] = AttributeValueToPlain(inner)
		}
		return m
	case *types.AttributeValueMemberL:
		l := make([]interface{}, 0, len(v.Value))
		for _, inner := range v.Value {
			l = append(l, AttributeValueToPlain(inner))
		}
		return l
	case *types.AttributeValueMemberNULL:
		return nil
	default:
		return nil
	}
}

// RecordFromItem builds a RestaurantRecord from a DynamoDB item.
func RecordFromItem(item map[string]types.AttributeValue) RestaurantRecord {
	get := func(key string) Attr {
		av, ok := item[key]
		if !ok {
			return Attr{}
		}
		return NewAttr(AttributeValueToPlain(av))
	}

	r := RestaurantRecord{
		Name:    get("name"),
		Rating:  get("rating"),
		Price:   get("price"),
		Address: get("address"),
		ZipCode: get("zip_code"),
	}
	r.BusinessID = get("business_id").String()
	r.Cuisine = get("cuisine").String()
	if rc, ok := get("review_count").Float(); ok {
		r.ReviewCount = int(rc)
	}

	if av, ok := item["coordinates"]; ok {
		if m, ok := AttributeValueToPlain(av).(map[string]interface{}); ok {
			c := &Coordinates{}
			if lat, ok := NewAttr(m["latitude"]).Float(); ok {
				c.Latitude = lat
			}
			if lon, ok := NewAttr(m["longitude"]).Float(); ok {
				c.Longitude = lon
			}
			r.Coordinates = c
		}
	}

	if av, ok := item["location"]; ok {
		if m, ok := AttributeValueToPlain(av).(map[string]interface{}); ok {
			r.Location = &Location{
				Address1: NewAttr(m["address1"]),
				Address2: NewAttr(m["address2"]),
				City:     NewAttr(m["city"]),
				State:    NewAttr(m["state"]),
				ZipCode:  NewAttr(m["zip_code"]),
			}
		}
	}

	if av, ok := item["business_hours"]; ok {
		for _, entry := range windowEntries(AttributeValueToPlain(av)) {
			w := HoursWindow{Start: NewAttr(entry["start"]), End: NewAttr(entry["end"])}
			if !w.Start.IsZero() || !w.End.IsZero() {
				r.BusinessHours = append(r.BusinessHours, w)
			}
		}
	}

	return r
}

func windowEntries(v interface{}) []map[string]interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		return []map[string]interface{}{t}
	case []interface{}:
		out := make([]map[string]interface{}, 0, len(t))
		for _, e := range t {
			if m, ok := e.(map[string]interface{}); ok {
				out = append(out, m)
			}
		}
		return out
	default:
		return nil
	}
}

// ItemFromRecord builds the DynamoDB item for a RestaurantRecord. Absent
// string attributes are stored as empty strings so the item shape stays
// uniform across listings.
func ItemFromRecord(r RestaurantRecord) map[string]types.AttributeValue {
	item := map[string]types.AttributeValue{
		"business_id":  &types.AttributeValueMemberS{Value: r.BusinessID},
		"cuisine":      &types.AttributeValueMemberS{Value: r.Cuisine},
		"name":         &types.AttributeValueMemberS{Value: r.Name.String()},
		"rating":       &types.AttributeValueMemberN{Value: strconv.FormatFloat(r.RatingValue(), 'f', -1, 64)},
		"review_count": &types.AttributeValueMemberN{Value: strconv.Itoa(r.ReviewCount)},
		"price":        &types.AttributeValueMemberS{Value: r.Price.String()},
		"address":      &types.AttributeValueMemberS{Value: r.ComposeAddress()},
		"zip_code":     &types.AttributeValueMemberS{Value: r.ZipCode.String()},
	}

	if r.Coordinates != nil {
		item["coordinates"] = &types.AttributeValueMemberM{Value: map[string]types.AttributeValue{
			"latitude":  &types.AttributeValueMemberN{Value: strconv.FormatFloat(r.Coordinates.Latitude, 'f', -1, 64)},
			"longitude": &types.AttributeValueMemberN{Value: strconv.FormatFloat(r.Coordinates.Longitude, 'f', -1, 64)},
		}}
	}

	if len(r.BusinessHours) > 0 {
		windows := make([]types.AttributeValue, 0, len(r.BusinessHours))
		for _, w := range r.BusinessHours {
			windows = append(windows, &types.AttributeValueMemberM{Value: map[string]types.AttributeValue{
				"start": &types.AttributeValueMemberS{Value: w.Start.String()},
				"end":   &types.AttributeValueMemberS{Value: w.End.String()},
			}})
		}
		item["business_hours"] = &types.AttributeValueMemberL{Value: windows}
	}

	return item
}
