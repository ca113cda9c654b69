package placesearch

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

const tagKey = "placesearch"

// schemaMeta holds parsed struct tag metadata, cached per TypedIndex.
type schemaMeta struct {
	typ     reflect.Type
	header  []string
	fields  []int // struct field index per header column
	columns Columns
}

// parseSchema reflects on T and extracts placesearch struct tag metadata.
//
// A tag is `placesearch:"Header,role"` where role is one of name, lat, lng,
// category or region. A tag without a role maps a plain column.
func parseSchema[T any]() (*schemaMeta, error) {
	var zero T
	t := reflect.TypeOf(zero)
	if t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("placesearch: type %v is not a struct", t)
	}

	meta := &schemaMeta{typ: t}
	seen := make(map[string]struct{})
	for i := range t.NumField() {
		f := t.Field(i)
		tag := f.Tag.Get(tagKey)
		if tag == "" || tag == "-" || !f.IsExported() {
			continue
		}
		column, role, _ := strings.Cut(tag, ",")
		if column == "" {
			column = f.Name
		}
		if _, dup := seen[column]; dup {
			return nil, fmt.Errorf("placesearch: duplicate column %q on field %s", column, f.Name)
		}
		seen[column] = struct{}{}
		if err := applyRole(meta, column, role, f.Name); err != nil {
			return nil, err
		}
		meta.header = append(meta.header, column)
		meta.fields = append(meta.fields, i)
	}

	return validateSchema(meta, t)
}

func applyRole(meta *schemaMeta, column, role, fieldName string) error {
	var slot *string
	switch role {
	case "name":
		slot = &meta.columns.Name
	case "lat":
		slot = &meta.columns.Latitude
	case "lng":
		slot = &meta.columns.Longitude
	case "category":
		slot = &meta.columns.Categories
	case "region":
		slot = &meta.columns.Region
	case "":
		return nil
	default:
		return fmt.Errorf("placesearch: unknown role %q on field %s", role, fieldName)
	}
	if *slot != "" {
		return fmt.Errorf("placesearch: duplicate %s tag on field %s", role, fieldName)
	}
	*slot = column
	return nil
}

func validateSchema(meta *schemaMeta, t reflect.Type) (*schemaMeta, error) {
	if meta.columns.Name == "" {
		return nil, fmt.Errorf("placesearch: no field with `placesearch:\"...,name\"` tag in %s", t)
	}
	if meta.columns.Latitude == "" || meta.columns.Longitude == "" {
		return nil, fmt.Errorf("placesearch: lat and lng must both be present in %s", t)
	}
	// Unset optional roles point at columns that do not exist.
	if meta.columns.Categories == "" {
		meta.columns.Categories = "-"
	}
	if meta.columns.Region == "" {
		meta.columns.Region = "-"
	}
	return meta, nil
}

// toRow renders one item as table cells in header order.
func (m *schemaMeta) toRow(item any) []string {
	v := reflect.ValueOf(item)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	row := make([]string, len(m.fields))
	for i, idx := range m.fields {
		row[i] = cellString(v.Field(idx))
	}
	return row
}

// fromPlace rebuilds a typed item from a place's raw fields.
func (m *schemaMeta) fromPlace(p Place) any {
	v := reflect.New(m.typ).Elem()
	for i, idx := range m.fields {
		if raw, ok := p.Fields[m.header[i]]; ok {
			setCell(v.Field(idx), raw)
		}
	}
	return v.Interface()
}

func cellString(v reflect.Value) string {
	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		if math.IsNaN(f) {
			return ""
		}
		return strconv.FormatFloat(f, 'f', -1, 64)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10)
	case reflect.Bool:
		return strconv.FormatBool(v.Bool())
	default:
		return fmt.Sprint(v.Interface())
	}
}

func setCell(v reflect.Value, raw string) {
	if v.Kind() == reflect.String {
		v.SetString(raw)
		return
	}
	raw = strings.TrimSpace(raw)
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			f = math.NaN()
		}
		v.SetFloat(f)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			v.SetInt(n)
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if n, err := strconv.ParseUint(raw, 10, 64); err == nil {
			v.SetUint(n)
		}
	case reflect.Bool:
		if b, err := strconv.ParseBool(raw); err == nil {
			v.SetBool(b)
		}
	}
}
