package router

import (
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"
)

// bindQuery fills a request struct from URL query parameters, matching fields
// by their json tag.
func bindQuery(r *http.Request, obj any) error {
	value := reflect.ValueOf(obj).Elem()
	if value.Kind() != reflect.Struct {
		return fmt.Errorf("cannot bind query into %T", obj)
	}

	query := r.URL.Query()
	for i := 0; i < value.NumField(); i++ {
		field := value.Type().Field(i)
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}

		raw := query.Get(name)
		if raw == "" {
			continue
		}

		if err := setField(value.Field(i), raw); err != nil {
			return fmt.Errorf("invalid value of %s: %w", name, err)
		}
	}

	return nil
}

func setField(field reflect.Value, raw string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return err
		}
		field.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return err
		}
		field.SetUint(n)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		field.SetBool(b)
	default:
		return fmt.Errorf("unsupported field kind %s", field.Kind())
	}

	return nil
}
