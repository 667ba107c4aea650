package repository

import "reflect"

// Normalize is the serialization boundary applied to every outbound field
// map: typed nil pointers and nil slices/maps become explicit untyped nils,
// so the persisted document carries a real null instead of an unset field.
func Normalize(fields map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		if v == nil {
			out[k] = nil
			continue
		}
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice:
			if rv.IsNil() {
				out[k] = nil
				continue
			}
		}
		out[k] = v
	}
	return out
}
