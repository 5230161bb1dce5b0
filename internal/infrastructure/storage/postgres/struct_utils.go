package postgres

import (
	"reflect"
	"sync"
)

// column is a db-tagged field reachable from a struct type, embedded structs included.
type column struct {
	name  string
	index []int
}

var columnCache sync.Map // reflect.Type -> []column

func columnsOf(t reflect.Type) []column {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if cached, ok := columnCache.Load(t); ok {
		return cached.([]column)
	}
	var cols []column
	if t.Kind() == reflect.Struct {
		cols = collectColumns(t, nil)
	}
	columnCache.Store(t, cols)
	return cols
}

func collectColumns(t reflect.Type, prefix []int) []column {
	var cols []column
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		index := append(append([]int(nil), prefix...), i)
		if f.Anonymous {
			ft := f.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				cols = append(cols, collectColumns(ft, index)...)
			}
			continue
		}
		if tag := f.Tag.Get("db"); tag != "" && tag != "-" && f.IsExported() {
			cols = append(cols, column{name: tag, index: index})
		}
	}
	return cols
}

// Columns lists the "db" tags of T in field order. Repositories compute it once
// and use it both as the SELECT list and as the INSERT column set.
func Columns[T any]() []string {
	cols := columnsOf(reflect.TypeFor[T]())
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.name
	}
	return names
}

// Values maps column names to the field values of v. With a non-empty only,
// columns outside it are left out. Returns nil when v is not a struct.
func Values(v any, only []string) map[string]any {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	var keep map[string]struct{}
	if len(only) > 0 {
		keep = make(map[string]struct{}, len(only))
		for _, name := range only {
			keep[name] = struct{}{}
		}
	}

	cols := columnsOf(rv.Type())
	out := make(map[string]any, len(cols))
	for _, c := range cols {
		if keep != nil {
			if _, ok := keep[c.name]; !ok {
				continue
			}
		}
		fv, err := rv.FieldByIndexErr(c.index)
		if err != nil {
			continue // nil embedded pointer
		}
		out[c.name] = fv.Interface()
	}
	return out
}
