package inspector

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Widget selects how a field is drawn.
type Widget int

const (
	WidgetAuto Widget = iota
	WidgetLabel
	WidgetBar
	WidgetBool
	WidgetVec
	WidgetSpark
	WidgetSkip
)

var widgetByName = map[string]Widget{
	"label": WidgetLabel,
	"bar":   WidgetBar,
	"bool":  WidgetBool,
	"vec":   WidgetVec,
	"spark": WidgetSpark,
	"skip":  WidgetSkip,
}

// Hint is a parsed `inspect` struct tag:
//
//	`inspect:"bar,max:2"`
//	`inspect:"spark,max:240"`
//	`inspect:"label,fmt:%.1fs"`
//	`inspect:"skip"`
//
// Unknown widgets and options are ignored.
type Hint struct {
	Widget Widget
	Max    float64 // full scale for bars and sparklines
	Format string  // printf format for labels
}

// ParseHint parses an inspect tag. Max defaults to 1.
func ParseHint(tag string) Hint {
	h := Hint{Max: 1}
	name, opts, _ := strings.Cut(tag, ",")
	h.Widget = widgetByName[strings.TrimSpace(name)]

	for opt := range strings.SplitSeq(opts, ",") {
		key, val, ok := strings.Cut(strings.TrimSpace(opt), ":")
		if !ok {
			continue
		}
		switch key {
		case "max":
			if m, err := strconv.ParseFloat(val, 64); err == nil && m > 0 {
				h.Max = m
			}
		case "fmt":
			h.Format = val
		}
	}
	return h
}

// Field is one exported struct field and how to draw it.
type Field struct {
	Name  string
	Value any
	Hint
}

// ExtractFields lists the exported fields of a struct or struct pointer,
// resolving WidgetAuto from the field type. Anything else yields nil.
func ExtractFields(value any) []Field {
	v := reflect.Indirect(reflect.ValueOf(value))
	if v.Kind() != reflect.Struct {
		return nil
	}

	var fields []Field
	for i := range v.NumField() {
		sf, fv := v.Type().Field(i), v.Field(i)
		if !sf.IsExported() {
			continue
		}
		h := ParseHint(sf.Tag.Get("inspect"))
		switch h.Widget {
		case WidgetSkip:
			continue
		case WidgetAuto:
			h.Widget = widgetFor(fv)
		}
		fields = append(fields, Field{Name: sf.Name, Value: fv.Interface(), Hint: h})
	}
	return fields
}

// widgetFor picks a widget from the field's kind. Arrays of up to four
// elements are vectors, longer series are sparklines.
func widgetFor(v reflect.Value) Widget {
	switch v.Kind() {
	case reflect.Bool:
		return WidgetBool
	case reflect.Array:
		if v.Len() <= 4 {
			return WidgetVec
		}
		return WidgetSpark
	case reflect.Slice:
		return WidgetSpark
	}
	return WidgetLabel
}

// FormatValue renders value with format, or a default for its type.
func FormatValue(value any, format string) string {
	if format != "" {
		return fmt.Sprintf(format, value)
	}
	if s, ok := value.(fmt.Stringer); ok {
		return s.String()
	}
	if v := reflect.ValueOf(value); v.CanFloat() {
		return strconv.FormatFloat(v.Float(), 'f', 2, 64)
	}
	if vals, ok := Floats(value); ok {
		parts := make([]string, len(vals))
		for i, f := range vals {
			parts[i] = strconv.FormatFloat(f, 'f', 1, 64)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	}
	return fmt.Sprint(value)
}

// Float converts any integer or float kind to float64.
func Float(value any) (float64, bool) {
	v := reflect.ValueOf(value)
	switch {
	case v.CanFloat():
		return v.Float(), true
	case v.CanInt():
		return float64(v.Int()), true
	case v.CanUint():
		return float64(v.Uint()), true
	}
	return 0, false
}

// Floats converts an array or slice of floats to []float64.
func Floats(value any) ([]float64, bool) {
	v := reflect.ValueOf(value)
	if v.Kind() != reflect.Array && v.Kind() != reflect.Slice {
		return nil, false
	}
	out := make([]float64, v.Len())
	for i := range out {
		e := v.Index(i)
		if !e.CanFloat() {
			return nil, false
		}
		out[i] = e.Float()
	}
	return out, true
}
