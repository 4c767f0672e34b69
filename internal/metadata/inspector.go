package metadata

import (
	"reflect"
	"strings"
	"time"
	"unicode"

	"bizdesk/internal/core/id"
	"bizdesk/internal/core/types"
)

var (
	idType       = reflect.TypeOf(id.ID{})
	timeType     = reflect.TypeOf(time.Time{})
	moneyType    = reflect.TypeOf(types.Money{})
	quantityType = reflect.TypeOf(types.Quantity(0))
)

// Inspect analyzes a struct and returns its EntityDef.
func Inspect(entity any, name string, entityType EntityType) EntityDef {
	t := reflect.TypeOf(entity)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if name == "" {
		name = lowerFirst(t.Name())
	}

	def := EntityDef{
		Name:   name,
		Label:  guessLabel(t.Name()),
		Type:   entityType,
		Fields: make([]FieldDef, 0),
	}

	inspectStruct(t, &def)

	return def
}

func inspectStruct(t reflect.Type, def *EntityDef) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		// Embedded bases are flattened.
		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			inspectStruct(field.Type, def)
			continue
		}

		if field.PkgPath != "" { // unexported
			continue
		}

		if field.Type.Kind() == reflect.Slice && field.Type.Elem().Kind() == reflect.Struct {
			def.TableParts = append(def.TableParts, TablePartDef{
				Name:    jsonName(field),
				Label:   guessLabel(field.Name),
				Columns: inspectColumns(field.Type.Elem()),
			})
			continue
		}

		fDef, ok := fieldDef(field)
		if !ok {
			continue
		}
		fDef.ReadOnly = isReadOnly(field)
		def.Fields = append(def.Fields, fDef)
	}
}

func inspectColumns(t reflect.Type) []FieldDef {
	cols := make([]FieldDef, 0)
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.PkgPath != "" {
			continue
		}
		if fDef, ok := fieldDef(field); ok {
			cols = append(cols, fDef)
		}
	}
	return cols
}

func fieldDef(field reflect.StructField) (FieldDef, bool) {
	name := jsonName(field)
	if name == "-" {
		return FieldDef{}, false
	}
	fDef := FieldDef{
		Name:  name,
		Label: guessLabel(field.Name),
	}
	mapFieldType(&fDef, field)
	return fDef, true
}

func mapFieldType(def *FieldDef, field reflect.StructField) {
	t := field.Type
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	switch t {
	case idType:
		def.Type = TypeReference
		// "FromWarehouseID" -> "warehouse"; plain "ID" is the record itself.
		if base := strings.TrimSuffix(field.Name, "ID"); base != field.Name && base != "" {
			def.ReferenceType = strings.ToLower(lastWord(base))
		}
		return
	case timeType:
		def.Type = TypeDate
		return
	case moneyType:
		def.Type = TypeMoney
		def.Scale = 2
		return
	case quantityType:
		def.Type = TypeNumber
		def.Scale = 4
		return
	}

	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		def.Type = TypeInteger
	case reflect.Float32, reflect.Float64:
		def.Type = TypeNumber
		def.Scale = 2
	case reflect.Bool:
		def.Type = TypeBoolean
	default:
		def.Type = TypeString
	}
}

func jsonName(field reflect.StructField) string {
	if tag, ok := field.Tag.Lookup("json"); ok {
		if name, _, _ := strings.Cut(tag, ","); name != "" {
			return name
		}
	}
	return lowerFirst(field.Name)
}

func isReadOnly(field reflect.StructField) bool {
	switch field.Name {
	case "ID", "Version", "CreatedAt", "UpdatedAt":
		return true
	}
	return false
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

func lastWord(s string) string {
	runes := []rune(s)
	for i := len(runes) - 1; i > 0; i-- {
		if unicode.IsUpper(runes[i]) {
			return string(runes[i:])
		}
	}
	return s
}

// guessLabel splits CamelCase: "OpeningBalance" -> "Opening balance".
func guessLabel(name string) string {
	runes := []rune(name)
	var b strings.Builder
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prevLower := unicode.IsLower(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if prevLower || (nextLower && unicode.IsUpper(runes[i-1])) {
				b.WriteRune(' ')
				if nextLower {
					r = unicode.ToLower(r)
				}
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}
