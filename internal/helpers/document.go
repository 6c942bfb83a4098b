package helpers

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
)

// FlattenDocument flattens a document only one level deep, for building
// partial $set updates.
//
//	{config: {label: "yes", thing: {field1: "ok"}}}
//	-> {"config.label": "yes", "config.thing": {field1: "ok"}}
func FlattenDocument(doc map[string]any) map[string]any {
	target := make(map[string]any, len(doc))

	for outerField, value := range doc {
		inner, ok := asDocument(value)
		if !ok {
			target[outerField] = value
			continue
		}

		for innerField, innerValue := range inner {
			target[fmt.Sprintf("%s.%s", outerField, innerField)] = innerValue
		}
	}

	return target
}

func asDocument(value any) (map[string]any, bool) {
	switch v := value.(type) {
	case map[string]any:
		return v, true
	case bson.M:
		return v, true
	case bson.D:
		inner := make(map[string]any, len(v))
		for _, element := range v {
			inner[element.Key] = element.Value
		}
		return inner, true
	default:
		return nil, false
	}
}
