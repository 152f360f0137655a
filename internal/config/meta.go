package config

import (
	"reflect"
	"strings"
)

// GetSettingsExample uses reflection to generate example settings.
// Stays in sync when new fields are added to Settings.
func GetSettingsExample() map[string]any {
	t := reflect.TypeOf(Settings{})
	example := make(map[string]any)

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		jsonTag := field.Tag.Get("json")
		if jsonTag == "" {
			continue
		}

		jsonName := strings.Split(jsonTag, ",")[0]
		example[jsonName] = generateExampleValue(field.Type, jsonName)
	}

	return example
}

// generateExampleValue creates appropriate example values based on type and field name
func generateExampleValue(t reflect.Type, fieldName string) any {
	if t.Kind() == reflect.Ptr {
		switch t.Elem().Kind() {
		case reflect.Bool:
			return fieldName == "history"
		case reflect.Int:
			if fieldName == "max_log_files" {
				return 1000
			}
			if fieldName == "history_keep" {
				return 500
			}
			return 10
		}
	}

	switch t.Kind() {
	case reflect.String:
		if fieldName == "player" {
			return "afplay"
		}
		return "example"
	case reflect.Map:
		if t.Name() == "SoundMap" {
			return map[string]string{
				"session.idle":       "~/Music/alert.mp3",
				"permission.updated": "~/Music/error.mp3",
			}
		}
	case reflect.Slice:
		if fieldName == "player_args" {
			return []string{"-v", "0.5"}
		}
		return []string{"example1", "example2"}
	}

	return nil
}
