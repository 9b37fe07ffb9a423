package validation

import (
	"asset-service/internal/domain/asset"
	apperrors "asset-service/pkg/errors"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

// Mode selects which field rules apply.
type Mode int

const (
	ModeCreate Mode = iota
	ModeUpdate
)

const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldCategory    = "category"
	FieldImageKey    = "imageKey"
	FieldOwnerID     = "ownerId"

	// Bounds count characters, matching the char_length CHECK
	// constraints on the assets table.
	maxNameLen        = 255
	maxDescriptionLen = 5000
	maxImageKeyLen    = 1024
	asciiControlStart = 32
	asciiDelete       = 127

	msgNameRequired        = "name is required"
	msgCategoryRequired    = "category is required"
	msgNameEmpty           = "name cannot be empty"
	msgNameMaxLengthFmt    = "name must not exceed %d characters"
	msgNameNotString       = "name must be a string"
	msgDescriptionMaxFmt   = "description must not exceed %d characters"
	msgDescriptionNotStr   = "description must be a string"
	msgCategoryInvalid     = "category must be one of: image, document, video, other"
	msgImageKeyNotString   = "imageKey must be a string"
	msgImageKeyMaxFmt      = "imageKey must not exceed %d characters"
	msgImageKeyTraversal   = "imageKey cannot contain path traversal"
	msgImageKeyControl     = "imageKey cannot contain control characters"
	msgOwnerIDImmutable    = "ownerId cannot be modified"
	msgNoFieldsToUpdate    = "no fields to update"
	msgUnrecognizedFmt     = "unrecognized field: %s"
)

// Fields is the typed result of a validated payload. Nil pointers mean
// the field was absent; a pointer to the empty string on a nullable
// field means it should be cleared.
type Fields struct {
	Name        *string
	Description *string
	Category    *asset.Category
	ImageKey    *string
}

var recognizedFields = map[string]struct{}{
	FieldName:        {},
	FieldDescription: {},
	FieldCategory:    {},
	FieldImageKey:    {},
}

// Validate normalizes a raw payload into typed Fields, reporting only
// the first violation encountered. Evaluation order is fixed so the
// same payload always fails on the same field.
func Validate(raw map[string]json.RawMessage, mode Mode) (*Fields, error) {
	if mode == ModeUpdate {
		if _, present := raw[FieldOwnerID]; present {
			return nil, apperrors.Validation(FieldOwnerID, msgOwnerIDImmutable)
		}
	}

	if err := rejectUnrecognized(raw); err != nil {
		return nil, err
	}

	if mode == ModeCreate {
		if _, present := raw[FieldName]; !present {
			return nil, apperrors.Validation(FieldName, msgNameRequired)
		}
		if _, present := raw[FieldCategory]; !present {
			return nil, apperrors.Validation(FieldCategory, msgCategoryRequired)
		}
	} else if len(raw) == 0 {
		return nil, apperrors.Validation("", msgNoFieldsToUpdate)
	}

	fields := &Fields{}

	if msg, present := raw[FieldName]; present {
		name, err := validateName(msg)
		if err != nil {
			return nil, err
		}
		fields.Name = name
	}

	if msg, present := raw[FieldDescription]; present {
		description, err := validateDescription(msg)
		if err != nil {
			return nil, err
		}
		fields.Description = description
	}

	if msg, present := raw[FieldCategory]; present {
		category, err := validateCategory(msg)
		if err != nil {
			return nil, err
		}
		fields.Category = category
	}

	if msg, present := raw[FieldImageKey]; present {
		imageKey, err := validateImageKey(msg)
		if err != nil {
			return nil, err
		}
		fields.ImageKey = imageKey
	}

	return fields, nil
}

// Category parses a category supplied outside a JSON body, such as the
// list operation's filter query parameter.
func Category(value string) (asset.Category, error) {
	category := asset.Category(strings.TrimSpace(value))
	if !category.IsValid() {
		return "", apperrors.Validation(FieldCategory, msgCategoryInvalid)
	}
	return category, nil
}

func rejectUnrecognized(raw map[string]json.RawMessage) error {
	keys := make([]string, 0, len(raw))
	for key := range raw {
		if _, ok := recognizedFields[key]; !ok {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		return nil
	}

	sort.Strings(keys)
	return apperrors.Validation(keys[0], fmt.Sprintf(msgUnrecognizedFmt, keys[0]))
}

func validateName(msg json.RawMessage) (*string, error) {
	value, err := decodeString(msg)
	if err != nil {
		return nil, apperrors.Validation(FieldName, msgNameNotString)
	}
	if value == nil {
		return nil, apperrors.Validation(FieldName, msgNameEmpty)
	}

	name := strings.TrimSpace(*value)
	if name == "" {
		return nil, apperrors.Validation(FieldName, msgNameEmpty)
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return nil, apperrors.Validation(FieldName, fmt.Sprintf(msgNameMaxLengthFmt, maxNameLen))
	}

	return &name, nil
}

func validateDescription(msg json.RawMessage) (*string, error) {
	value, err := decodeString(msg)
	if err != nil {
		return nil, apperrors.Validation(FieldDescription, msgDescriptionNotStr)
	}
	if value == nil {
		// Explicit null clears the column.
		empty := ""
		return &empty, nil
	}
	if utf8.RuneCountInString(*value) > maxDescriptionLen {
		return nil, apperrors.Validation(FieldDescription, fmt.Sprintf(msgDescriptionMaxFmt, maxDescriptionLen))
	}

	return value, nil
}

func validateCategory(msg json.RawMessage) (*asset.Category, error) {
	value, err := decodeString(msg)
	if err != nil || value == nil {
		return nil, apperrors.Validation(FieldCategory, msgCategoryInvalid)
	}

	category := asset.Category(*value)
	if !category.IsValid() {
		return nil, apperrors.Validation(FieldCategory, msgCategoryInvalid)
	}

	return &category, nil
}

func validateImageKey(msg json.RawMessage) (*string, error) {
	value, err := decodeString(msg)
	if err != nil {
		return nil, apperrors.Validation(FieldImageKey, msgImageKeyNotString)
	}
	if value == nil {
		empty := ""
		return &empty, nil
	}

	key := strings.TrimSpace(*value)
	if key == "" {
		empty := ""
		return &empty, nil
	}
	if utf8.RuneCountInString(key) > maxImageKeyLen {
		return nil, apperrors.Validation(FieldImageKey, fmt.Sprintf(msgImageKeyMaxFmt, maxImageKeyLen))
	}
	if strings.Contains(key, "..") || strings.Contains(key, "\\") || strings.HasPrefix(key, "/") {
		return nil, apperrors.Validation(FieldImageKey, msgImageKeyTraversal)
	}
	for _, char := range key {
		if char < asciiControlStart || char == asciiDelete {
			return nil, apperrors.Validation(FieldImageKey, msgImageKeyControl)
		}
	}

	return &key, nil
}

func decodeString(msg json.RawMessage) (*string, error) {
	var value *string
	if err := json.Unmarshal(msg, &value); err != nil {
		return nil, err
	}
	return value, nil
}
