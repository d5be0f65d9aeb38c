package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Translation stores a localizable text field as a JSONB column with one
// entry per supported language.
type Translation struct {
	En string `json:"en"`
	Ar string `json:"ar"`
}

// Value implements the driver.Valuer interface
func (t Translation) Value() (driver.Value, error) {
	jsonData, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil // Return as string for JSONB type
}

// Scan implements the sql.Scanner interface
func (t *Translation) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("failed to unmarshal Translation: unsupported type %T", value)
	}

	return json.Unmarshal(data, t)
}

// GormDBDataType picks the column type per database driver so the same model
// works on postgres and on the sqlite databases used in tests.
func (Translation) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	switch db.Dialector.Name() {
	case "postgres":
		return "JSONB"
	case "mysql":
		return "JSON"
	case "sqlite":
		return "JSON"
	}
	return "TEXT"
}

// In returns the text for the requested language, falling back to English.
func (t Translation) In(lang string) string {
	if lang == "ar" && t.Ar != "" {
		return t.Ar
	}
	return t.En
}

// IsEmpty reports whether no language carries any text.
func (t Translation) IsEmpty() bool {
	return t.En == "" && t.Ar == ""
}
