package models

import (
	"database/sql/driver"
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// TagList is a list of free-text tags stored as a JSON column.
type TagList []string

// Value implements the driver.Valuer interface.
func (t TagList) Value() (driver.Value, error) {
	if t == nil {
		t = TagList{}
	}
	return json.Marshal(t)
}

// Scan implements the sql.Scanner interface. Delegates raw byte/string
// normalization to datatypes.JSON so all dialects scan the same way.
func (t *TagList) Scan(value interface{}) error {
	var raw datatypes.JSON
	if err := raw.Scan(value); err != nil {
		return err
	}
	if len(raw) == 0 {
		*t = nil
		return nil
	}
	return json.Unmarshal(raw, (*[]string)(t))
}

// MarshalJSON renders a nil list as [] so API clients never see null tags.
func (t TagList) MarshalJSON() ([]byte, error) {
	if t == nil {
		t = TagList{}
	}
	return json.Marshal([]string(t))
}

// GormDBDataType ensures the correct data type is used for each database driver.
// This resolves the issue where MSSQL does not support the 'json' data type.
func (TagList) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	switch db.Dialector.Name() {
	case "mysql":
		return "JSON"
	case "postgres":
		return "JSONB"
	case "sqlserver", "mssql":
		return "NVARCHAR(MAX)"
	case "sqlite":
		return "JSON"
	}
	return "TEXT"
}
