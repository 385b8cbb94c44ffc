package datatype

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// JSON gorm json data type
type JSON []byte

// Value implements the driver.Valuer interface
func (j *JSON) Value() (driver.Value, error) {
	if j.IsNull() {
		return nil, nil
	}
	return []byte(*j), nil
}

// Scan implements the sql.Scanner interface
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		*j = append((*j)[0:0], v...)
	case string:
		*j = append((*j)[0:0], v...)
	default:
		return errors.New("unable to convert type to JSON")
	}
	return nil
}

// MarshalJSON implements the json.Marshal interface
func (j *JSON) MarshalJSON() ([]byte, error) {
	if j.IsNull() {
		return []byte("null"), nil
	}
	return *j, nil
}

// UnmarshalJSON implements the json.Unmarshal interface
func (j *JSON) UnmarshalJSON(data []byte) error {
	if j == nil {
		return errors.New("null point exception")
	}
	*j = append((*j)[0:0], data...)
	return nil
}

// IsNull reports whether the value is empty or the JSON literal null.
func (j *JSON) IsNull() bool {
	return len(*j) == 0 || bytes.Equal(*j, []byte("null"))
}

func (j JSON) String() string {
	return string(j)
}

// StringList decodes the value as a list of strings; a null value yields nil.
func (j *JSON) StringList() ([]string, error) {
	if j.IsNull() {
		return nil, nil
	}
	var list []string
	if err := json.Unmarshal(*j, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// FromStringList encodes a list of strings as a JSON value.
func FromStringList(list []string) (JSON, error) {
	if list == nil {
		return nil, nil
	}
	b, err := json.Marshal(list)
	if err != nil {
		return nil, err
	}
	return JSON(b), nil
}
