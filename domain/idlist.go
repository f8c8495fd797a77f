package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// IDList is an ordered list of entity ids, persisted as a single JSON text
// column so the same model works on postgres and the sqlite test store.
// Insertion order is preserved and duplicates are allowed.
type IDList []int

// Contains reports whether id is present in the list.
func (l IDList) Contains(id int) bool {
	for _, v := range l {
		if v == id {
			return true
		}
	}
	return false
}

// Add appends id to the end of the list.
func (l *IDList) Add(id int) {
	*l = append(*l, id)
}

// Remove drops the first occurrence of id. Removing an absent id is a no-op.
func (l *IDList) Remove(id int) {
	for i, v := range *l {
		if v == id {
			*l = append((*l)[:i], (*l)[i+1:]...)
			return
		}
	}
}

// Value implements driver.Valuer so gorm can persist the list.
func (l IDList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]int(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner. A NULL or empty column scans as an empty list.
func (l *IDList) Scan(src interface{}) error {
	if src == nil {
		*l = IDList{}
		return nil
	}
	var b []byte
	switch v := src.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("domain: cannot scan %T into IDList", src)
	}
	if len(b) == 0 {
		*l = IDList{}
		return nil
	}
	return json.Unmarshal(b, (*[]int)(l))
}
