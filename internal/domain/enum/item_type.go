package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// ItemType distinguishes physical products from services in the catalog
type ItemType int

const (
	ItemTypeProduct ItemType = 0
	ItemTypeService ItemType = 1
)

func (t ItemType) String() string {
	names := [...]string{"product", "service"}
	if int(t) < 0 || int(t) >= len(names) {
		return "product"
	}
	return names[t]
}

// IsValid reports whether t is a known item type
func (t ItemType) IsValid() bool {
	return t == ItemTypeProduct || t == ItemTypeService
}

// ParseItemType parses a case-insensitive item type name
func ParseItemType(str string) (ItemType, error) {
	switch strings.ToLower(strings.TrimSpace(str)) {
	case "product":
		return ItemTypeProduct, nil
	case "service":
		return ItemTypeService, nil
	}
	return ItemTypeProduct, fmt.Errorf("unknown item type %q", str)
}

func (t ItemType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *ItemType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*t = ItemType(i)
		return nil
	}
	switch str {
	case "product", "Product":
		*t = ItemTypeProduct
	case "service", "Service":
		*t = ItemTypeService
	default:
		*t = ItemType(-1)
	}
	return nil
}

func (t ItemType) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *ItemType) Scan(value interface{}) error {
	if value == nil {
		*t = ItemTypeProduct
		return nil
	}
	switch v := value.(type) {
	case int64:
		*t = ItemType(v)
	case int:
		*t = ItemType(v)
	}
	return nil
}
