package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// QuotationStatus represents the lifecycle state of a quotation
type QuotationStatus int

const (
	QuotationStatusDraft    QuotationStatus = 0
	QuotationStatusSent     QuotationStatus = 1
	QuotationStatusAccepted QuotationStatus = 2
	QuotationStatusRejected QuotationStatus = 3
	QuotationStatusExpired  QuotationStatus = 4
)

var quotationStatusNames = [...]string{"draft", "sent", "accepted", "rejected", "expired"}

func (s QuotationStatus) String() string {
	if !s.IsValid() {
		return "unknown"
	}
	return quotationStatusNames[s]
}

// IsValid reports whether s is one of the declared statuses
func (s QuotationStatus) IsValid() bool {
	return s >= QuotationStatusDraft && int(s) < len(quotationStatusNames)
}

// IsOpen reports whether the quotation can still be edited or change status
func (s QuotationStatus) IsOpen() bool {
	return s == QuotationStatusDraft || s == QuotationStatusSent
}

// CanTransitionTo reports whether an explicit status update from s to next is allowed.
// Draft and sent quotations may move to any other status; the rest are terminal.
func (s QuotationStatus) CanTransitionTo(next QuotationStatus) bool {
	if !next.IsValid() {
		return false
	}
	if s == next {
		return true
	}
	return s.IsOpen()
}

// ParseQuotationStatus parses a case-insensitive status name
func ParseQuotationStatus(str string) (QuotationStatus, error) {
	name := strings.ToLower(strings.TrimSpace(str))
	for i, n := range quotationStatusNames {
		if n == name {
			return QuotationStatus(i), nil
		}
	}
	return 0, fmt.Errorf("unknown quotation status %q", str)
}

func (s QuotationStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *QuotationStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		if !QuotationStatus(i).IsValid() {
			return fmt.Errorf("unknown quotation status %d", i)
		}
		*s = QuotationStatus(i)
		return nil
	}
	parsed, err := ParseQuotationStatus(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s QuotationStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *QuotationStatus) Scan(value interface{}) error {
	if value == nil {
		*s = QuotationStatusDraft
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = QuotationStatus(v)
	case int:
		*s = QuotationStatus(v)
	default:
		return fmt.Errorf("cannot scan %T into QuotationStatus", value)
	}
	return nil
}
