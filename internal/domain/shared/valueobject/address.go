package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Address is a shipping or billing address stored as a JSON column.
type Address struct {
	FullName   string `json:"fullName"`
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	Country    string `json:"country"`
	PostalCode string `json:"postalCode,omitempty"`
	Phone      string `json:"phone,omitempty"`
}

// NewAddress trims the input and checks the required fields
func NewAddress(a Address) (Address, error) {
	a.FullName = strings.TrimSpace(a.FullName)
	a.Street = strings.TrimSpace(a.Street)
	a.City = strings.TrimSpace(a.City)
	a.State = strings.TrimSpace(a.State)
	a.Country = strings.TrimSpace(a.Country)
	a.PostalCode = strings.TrimSpace(a.PostalCode)
	a.Phone = strings.TrimSpace(a.Phone)

	if err := a.Validate(); err != nil {
		return Address{}, err
	}
	return a, nil
}

// Validate checks that fullName, street, city and country are present
func (a Address) Validate() error {
	var missing []string
	if a.FullName == "" {
		missing = append(missing, "fullName")
	}
	if a.Street == "" {
		missing = append(missing, "street")
	}
	if a.City == "" {
		missing = append(missing, "city")
	}
	if a.Country == "" {
		missing = append(missing, "country")
	}
	if len(missing) > 0 {
		return fmt.Errorf("address is missing %s", strings.Join(missing, ", "))
	}
	return nil
}

// IsEmpty returns true if no field is set
func (a Address) IsEmpty() bool {
	return a == Address{}
}

// String renders the address on one line
func (a Address) String() string {
	parts := make([]string, 0, 6)
	for _, p := range []string{a.FullName, a.Street, a.City, a.State, a.PostalCode, a.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// Value implements driver.Valuer, storing the address as JSON
func (a Address) Value() (driver.Value, error) {
	if a.IsEmpty() {
		return nil, nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (a *Address) Scan(value any) error {
	if value == nil {
		*a = Address{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("cannot scan %T into Address", value)
	}
	if len(data) == 0 || string(data) == "null" {
		*a = Address{}
		return nil
	}
	return json.Unmarshal(data, a)
}

// ContactInfo identifies a guest buyer who checked out without an account
type ContactInfo struct {
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}

// ErrInvalidContact is returned when a guest contact is incomplete
var ErrInvalidContact = errors.New("contact requires fullName and email")

// Validate checks the required contact fields
func (c ContactInfo) Validate() error {
	if strings.TrimSpace(c.FullName) == "" || !strings.Contains(c.Email, "@") {
		return ErrInvalidContact
	}
	return nil
}

// IsEmpty returns true if no field is set
func (c ContactInfo) IsEmpty() bool {
	return c == ContactInfo{}
}

// Value implements driver.Valuer
func (c ContactInfo) Value() (driver.Value, error) {
	if c.IsEmpty() {
		return nil, nil
	}
	b, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (c *ContactInfo) Scan(value any) error {
	if value == nil {
		*c = ContactInfo{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("cannot scan %T into ContactInfo", value)
	}
	if len(data) == 0 || string(data) == "null" {
		*c = ContactInfo{}
		return nil
	}
	return json.Unmarshal(data, c)
}
