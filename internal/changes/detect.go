// Package changes detects which profile fields a caller actually changed.
package changes

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/ntquang22298/study-chain/internal/records"
)

// PhoneNumber is submitted together with the country it belongs to.
type PhoneNumber struct {
	Value   string `json:"value"`
	Country string `json:"country"`
}

// ProfileUpdate is what a caller submits to update their own profile.
// A nil field was not submitted and is never considered changed.
type ProfileUpdate struct {
	Fullname    *string      `json:"fullName"`
	Avatar      *string      `json:"avatar"`
	Sex         *string      `json:"sex"`
	PhoneNumber *PhoneNumber `json:"phoneNumber"`
	Email       *string      `json:"email"`
	Address     *string      `json:"address"`
	Birthday    *string      `json:"birthday"`
}

// Field names as stored on the ledger.
const (
	FieldFullname    = "Fullname"
	FieldAvatar      = "Avatar"
	FieldSex         = "Sex"
	FieldPhoneNumber = "PhoneNumber"
	FieldCountry     = "Country"
	FieldEmail       = "Email"
	FieldAddress     = "Address"
	FieldBirthday    = "Birthday"
)

// Change is a single field whose submitted value differs from the stored one.
type Change struct {
	Field string
	Old   string
	New   string
}

// Set is the outcome of Detect, ordered by field name.
type Set []Change

// Detect compares every submitted field against the stored record.
// Surrounding whitespace is not significant.
func Detect(current records.UserRecord, update ProfileUpdate) Set {
	var set Set
	add := func(field, old string, submitted *string) {
		if submitted == nil {
			return
		}
		v := strings.TrimSpace(*submitted)
		if v != strings.TrimSpace(old) {
			set = append(set, Change{Field: field, Old: old, New: v})
		}
	}

	info := current.Info
	add(FieldFullname, current.Fullname, update.Fullname)
	add(FieldAvatar, info.Avatar, update.Avatar)
	add(FieldSex, info.Sex, update.Sex)
	if p := update.PhoneNumber; p != nil {
		add(FieldPhoneNumber, info.PhoneNumber, &p.Value)
		// A number sent without its country keeps the stored one.
		if strings.TrimSpace(p.Country) != "" {
			add(FieldCountry, info.Country, &p.Country)
		}
	}
	add(FieldEmail, info.Email, update.Email)
	add(FieldAddress, info.Address, update.Address)
	add(FieldBirthday, info.Birthday, update.Birthday)

	sort.Slice(set, func(i, j int) bool { return set[i].Field < set[j].Field })
	return set
}

func (s Set) Empty() bool {
	return len(s) == 0
}

// Fields returns the names of the changed fields.
func (s Set) Fields() []string {
	out := make([]string, len(s))
	for i, c := range s {
		out[i] = c.Field
	}
	return out
}

// Payload encodes the new values keyed by ledger field name.
func (s Set) Payload() (string, error) {
	m := make(map[string]string, len(s))
	for _, c := range s {
		m[c.Field] = c.New
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
