package changes

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ntquang22298/study-chain/internal/records"
)

func stored() records.UserRecord {
	return records.UserRecord{
		Username: "hoangdd",
		Fullname: "Trinh Van Tan",
		Info: records.UserInfo{
			Sex:         "Male",
			PhoneNumber: "+84 973241005",
			Email:       "abc@gmail.com",
			Address:     "KG",
			Birthday:    "ABC",
			Country:     "VN",
		},
	}
}

func decode(t *testing.T, body string) ProfileUpdate {
	t.Helper()
	var u ProfileUpdate
	require.NoError(t, json.Unmarshal([]byte(body), &u))
	return u
}

func TestSameValuesAreNoChange(t *testing.T) {
	u := decode(t, `{
		"fullName": "Trinh Van Tan",
		"phoneNumber": {"value": "+84 973241005", "country": "VN"},
		"email": "abc@gmail.com",
		"address": "KG",
		"sex": "Male",
		"birthday": "ABC"
	}`)
	assert.True(t, Detect(stored(), u).Empty())
}

func TestAbsentFieldsAreIgnored(t *testing.T) {
	assert.True(t, Detect(stored(), ProfileUpdate{}).Empty())

	u := decode(t, `{"email": " abc@gmail.com "}`)
	assert.True(t, Detect(stored(), u).Empty())
}

func TestDetectChangedFields(t *testing.T) {
	u := decode(t, `{
		"fullName": "Trinh Van Tan",
		"phoneNumber": {"value": "123456789", "country": "VN"},
		"email": "bcd@gmail.com",
		"avatar": "https://example.com/a.png"
	}`)
	set := Detect(stored(), u)
	require.False(t, set.Empty())
	assert.Equal(t, []string{FieldAvatar, FieldEmail, FieldPhoneNumber}, set.Fields())

	payload, err := set.Payload()
	require.NoError(t, err)
	assert.JSONEq(t, `{"Avatar":"https://example.com/a.png","Email":"bcd@gmail.com","PhoneNumber":"123456789"}`, payload)
}

func TestEmptyStringIsAChangeWhenStoredIsNot(t *testing.T) {
	u := decode(t, `{"address": ""}`)
	set := Detect(stored(), u)
	require.Len(t, set, 1)
	assert.Equal(t, Change{Field: FieldAddress, Old: "KG", New: ""}, set[0])
}

func TestPhoneNumberWithoutCountryKeepsStoredCountry(t *testing.T) {
	u := decode(t, `{"phoneNumber": {"value": "0973241005"}}`)
	set := Detect(stored(), u)
	require.Len(t, set, 1)
	assert.Equal(t, FieldPhoneNumber, set[0].Field)

	payload, err := set.Payload()
	require.NoError(t, err)
	assert.JSONEq(t, `{"PhoneNumber": "0973241005"}`, payload)

	u = decode(t, `{"phoneNumber": {"value": "+84 973241005", "country": " "}}`)
	assert.True(t, Detect(stored(), u).Empty())
}
