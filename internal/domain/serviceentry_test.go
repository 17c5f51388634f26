package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealerops/internal/domain"
)

func TestServiceEntry_UnmarshalBareString(t *testing.T) {
	var list domain.ServiceEntryList
	require.NoError(t, json.Unmarshal([]byte(`["Wash", "Detail"]`), &list))

	require.Len(t, list, 2)
	assert.Equal(t, "Wash", list[0].Token())
	assert.Equal(t, "Detail", list[1].Token())
}

func TestServiceEntry_UnmarshalObject(t *testing.T) {
	var list domain.ServiceEntryList
	require.NoError(t, json.Unmarshal([]byte(`[{"name":"Full Detail","id":"42"}]`), &list))

	require.Len(t, list, 1)
	assert.Equal(t, "Full Detail", list[0].Name)
	assert.Equal(t, "42", list[0].ID)
}

func TestServiceEntry_UnmarshalNumericID(t *testing.T) {
	var list domain.ServiceEntryList
	require.NoError(t, json.Unmarshal([]byte(`[{"id":42,"type":"detail"}]`), &list))

	require.Len(t, list, 1)
	assert.Equal(t, "42", list[0].ID)
	assert.Equal(t, "42", list[0].Token())
}

func TestServiceEntry_TokenPriority(t *testing.T) {
	assert.Equal(t, "Name", domain.ServiceEntry{Name: "Name", ID: "7", Type: "t", Raw: "r"}.Token())
	assert.Equal(t, "7", domain.ServiceEntry{ID: "7", Type: "t", Raw: "r"}.Token())
	assert.Equal(t, "t", domain.ServiceEntry{Type: "t", Raw: "r"}.Token())
	assert.Equal(t, "r", domain.ServiceEntry{Raw: "r"}.Token())
	assert.Equal(t, "", domain.ServiceEntry{}.Token())
}

func TestServiceEntry_ResolveName(t *testing.T) {
	catalog := map[string]string{"42": "Full Detail"}

	assert.Equal(t, "Wash", domain.ServiceEntry{Name: "Wash", ID: "42"}.ResolveName(catalog))
	assert.Equal(t, "Full Detail", domain.ServiceEntry{ID: "42"}.ResolveName(catalog))
	// unknown id falls through to the token
	assert.Equal(t, "99", domain.ServiceEntry{ID: "99"}.ResolveName(catalog))
	assert.Equal(t, "r", domain.ServiceEntry{Raw: "r"}.ResolveName(catalog))
	assert.Equal(t, domain.UnknownServiceName, domain.ServiceEntry{}.ResolveName(catalog))
}

func TestServiceEntryList_Scan(t *testing.T) {
	var list domain.ServiceEntryList
	require.NoError(t, list.Scan([]byte(`["Wash",{"id":7}]`)))
	require.Len(t, list, 2)
	assert.Equal(t, "Wash", list[0].Raw)
	assert.Equal(t, "7", list[1].ID)

	var empty domain.ServiceEntryList
	require.NoError(t, empty.Scan(nil))
	assert.Nil(t, empty)
}

func TestServiceEntryList_Value(t *testing.T) {
	v, err := domain.ServiceEntryList(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("[]"), v)
}

func TestOrder_VehicleSummary(t *testing.T) {
	o := domain.Order{
		CustomerName: "Jordan Blake",
		VIN:          "1HGCM82633A004352",
		OrderType:    domain.OrderTypeService,
	}
	assert.Equal(t, "Jordan Blake - VIN 1HGCM82633A004352 - service", o.VehicleSummary())

	// stock number stands in when the VIN is missing
	o2 := domain.Order{CustomerName: "Acme Fleet", StockNumber: "S123", OrderType: domain.OrderTypeRecon}
	assert.Equal(t, "Acme Fleet - Stock S123 - recon", o2.VehicleSummary())

	o3 := domain.Order{OrderType: domain.OrderTypeCarwash}
	assert.Equal(t, "carwash", o3.VehicleSummary())
}
