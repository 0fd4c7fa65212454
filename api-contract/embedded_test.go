package apicontract_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apicontract "github.com/tuanvumaihuynh/stockdesk/api-contract"
)

func TestLoad(t *testing.T) {
	doc, err := apicontract.Load()
	require.NoError(t, err)

	assert.Equal(t, "Stockdesk API", doc.Info.Title)
	assert.NotNil(t, doc.Paths.Find("/api/v1/orders/{id}/status"))
	assert.NotNil(t, doc.Components.Schemas["ErrorResponse"])
}
