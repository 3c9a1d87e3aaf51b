package routes

import (
	"net/http"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommendationsRouteCarriesProductID(t *testing.T) {
	router := mux.NewRouter()
	RegisterRoutes(router, Controllers{}, nil)

	req, err := http.NewRequest(http.MethodGet, "/api/products/p1/recommendations", nil)
	require.NoError(t, err)

	var match mux.RouteMatch
	require.True(t, router.Match(req, &match), "recommendations route must resolve")
	assert.Equal(t, "p1", match.Vars["id"])
}
