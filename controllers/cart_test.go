package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateCartRejectsBothOwnerReferences(t *testing.T) {
	cc := NewCartController(nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/cart?user_id=u1&session_id=s1", nil)
	rec := httptest.NewRecorder()

	cc.CreateCart(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
