package hotels

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tripwiseai/go-trip-planner/internal/types"
)

// MockHotelService is a mock implementation of the HotelService interface
type MockHotelService struct {
	mock.Mock
}

func (m *MockHotelService) SearchHotels(ctx context.Context, req types.SearchHotelsRequest) *types.SearchHotelsResponse {
	args := m.Called(ctx, req)
	return args.Get(0).(*types.SearchHotelsResponse)
}

func performHotelSearch(t *testing.T, svc HotelService, body string) *httptest.ResponseRecorder {
	t.Helper()
	handler := NewHotelsHandler(svc, slog.Default())
	req := httptest.NewRequest(http.MethodPost, "/hotels/search", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler.SearchHotels(rr, req)
	return rr
}

func TestSearchHotelsHandlerSuccess(t *testing.T) {
	svc := new(MockHotelService)
	svc.On("SearchHotels", mock.Anything, mock.MatchedBy(func(req types.SearchHotelsRequest) bool {
		return req.City == "Boston" && req.MinRating == 4.0
	})).Return(&types.SearchHotelsResponse{
		Hotels: []types.HotelCandidate{{Name: "Harbor Inn", City: "Boston"}},
		Count:  1,
	})

	rr := performHotelSearch(t, svc, `{"city":"Boston","rating":4.0}`)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp types.SearchHotelsResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
	assert.Empty(t, resp.Error)
}

func TestSearchHotelsHandlerMissingCity(t *testing.T) {
	svc := new(MockHotelService)

	rr := performHotelSearch(t, svc, `{"rating":4.0}`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	svc.AssertNotCalled(t, "SearchHotels")
}

func TestSearchHotelsHandlerServiceErrorMapsToBadGateway(t *testing.T) {
	svc := new(MockHotelService)
	svc.On("SearchHotels", mock.Anything, mock.Anything).Return(&types.SearchHotelsResponse{
		Hotels: []types.HotelCandidate{},
		Error:  "embedding backend unavailable",
	})

	rr := performHotelSearch(t, svc, `{"city":"Boston"}`)

	require.Equal(t, http.StatusBadGateway, rr.Code)
	var resp types.SearchHotelsResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "embedding backend unavailable", resp.Error)
	assert.NotNil(t, resp.Hotels)
}
