package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"budget-reconciler/internal/notes"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const priceAdvisorPage = `<html><body>
<div id="PriceAdvisor"><svg>
<text>Fair</text><text>$14,200</text><text>Good</text><text>$15,431</text><text>Excellent</text>
</svg></div>
</body></html>`

func TestParseKBBPrice(t *testing.T) {
	tests := []struct {
		name    string
		page    string
		want    int64
		wantErr bool
	}{
		{name: "price advisor", page: priceAdvisorPage, want: 15431},
		{name: "embedded value", page: `<script>window.__data={"price":{"value": 8750}}</script>`, want: 8750},
		{name: "short advisor falls back", page: `<div id="PriceAdvisor"><text>$1</text></div><script>{"value":4200}</script>`, want: 4200},
		{name: "nothing to parse", page: `<html>blocked</html>`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseKBBPrice(tt.page)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKBB_CarRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/usedcar/privateparty/sell", r.URL.Path)
		assert.Equal(t, "12345", q.Get("vehicleid"))
		assert.Equal(t, "key", q.Get("apikey"))
		assert.Equal(t, "46237", q.Get("zipcode"))
		assert.Equal(t, "good", q.Get("condition"))
		assert.Equal(t, "40050", q.Get("mileage"))
		assert.Equal(t, "1,2", q.Get("optionids"))
		assert.Equal(t, "html", q.Get("format"))
		assert.Equal(t, "5/10/2024", q.Get("requesteddataversiondate"))
		assert.Contains(t, r.Header.Get("User-Agent"), "Mozilla/5.0")
		assert.Equal(t, "https://www.google.com/", r.Header.Get("Referer"))
		fmt.Fprint(w, priceAdvisorPage)
	}))
	defer srv.Close()

	k := NewKBB(KBBConfig{
		CarURL: srv.URL + "/usedcar/privateparty/sell",
		APIKey: "key",
		Now:    func() time.Time { return time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC) },
	})
	price, err := k.Price(context.Background(), notes.VehicleConfig{
		Kind: notes.VehicleCar, VehicleID: "12345", Zipcode: "46237", Condition: "good",
		Mileage: 40050, HasMileage: true, Options: "1,2",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(15431), price)
}

func TestKBB_MotorcycleRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/motorcycles/honda/rebel-500/2021/", r.URL.Path)
		assert.Equal(t, "trade-in", r.URL.Query().Get("pricetype"))
		assert.Empty(t, r.URL.Query().Get("apikey"))
		fmt.Fprint(w, `{"value": 5100}`)
	}))
	defer srv.Close()

	k := NewKBB(KBBConfig{MotorcycleURL: srv.URL + "/motorcycles"})
	price, err := k.Price(context.Background(), notes.VehicleConfig{
		Kind: notes.VehicleMotorcycle, Make: "honda", Model: "rebel-500", Year: "2021", PriceType: "trade-in",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5100), price)
}

func TestKBB_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "denied", http.StatusForbidden)
	}))
	defer srv.Close()
	ctx := context.Background()

	_, err := NewKBB(KBBConfig{}).Price(ctx, notes.VehicleConfig{Kind: notes.VehicleCar, VehicleID: "1"})
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	_, err = NewKBB(KBBConfig{}).Price(ctx, notes.VehicleConfig{Kind: "boat"})
	assert.ErrorContains(t, err, "unknown KBB type")

	_, err = NewKBB(KBBConfig{CarURL: srv.URL, APIKey: "k"}).Price(ctx, notes.VehicleConfig{Kind: notes.VehicleCar, VehicleID: "1"})
	var serr *StatusError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, http.StatusForbidden, serr.Code)
}
