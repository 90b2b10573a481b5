package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/parsab/itemd/internal/adapters/http/api"
	"github.com/parsab/itemd/internal/domain/item"
	. "github.com/smartystreets/goconvey/convey"
)

// mockService implements api.Dependencies and api.StatsProvider.
type mockService struct {
	convertOut string
	convertErr error
	echoErr    error
	stats      map[string]interface{}
}

func (m *mockService) EchoItem(_ context.Context, it item.Item) (item.Item, error) {
	if m.echoErr != nil {
		return item.Item{}, m.echoErr
	}
	if err := it.Validate(); err != nil {
		return item.Item{}, err
	}
	return it, nil
}

func (m *mockService) Convert(_ context.Context, _ string, _ io.Reader) (string, error) {
	if m.convertErr != nil {
		return "", m.convertErr
	}
	return m.convertOut, nil
}

func (m *mockService) GetStats() map[string]interface{} {
	return m.stats
}

type validationBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Errors  []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
}

func newMux(svc *mockService) *http.ServeMux {
	server := api.NewServer(svc, svc, 1<<20)
	mux := http.NewServeMux()
	server.Register(context.Background(), mux)
	return mux
}

func TestServer_Register(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		svc := &mockService{stats: map[string]interface{}{"started": true}}
		mux := newMux(svc)

		Convey("Then the health endpoint should be accessible", func() {
			req := httptest.NewRequest("GET", "/healthz", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("And the stats endpoint should return JSON", func() {
			req := httptest.NewRequest("GET", "/stats", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusOK)

			var stats map[string]interface{}
			So(json.NewDecoder(w.Body).Decode(&stats), ShouldBeNil)
			So(stats["started"], ShouldEqual, true)
		})

		Convey("And the root endpoint should serve a landing page", func() {
			req := httptest.NewRequest("GET", "/", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "/items/")
		})

		Convey("And unknown paths should return 404", func() {
			req := httptest.NewRequest("GET", "/unknown", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("And GET on the items route should return 404", func() {
			req := httptest.NewRequest("GET", "/items/", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("And POST below the items route should return 404", func() {
			req := httptest.NewRequest("POST", "/items/42", strings.NewReader(`{"name":"Sample","price":1}`))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestItemsHandler_HandlePostItem(t *testing.T) {
	Convey("Given a registered items endpoint", t, func() {
		svc := &mockService{}
		mux := newMux(svc)

		post := func(body string) *httptest.ResponseRecorder {
			req := httptest.NewRequest("POST", "/items/", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			return w
		}

		Convey("When posting a fully valid item", func() {
			body := `{"name":"Sample","price":12.5,"description":"A sample","tax":1.25}`
			w := post(body)

			Convey("Then it should echo the item with 200", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldContainSubstring, "application/json")

				var got item.Item
				So(json.NewDecoder(w.Body).Decode(&got), ShouldBeNil)
				So(got.Name, ShouldEqual, "Sample")
				So(*got.Price, ShouldEqual, 12.5)
				So(*got.Description, ShouldEqual, "A sample")
				So(*got.Tax, ShouldEqual, 1.25)
			})

			Convey("And a request id header should be present", func() {
				So(w.Header().Get("X-Request-ID"), ShouldNotBeEmpty)
			})
		})

		Convey("When posting an item without optional fields", func() {
			w := post(`{"name":"Bare","price":1}`)

			Convey("Then the response should mirror exactly the sent fields", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var raw map[string]interface{}
				So(json.NewDecoder(w.Body).Decode(&raw), ShouldBeNil)
				So(raw, ShouldContainKey, "name")
				So(raw, ShouldContainKey, "price")
				So(raw, ShouldNotContainKey, "description")
				So(raw, ShouldNotContainKey, "tax")
			})
		})

		Convey("When posting an item with a zero price", func() {
			w := post(`{"name":"Freebie","price":0}`)

			Convey("Then it should echo the item with 200", func() {
				So(w.Code, ShouldEqual, http.StatusOK)

				var got item.Item
				So(json.NewDecoder(w.Body).Decode(&got), ShouldBeNil)
				So(got.Name, ShouldEqual, "Freebie")
				So(*got.Price, ShouldEqual, 0)
			})
		})

		Convey("When posting an item with a negative price", func() {
			w := post(`{"name":"Refund","price":-3}`)

			Convey("Then it should echo the item with 200", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
			})
		})

		Convey("When posting the same item twice", func() {
			body := `{"name":"Sample","price":12.5}`
			w1 := post(body)
			w2 := post(body)

			Convey("Then both responses should be identical", func() {
				So(w1.Code, ShouldEqual, http.StatusOK)
				So(w2.Code, ShouldEqual, http.StatusOK)
				So(w2.Body.String(), ShouldEqual, w1.Body.String())
			})
		})

		Convey("When the name field is missing", func() {
			w := post(`{"price":12.5}`)

			Convey("Then it should return 422 referencing name", func() {
				So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)

				var body validationBody
				So(json.NewDecoder(w.Body).Decode(&body), ShouldBeNil)
				So(body.Code, ShouldEqual, "validation_error")
				So(len(body.Errors), ShouldEqual, 1)
				So(body.Errors[0].Field, ShouldEqual, "name")
			})
		})

		Convey("When the price field is missing", func() {
			w := post(`{"name":"Unpriced"}`)

			Convey("Then it should return 422 referencing price", func() {
				So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)

				var body validationBody
				So(json.NewDecoder(w.Body).Decode(&body), ShouldBeNil)
				So(len(body.Errors), ShouldEqual, 1)
				So(body.Errors[0].Field, ShouldEqual, "price")
				So(body.Errors[0].Message, ShouldEqual, "field is required")
			})
		})

		Convey("When price is a non-numeric string", func() {
			w := post(`{"name":"Sample","price":"cheap"}`)

			Convey("Then it should return 422 referencing price", func() {
				So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)

				var body validationBody
				So(json.NewDecoder(w.Body).Decode(&body), ShouldBeNil)
				So(body.Errors[0].Field, ShouldEqual, "price")
				So(body.Errors[0].Message, ShouldContainSubstring, "invalid type")
			})
		})

		Convey("When the body is malformed JSON", func() {
			w := post(`{"name":`)

			Convey("Then it should return 422 referencing the body", func() {
				So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)

				var body validationBody
				So(json.NewDecoder(w.Body).Decode(&body), ShouldBeNil)
				So(body.Errors[0].Field, ShouldEqual, "body")
			})
		})

		Convey("When the service fails unexpectedly", func() {
			svc.echoErr = fmt.Errorf("downstream blew up")
			w := post(`{"name":"Sample","price":1}`)

			Convey("Then it should return 500", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
			})
		})
	})
}

func TestStatsHandler_Methods(t *testing.T) {
	Convey("Given a registered stats endpoint", t, func() {
		mux := newMux(&mockService{stats: map[string]interface{}{}})

		Convey("When posting to it", func() {
			req := httptest.NewRequest("POST", "/stats", strings.NewReader("{}"))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it should return 404", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}
