package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/okian/vitalis/internal/adapters/http/api"
	service "github.com/okian/vitalis/internal/app"
	"github.com/okian/vitalis/internal/domain/types"
	"github.com/okian/vitalis/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.InitWithOptions(logger.WithWriter(io.Discard)); err != nil {
		panic(err)
	}
}

type apiClient struct {
	mux *http.ServeMux
}

func (c apiClient) do(method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader = http.NoBody
	if body != nil {
		if raw, ok := body.(string); ok {
			reader = bytes.NewBufferString(raw)
		} else {
			b, err := json.Marshal(body)
			So(err, ShouldBeNil)
			reader = bytes.NewReader(b)
		}
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	c.mux.ServeHTTP(w, req)
	return w
}

func decode[T any](w *httptest.ResponseRecorder) T {
	var v T
	So(json.Unmarshal(w.Body.Bytes(), &v), ShouldBeNil)
	return v
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func newClient() (apiClient, func()) {
	ctx := context.Background()
	svc := service.New(service.WithWorkerCount(2), service.WithMaxSessions(3))
	So(svc.Start(ctx), ShouldBeNil)

	mux := http.NewServeMux()
	api.NewServer(svc, svc).Register(ctx, mux)
	return apiClient{mux: mux}, func() { _ = svc.Stop(ctx) }
}

func (c apiClient) startSession(user string) types.Session {
	w := c.do(http.MethodPost, "/sessions", map[string]string{"user_id": user})
	So(w.Code, ShouldEqual, http.StatusCreated)
	return decode[types.Session](w)
}

func (c apiClient) complete(id, option string) {
	for qid := 1; qid <= 10; qid++ {
		w := c.do(http.MethodPost, "/sessions/"+id+"/answers", map[string]any{"question_id": qid, "option_id": option})
		So(w.Code, ShouldEqual, http.StatusOK)
		w = c.do(http.MethodPost, "/sessions/"+id+"/advance", nil)
		So(w.Code, ShouldEqual, http.StatusOK)
	}
}

func TestCatalogAndStats(t *testing.T) {
	Convey("Given the API", t, func() {
		c, stop := newClient()
		Reset(stop)

		Convey("When the catalog is requested", func() {
			w := c.do(http.MethodGet, "/catalog", nil)

			Convey("Then it lists every question with option values", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				cat := decode[types.Catalog](w)
				So(len(cat.Questions), ShouldEqual, 10)
				So(cat.MaxScore, ShouldEqual, 50)
				So(cat.Questions[7].Options, ShouldHaveLength, 3)
			})
		})

		Convey("When stats are requested", func() {
			c.startSession("alice")
			w := c.do(http.MethodGet, "/stats", nil)

			Convey("Then the service counters are reported", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				stats := decode[map[string]any](w)
				So(stats["started"], ShouldEqual, true)
				So(stats["active_sessions"], ShouldEqual, 1.0)
			})
		})

		Convey("When metrics are scraped", func() {
			c.do(http.MethodGet, "/catalog", nil)
			w := c.do(http.MethodGet, "/healthz", nil)

			Convey("Then Prometheus text is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "vitalis_assessment_http_requests_total")
			})
		})

		Convey("When a route is called with the wrong method", func() {
			w := c.do(http.MethodDelete, "/catalog", nil)
			So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
		})
	})
}

func TestSessionFlow(t *testing.T) {
	Convey("Given a session created over HTTP", t, func() {
		c, stop := newClient()
		Reset(stop)

		w := c.do(http.MethodPost, "/sessions", map[string]string{"user_id": "alice"})
		So(w.Code, ShouldEqual, http.StatusCreated)
		view := decode[types.Session](w)
		id := view.SessionID
		So(w.Header().Get("Location"), ShouldEqual, "/sessions/"+id)

		Convey("Then it can be fetched", func() {
			w := c.do(http.MethodGet, "/sessions/"+id, nil)
			So(w.Code, ShouldEqual, http.StatusOK)
			got := decode[types.Session](w)
			So(got.Question.ID, ShouldEqual, 1)
			So(got.Status, ShouldEqual, "in_progress")
		})

		Convey("When advancing without an answer", func() {
			w := c.do(http.MethodPost, "/sessions/"+id+"/advance", nil)

			Convey("Then it is rejected with 422", func() {
				So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
				So(decode[apiError](w).Code, ShouldEqual, "answer_required")
			})
		})

		Convey("When answering and re-answering", func() {
			c.do(http.MethodPost, "/sessions/"+id+"/answers", map[string]any{"question_id": 1, "option_id": "c"})
			w := c.do(http.MethodPost, "/sessions/"+id+"/answers", map[string]any{"question_id": 1, "option_id": "a"})

			Convey("Then the delta and score reflect the replacement", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				got := decode[types.Session](w)
				So(*got.Delta, ShouldEqual, 2)
				So(got.Score, ShouldEqual, 5)
			})
		})

		Convey("When answering an unknown question or option", func() {
			wq := c.do(http.MethodPost, "/sessions/"+id+"/answers", map[string]any{"question_id": 42, "option_id": "a"})
			wo := c.do(http.MethodPost, "/sessions/"+id+"/answers", map[string]any{"question_id": 1, "option_id": "x"})

			Convey("Then both are bad requests", func() {
				So(wq.Code, ShouldEqual, http.StatusBadRequest)
				So(decode[apiError](wq).Code, ShouldEqual, "unknown_question")
				So(wo.Code, ShouldEqual, http.StatusBadRequest)
				So(decode[apiError](wo).Code, ShouldEqual, "unknown_option")
			})
		})

		Convey("When the body is malformed", func() {
			w := c.do(http.MethodPost, "/sessions/"+id+"/answers", "{not json")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decode[apiError](w).Code, ShouldEqual, "bad_request")
		})

		Convey("When retreating from the first question", func() {
			w := c.do(http.MethodPost, "/sessions/"+id+"/retreat", nil)

			Convey("Then the session stays put", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(decode[types.Session](w).Index, ShouldEqual, 0)
			})
		})

		Convey("When the result is requested too early", func() {
			w := c.do(http.MethodGet, "/sessions/"+id+"/result", nil)
			So(w.Code, ShouldEqual, http.StatusConflict)
			So(decode[apiError](w).Code, ShouldEqual, "not_completed")
		})

		Convey("When every question is answered", func() {
			c.complete(id, "a")

			Convey("Then the JSON result is available", func() {
				w := c.do(http.MethodGet, "/sessions/"+id+"/result", nil)
				So(w.Code, ShouldEqual, http.StatusOK)
				res := decode[types.Result](w)
				So(res.Percentage, ShouldEqual, 100)
				So(res.Category, ShouldEqual, "excellent")
			})

			Convey("Then the text report downloads as an attachment", func() {
				w := c.do(http.MethodGet, "/sessions/"+id+"/result?format=text", nil)
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldStartWith, "text/plain")
				So(w.Header().Get("Content-Disposition"), ShouldStartWith, "attachment;")
				So(w.Body.String(), ShouldContainSubstring, "50 / 50 (100%)")
			})

			Convey("Then an unknown format is rejected", func() {
				w := c.do(http.MethodGet, "/sessions/"+id+"/result?format=pdf", nil)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})

			Convey("Then further answers conflict", func() {
				w := c.do(http.MethodPost, "/sessions/"+id+"/answers", map[string]any{"question_id": 1, "option_id": "d"})
				So(w.Code, ShouldEqual, http.StatusConflict)
				So(decode[apiError](w).Code, ShouldEqual, "completed")
			})

			Convey("Then reset reopens the session", func() {
				w := c.do(http.MethodPost, "/sessions/"+id+"/reset", nil)
				So(w.Code, ShouldEqual, http.StatusOK)
				got := decode[types.Session](w)
				So(got.Status, ShouldEqual, "in_progress")
				So(got.Score, ShouldEqual, 0)
			})
		})
	})
}

func TestSessionErrors(t *testing.T) {
	Convey("Given the API", t, func() {
		c, stop := newClient()
		Reset(stop)

		Convey("When an unknown session is used", func() {
			w := c.do(http.MethodGet, "/sessions/nope", nil)
			So(w.Code, ShouldEqual, http.StatusNotFound)
			So(decode[apiError](w).Code, ShouldEqual, "not_found")
		})

		Convey("When a session is created without a user", func() {
			w := c.do(http.MethodPost, "/sessions", map[string]string{"user_id": "  "})
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When more sessions than allowed are created", func() {
			for i := 0; i < 3; i++ {
				c.startSession(fmt.Sprintf("user-%d", i))
			}
			w := c.do(http.MethodPost, "/sessions", map[string]string{"user_id": "late"})

			Convey("Then the service reports it is at capacity", func() {
				So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
				So(decode[apiError](w).Code, ShouldEqual, "capacity")
			})
		})
	})
}

func TestHistory(t *testing.T) {
	Convey("Given a user with a completed assessment", t, func() {
		c, stop := newClient()
		Reset(stop)

		s := c.startSession("dana")
		c.complete(s.SessionID, "c")

		Convey("When the history is listed", func() {
			var history struct {
				UserID  string         `json:"user_id"`
				Results []types.Result `json:"results"`
			}
			// results reach the store asynchronously
			for i := 0; i < 200 && len(history.Results) == 0; i++ {
				w := c.do(http.MethodGet, "/users/dana/results?limit=5", nil)
				So(w.Code, ShouldEqual, http.StatusOK)
				history = decode[struct {
					UserID  string         `json:"user_id"`
					Results []types.Result `json:"results"`
				}](w)
				time.Sleep(5 * time.Millisecond)
			}

			Convey("Then the completed result is listed", func() {
				So(history.UserID, ShouldEqual, "dana")
				So(len(history.Results), ShouldEqual, 1)
				So(history.Results[0].Category, ShouldEqual, "high_risk")
			})
		})

		Convey("When the limit is invalid", func() {
			w := c.do(http.MethodGet, "/users/dana/results?limit=abc", nil)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

type failingDeps struct {
	api.Dependencies
}

func (failingDeps) Session(context.Context, string) (types.Session, error) {
	return types.Session{}, errors.New("boom")
}

func TestInternalErrors(t *testing.T) {
	Convey("Given dependencies that fail unexpectedly", t, func() {
		mux := http.NewServeMux()
		deps := failingDeps{}
		api.NewServer(deps, statsStub{}).Register(context.Background(), mux)

		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sessions/x", http.NoBody))

		Convey("Then a 500 with the error envelope is returned", func() {
			So(w.Code, ShouldEqual, http.StatusInternalServerError)
			var e apiError
			So(json.Unmarshal(w.Body.Bytes(), &e), ShouldBeNil)
			So(e.Code, ShouldEqual, "internal_error")
			So(e.Message, ShouldContainSubstring, "api.get_session")
		})
	})
}

type statsStub struct{}

func (statsStub) GetStats(context.Context) map[string]any { return map[string]any{} }

func TestErrorWrapping(t *testing.T) {
	Convey("Given wrapped API errors", t, func() {
		cause := errors.New("cause")
		kinded := api.WrapKind("op", api.ErrBadRequest, cause)

		Convey("Then both kind and cause match", func() {
			So(errors.Is(kinded, api.ErrBadRequest), ShouldBeTrue)
			So(errors.Is(kinded, cause), ShouldBeTrue)
			So(kinded.Error(), ShouldEqual, "op: bad request: cause")

			var apiErr *api.Error
			So(errors.As(kinded, &apiErr), ShouldBeTrue)
			So(apiErr.Op, ShouldEqual, "op")
		})

		Convey("Then Wrap keeps nil as nil", func() {
			So(api.Wrap("op", nil), ShouldBeNil)
			So(api.NewKind("op", api.ErrUnsupported).Error(), ShouldEqual, "op: unsupported format")
		})
	})
}
