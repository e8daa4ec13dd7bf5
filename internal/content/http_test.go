package content

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/galactic-brain/internal/galaxy"
	"github.com/robalobadob/galactic-brain/internal/mission"
)

const missionJSON = `{"topic":"Mars","fact":"Mars has the tallest volcano.","questions":[{"question":"Which planet is red?","options":["Earth","Mars","Jupiter","Venus"],"correctAnswerIndex":1,"explanation":"Rust!"}]}`

func newTestProvider(url string) *HTTPProvider {
	return NewHTTPProvider(HTTPConfig{
		URL:     url,
		APIKey:  "sk-test",
		Retries: 3,
		BackOff: backoff.NewConstantBackOff(time.Millisecond),
	})
}

func TestHTTPProvider_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Contains(t, body["instructions"], "exactly 3")
		assert.Contains(t, body["instructions"], "SPACE")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"output": []any{map[string]any{"content": []any{map[string]any{"type": "output_text", "text": missionJSON}}}},
		})
	}))
	defer srv.Close()

	b, err := newTestProvider(srv.URL).FetchQuestions(context.Background(), galaxy.Space, mission.Easy, 3)
	require.NoError(t, err)
	assert.Equal(t, "Mars", b.Topic)
	require.Len(t, b.Questions, 1)
	assert.Equal(t, 1, b.Questions[0].CorrectAnswerIndex)
}

func TestHTTPProvider_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"output_text": missionJSON})
	}))
	defer srv.Close()

	b, err := newTestProvider(srv.URL).FetchQuestions(context.Background(), galaxy.Space, mission.Easy, 3)
	require.NoError(t, err)
	assert.Len(t, b.Questions, 1)
	assert.Equal(t, int32(3), calls.Load())
}

func TestHTTPProvider_GivesUp(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestProvider(srv.URL).FetchQuestions(context.Background(), galaxy.Art, mission.Hard, 5)
	assert.ErrorIs(t, err, ErrProvider)
	assert.Equal(t, int32(3), calls.Load())
}

func TestHTTPProvider_PermanentFailures(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"bad request": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusBadRequest)
		},
		"not json": func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]string{"output_text": "once upon a time"})
		},
		"empty": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		},
	}
	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				h(w, r)
			}))
			defer srv.Close()

			_, err := newTestProvider(srv.URL).FetchQuestions(context.Background(), galaxy.Ocean, mission.Medium, 4)
			assert.ErrorIs(t, err, ErrProvider)
			assert.Equal(t, int32(1), calls.Load())
		})
	}
}

func TestHTTPProvider_MissingKey(t *testing.T) {
	p := NewHTTPProvider(HTTPConfig{URL: "http://127.0.0.1:1"})
	_, err := p.FetchQuestions(context.Background(), galaxy.Ocean, mission.Easy, 3)
	assert.ErrorIs(t, err, ErrProvider)
	assert.ErrorIs(t, err, errMissingKey)
}
