package model

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClassify_MapsLabels(t *testing.T) {
	cases := []struct {
		raw  string
		want Label
	}{
		{"distraction", LabelDistraction},
		{"Distraction", LabelDistraction},
		{"1", LabelDistraction},
		{"task", LabelTask},
		{"Task", LabelTask},
		{"0", LabelTask},
	}
	for _, c := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]string{"label": c.raw})
		}))

		got, err := NewHTTP(srv.URL).Classify(context.Background(), Features{Website: "x.com", Title: "x"})
		srv.Close()

		if err != nil {
			t.Errorf("label %q: Classify() error = %v", c.raw, err)
			continue
		}
		if got != c.want {
			t.Errorf("label %q: Classify() = %q, want %q", c.raw, got, c.want)
		}
	}
}

func TestClassify_SendsFeatures(t *testing.T) {
	var got Features
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]string{"label": "task"})
	}))
	defer srv.Close()

	f := Features{Website: "docs.python.org", Title: "Tutorial"}
	if _, err := NewHTTP(srv.URL).Classify(context.Background(), f); err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if got != f {
		t.Errorf("server received %+v, want %+v", got, f)
	}
}

func TestClassify_FailuresWrapErrUnavailable(t *testing.T) {
	t.Run("empty url", func(t *testing.T) {
		_, err := NewHTTP("").Classify(context.Background(), Features{})
		if !errors.Is(err, ErrUnavailable) {
			t.Errorf("error = %v, want ErrUnavailable", err)
		}
	})

	t.Run("non-200 status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		_, err := NewHTTP(srv.URL).Classify(context.Background(), Features{})
		if !errors.Is(err, ErrUnavailable) {
			t.Errorf("error = %v, want ErrUnavailable", err)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		}))
		defer srv.Close()

		_, err := NewHTTP(srv.URL).Classify(context.Background(), Features{})
		if !errors.Is(err, ErrUnavailable) {
			t.Errorf("error = %v, want ErrUnavailable", err)
		}
	})

	t.Run("unexpected label", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]string{"label": "maybe"})
		}))
		defer srv.Close()

		_, err := NewHTTP(srv.URL).Classify(context.Background(), Features{})
		if !errors.Is(err, ErrUnavailable) {
			t.Errorf("error = %v, want ErrUnavailable", err)
		}
	})

	t.Run("connection refused", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		_, err := NewHTTP(srv.URL).Classify(context.Background(), Features{})
		if !errors.Is(err, ErrUnavailable) {
			t.Errorf("error = %v, want ErrUnavailable", err)
		}
	})
}
