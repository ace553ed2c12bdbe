package tmdb

import (
	"encoding/json"
	"errors"
	"testing"
)

func FuzzConvertResponse(f *testing.F) {
	f.Add([]byte(`{"page":1,"results":[{"id":1,"title":"Dune","poster_path":"/d.jpg"}]}`))
	f.Add([]byte(`{"response":"False","error":"Movie not found!"}`))
	f.Add([]byte(`{"response":false}`))
	f.Add([]byte(`{"success":false,"status_message":"Invalid API key"}`))
	f.Add([]byte(`{"results":null}`))

	f.Fuzz(func(t *testing.T, raw []byte) {
		var payload apiResponse
		if err := json.Unmarshal(raw, &payload); err != nil {
			return
		}
		movies, err := payload.convert(searchPath)
		if err != nil {
			var soft *ProviderSoftError
			if !errors.As(err, &soft) {
				t.Fatalf("convert returned non-soft error %T", err)
			}
			if soft.Message == "" {
				t.Fatalf("soft error message should never be empty")
			}
			if movies != nil {
				t.Fatalf("soft failure should carry no movies")
			}
			return
		}
		if movies == nil {
			t.Fatalf("success should yield a non-nil (possibly empty) list")
		}
	})
}
