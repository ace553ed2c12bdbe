package httpserver

import (
	"fmt"
	"net/http"
	"testing"
)

func BenchmarkHandleSearchMovies(b *testing.B) {
	srv := buildTestServer(b, &fakeMovies{movies: duneResults})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rec := doGet(srv, fmt.Sprintf("/api/movies?query=bench%%20%d", i%20))
		if rec.Code != http.StatusOK {
			b.Fatalf("unexpected status %d", rec.Code)
		}
	}
}
