package loader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"macrowatch/models"
)

func TestRemoteFetchParsesPanel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(validCSV))
	}))
	defer srv.Close()

	panel, err := NewRemote(RemoteOptions{}).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Len(t, panel, 3)
}

func TestRemoteFetchGivesUpOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	rl := NewRemote(RemoteOptions{MaxRetryTimeout: 100 * time.Millisecond})
	_, err := rl.Fetch(context.Background(), srv.URL)
	var loadErr *models.LoadError
	require.ErrorAs(t, err, &loadErr)
}
