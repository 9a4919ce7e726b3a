package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"wachat/internal/models"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEnrichmentSource struct {
	contacts map[string]string
	err      error
	calls    int
}

func (f *fakeEnrichmentSource) FetchContacts(ctx context.Context) (map[string]string, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.contacts, nil
}

func newTestContactService(source EnrichmentSource) *ContactService {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewContactService(source, models.EnrichmentConfig{
		RefreshTTLMinutes:  10,
		DefaultCountryCode: "968",
	}, logger)
}

func TestGetEnrichedName(t *testing.T) {
	source := &fakeEnrichmentSource{contacts: map[string]string{"96891111111": "Ahmed"}}
	cs := newTestContactService(source)

	name := cs.GetEnrichedName(context.Background(), "+968 9111-1111")
	assert.Equal(t, "Ahmed", name)
	assert.Equal(t, 1, source.calls)

	// Fresh cache serves without another fetch.
	name = cs.GetEnrichedName(context.Background(), "96891111111")
	assert.Equal(t, "Ahmed", name)
	assert.Equal(t, 1, source.calls)
}

func TestGetEnrichedNameUnknownNumber(t *testing.T) {
	source := &fakeEnrichmentSource{contacts: map[string]string{}}
	cs := newTestContactService(source)

	assert.Empty(t, cs.GetEnrichedName(context.Background(), "96899999999"))
}

func TestGetEnrichedNameDisabled(t *testing.T) {
	cs := newTestContactService(nil)
	assert.Empty(t, cs.GetEnrichedName(context.Background(), "96891111111"))
}

func TestRefreshFailureKeepsStaleData(t *testing.T) {
	source := &fakeEnrichmentSource{contacts: map[string]string{"96891111111": "Ahmed"}}
	cs := newTestContactService(source)

	require.NoError(t, cs.RefreshContacts(context.Background()))

	// Force staleness and make the next fetch fail.
	cs.mu.Lock()
	cs.refreshedAt = time.Now().Add(-time.Hour)
	cs.mu.Unlock()
	source.err = fmt.Errorf("directory unavailable")

	name := cs.GetEnrichedName(context.Background(), "96891111111")
	assert.Equal(t, "Ahmed", name)
}

func TestNormalizePhone(t *testing.T) {
	cs := newTestContactService(nil)

	tests := []struct {
		input    string
		expected string
	}{
		{"+968 9111-1111", "96891111111"},
		{"(968) 91111111", "96891111111"},
		{"0096891111111", "96891111111"},
		{"91111111", "96891111111"},
		{"12345678", "12345678"},
		{"96891111111", "96891111111"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, cs.NormalizePhone(tt.input))
		})
	}
}

func TestHTTPEnrichmentSource(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"96891111111":"Ahmed","96892222222":"Fatma"}`)
	}))
	defer server.Close()

	source := NewHTTPEnrichmentSource(server.URL, 5*time.Second)
	contacts, err := source.FetchContacts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Ahmed", contacts["96891111111"])
	assert.Equal(t, "Fatma", contacts["96892222222"])
}

func TestHTTPEnrichmentSourceErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	source := NewHTTPEnrichmentSource(server.URL, 5*time.Second)
	_, err := source.FetchContacts(context.Background())
	assert.Error(t, err)
}

func TestResolveDisplayName(t *testing.T) {
	tests := []struct {
		name     string
		chat     *models.Chat
		enriched string
		expected string
	}{
		{
			name:     "label wins over everything",
			chat:     &models.Chat{Label: "VIP Customer", SenderName: "Ahmed", SenderMobile: "96891111111"},
			enriched: "Directory Name",
			expected: "VIP Customer",
		},
		{
			name:     "enriched beats sender name",
			chat:     &models.Chat{SenderName: "Ahmed", SenderMobile: "96891111111"},
			enriched: "Directory Name",
			expected: "Directory Name",
		},
		{
			name:     "sender name",
			chat:     &models.Chat{SenderName: "Ahmed", SenderMobile: "96891111111"},
			expected: "Ahmed",
		},
		{
			name:     "API sender name is skipped",
			chat:     &models.Chat{SenderName: "API", SenderMobile: "96891111111"},
			expected: "96891111111",
		},
		{
			name:     "mobile fallback",
			chat:     &models.Chat{SenderMobile: "96891111111"},
			expected: "96891111111",
		},
		{
			name:     "unknown",
			chat:     &models.Chat{},
			expected: "Unknown",
		},
		{
			name:     "nil chat",
			expected: "Unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResolveDisplayName(tt.chat, tt.enriched))
		})
	}
}
