package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"wachat/internal/constants"
	"wachat/internal/models"

	"github.com/sirupsen/logrus"
)

// ContactServiceInterface defines the interface for contact name enrichment
type ContactServiceInterface interface {
	GetEnrichedName(ctx context.Context, phoneNumber string) string
	RefreshContacts(ctx context.Context) error
	NormalizePhone(phoneNumber string) string
}

// EnrichmentSource fetches the external phone-to-name directory.
type EnrichmentSource interface {
	FetchContacts(ctx context.Context) (map[string]string, error)
}

// HTTPEnrichmentSource pulls the directory from an HTTP endpoint that
// answers with a flat JSON object of normalized phone number to name.
type HTTPEnrichmentSource struct {
	url    string
	client *http.Client
}

func NewHTTPEnrichmentSource(url string, timeout time.Duration) *HTTPEnrichmentSource {
	return &HTTPEnrichmentSource{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (s *HTTPEnrichmentSource) FetchContacts(ctx context.Context) (map[string]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contacts: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("enrichment source returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var contacts map[string]string
	if err := json.Unmarshal(body, &contacts); err != nil {
		return nil, fmt.Errorf("failed to parse contacts: %w", err)
	}

	return contacts, nil
}

// ContactService caches the enrichment directory in-process and maps
// chat phone numbers to names. The cache is refreshed synchronously on
// the request that finds it stale; a failed refresh keeps serving the
// previous snapshot.
type ContactService struct {
	source             EnrichmentSource
	refreshTTL         time.Duration
	defaultCountryCode string
	logger             *logrus.Logger

	mu          sync.RWMutex
	contacts    map[string]string
	refreshedAt time.Time
}

// NewContactService creates a contact service backed by the given
// enrichment source. A nil source disables enrichment entirely.
func NewContactService(source EnrichmentSource, cfg models.EnrichmentConfig, logger *logrus.Logger) *ContactService {
	ttl := cfg.RefreshTTLMinutes
	if ttl <= 0 {
		ttl = constants.DefaultEnrichmentTTLMinutes
	}
	countryCode := cfg.DefaultCountryCode
	if countryCode == "" {
		countryCode = constants.DefaultEnrichmentCountryCode
	}
	if logger == nil {
		logger = logrus.New()
	}

	return &ContactService{
		source:             source,
		refreshTTL:         time.Duration(ttl) * time.Minute,
		defaultCountryCode: countryCode,
		logger:             logger,
		contacts:           map[string]string{},
	}
}

// GetEnrichedName returns the directory name for a phone number, or
// empty when the number is unknown or enrichment is disabled.
func (cs *ContactService) GetEnrichedName(ctx context.Context, phoneNumber string) string {
	if cs.source == nil || phoneNumber == "" {
		return ""
	}

	cs.mu.RLock()
	stale := time.Since(cs.refreshedAt) >= cs.refreshTTL
	cs.mu.RUnlock()

	if stale {
		if err := cs.RefreshContacts(ctx); err != nil {
			cs.logger.WithError(err).Warn("Contact enrichment refresh failed, serving stale data")
		}
	}

	normalized := cs.NormalizePhone(phoneNumber)

	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.contacts[normalized]
}

// RefreshContacts fetches a fresh directory snapshot and swaps it in.
// On failure the previous snapshot stays untouched.
func (cs *ContactService) RefreshContacts(ctx context.Context) error {
	if cs.source == nil {
		return nil
	}

	contacts, err := cs.source.FetchContacts(ctx)
	if err != nil {
		return fmt.Errorf("failed to refresh contacts: %w", err)
	}

	cs.mu.Lock()
	cs.contacts = contacts
	cs.refreshedAt = time.Now()
	cs.mu.Unlock()

	cs.logger.WithField("contacts", len(contacts)).Debug("Refreshed contact directory")
	return nil
}

// NormalizePhone reduces a phone number to the directory's canonical
// form: digits only, international prefix stripped, and short local
// numbers widened with the default country code.
func (cs *ContactService) NormalizePhone(phoneNumber string) string {
	cleaned := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", "+", "").Replace(phoneNumber)

	if strings.HasPrefix(cleaned, "00") {
		cleaned = cleaned[2:]
	}

	// Local subscriber numbers arrive without a country code.
	if len(cleaned) == 8 && cleaned[0] >= '2' && cleaned[0] <= '9' {
		cleaned = cs.defaultCountryCode + cleaned
	}

	return cleaned
}

// ResolveDisplayName picks the name shown for a chat, most trusted
// source first. The literal sender name "API" is a provider artifact
// and never shown.
func ResolveDisplayName(chat *models.Chat, enrichedName string) string {
	if chat == nil {
		return "Unknown"
	}
	if chat.Label != "" {
		return chat.Label
	}
	if enrichedName != "" {
		return enrichedName
	}
	if chat.SenderName != "" && chat.SenderName != "API" {
		return chat.SenderName
	}
	if chat.SenderMobile != "" {
		return chat.SenderMobile
	}
	return "Unknown"
}
