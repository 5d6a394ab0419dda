package inventory

import (
	"context"
	"fmt"
	"net/http"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"ftth-viability-be/internal/pkg/apperrors"
	"ftth-viability-be/internal/pkg/logger"
	"ftth-viability-be/pkg/geocode"
)

// Fetcher downloads and caches per-kind inventory snapshots. One source URL
// per request kind (the FTTH and FTTA flows read different documents).
// Cabinets outside the service region are dropped at load time.
type Fetcher struct {
	client  *http.Client
	sources map[string]string // kind -> source URL
	cache   *gocache.Cache
	region  geocode.Region
	log     logger.ILogger
}

func NewFetcher(sources map[string]string, ttl time.Duration, region geocode.Region, log logger.ILogger) *Fetcher {
	return &Fetcher{
		client:  &http.Client{Timeout: 15 * time.Second},
		sources: sources,
		cache:   gocache.New(ttl, 2*ttl),
		region:  region,
		log:     log,
	}
}

// Snapshot returns the cached inventory for a kind, fetching it if the
// cache is cold or expired. The returned value is shared and must be
// treated as read-only by callers.
func (f *Fetcher) Snapshot(ctx context.Context, kind string) (*Snapshot, error) {
	if cached, found := f.cache.Get(kind); found {
		return cached.(*Snapshot), nil
	}
	return f.Refresh(ctx, kind)
}

// Refresh unconditionally re-fetches the inventory for a kind and replaces
// the cached snapshot.
func (f *Fetcher) Refresh(ctx context.Context, kind string) (*Snapshot, error) {
	url, ok := f.sources[kind]
	if !ok || url == "" {
		return nil, apperrors.ErrSourceUnavailable.WithMessage("no inventory source configured for kind %q", kind)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, apperrors.ErrSourceUnavailable.WithCause(err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, apperrors.ErrSourceUnavailable.WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.ErrSourceUnavailable.WithCause(fmt.Errorf("inventory source returned %d", resp.StatusCode))
	}

	cabinets, err := Parse(resp.Body, f.log)
	if err != nil {
		return nil, apperrors.ErrSourceUnavailable.WithCause(err)
	}

	inRegion := make([]Cabinet, 0, len(cabinets))
	for _, c := range cabinets {
		if !f.region.Contains(c.Lat, c.Lon) {
			f.log.Warn("Inventory", "Dropping cabinet outside service region", map[string]interface{}{
				"id": c.ID, "lat": c.Lat, "lon": c.Lon,
			})
			continue
		}
		inRegion = append(inRegion, c)
	}

	snapshot := &Snapshot{
		Kind:     kind,
		Version:  time.Now().UTC(),
		Cabinets: inRegion,
	}
	f.cache.Set(kind, snapshot, gocache.DefaultExpiration)

	f.log.Info("Inventory", "Inventory snapshot refreshed", map[string]interface{}{
		"kind": kind, "cabinets": len(inRegion), "dropped": len(cabinets) - len(inRegion),
	})

	return snapshot, nil
}

// Kinds lists the kinds this fetcher has sources for.
func (f *Fetcher) Kinds() []string {
	kinds := make([]string, 0, len(f.sources))
	for k := range f.sources {
		kinds = append(kinds, k)
	}
	return kinds
}
