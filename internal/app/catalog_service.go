package app

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"eneagramas-site/internal/domain"
)

// StationDetail is a station with its wings, arrows and triad peers resolved.
type StationDetail struct {
	domain.Station
	WingStations   []domain.Station `json:"wingStations"`
	Integration    domain.Station   `json:"integration"`
	Disintegration domain.Station   `json:"disintegration"`
	TriadPeers     []domain.Station `json:"triadPeers"`
}

// EventListing splits the featured event from the rest.
type EventListing struct {
	Featured *domain.Event `json:"featured,omitempty"`
	Others   []domain.Event `json:"others"`
}

// CatalogService serves the read-only parts of the site.
type CatalogService struct {
	datasets  DatasetRepository
	datasetID string
	notifier  ContactNotifier
	logger    *zap.Logger
}

func NewCatalogService(datasets DatasetRepository, datasetID string, notifier ContactNotifier, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifier == nil {
		notifier = NewLogNotifier(logger)
	}
	return &CatalogService{datasets: datasets, datasetID: datasetID, notifier: notifier, logger: logger}
}

// Dataset returns the whole content set, e.g. for page rendering.
func (c *CatalogService) Dataset(ctx context.Context) (domain.Dataset, error) {
	return c.datasets.GetDataset(ctx, c.datasetID)
}

func (c *CatalogService) Stations(ctx context.Context) ([]domain.Station, error) {
	ds, err := c.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	return ds.Stations, nil
}

func (c *CatalogService) Station(ctx context.Context, slug string) (StationDetail, error) {
	ds, err := c.Dataset(ctx)
	if err != nil {
		return StationDetail{}, err
	}
	st, ok := ds.StationBySlug(slug)
	if !ok {
		return StationDetail{}, fmt.Errorf("%w: %s", domain.ErrStationNotFound, slug)
	}
	detail := StationDetail{Station: st, WingStations: ds.WingsOf(st)}
	detail.Integration, detail.Disintegration = ds.ArrowsOf(st)
	for _, peer := range ds.StationsByTriad(st.Triad) {
		if peer.ID != st.ID {
			detail.TriadPeers = append(detail.TriadPeers, peer)
		}
	}
	return detail, nil
}

// SearchResources filters resources by text and kind.
func (c *CatalogService) SearchResources(ctx context.Context, query string, kind domain.ResourceKind) ([]domain.Resource, error) {
	ds, err := c.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	return FilterResources(ds.Resources, query, kind), nil
}

// FilterResources keeps resources whose title or description contains query,
// case-insensitively, and whose kind matches when kind is set.
func FilterResources(resources []domain.Resource, query string, kind domain.ResourceKind) []domain.Resource {
	q := strings.ToLower(query)
	out := make([]domain.Resource, 0, len(resources))
	for _, r := range resources {
		matchText := strings.Contains(strings.ToLower(r.Title), q) ||
			strings.Contains(strings.ToLower(r.Description), q)
		matchKind := kind == "" || r.Kind == kind
		if matchText && matchKind {
			out = append(out, r)
		}
	}
	return out
}

func (c *CatalogService) Events(ctx context.Context) (EventListing, error) {
	ds, err := c.Dataset(ctx)
	if err != nil {
		return EventListing{}, err
	}
	return SplitEvents(ds.Events), nil
}

// SplitEvents picks the first featured event. Others holds the non-featured
// events only, so a second featured event is not listed.
func SplitEvents(events []domain.Event) EventListing {
	listing := EventListing{Others: make([]domain.Event, 0, len(events))}
	for i := range events {
		if listing.Featured == nil && events[i].Featured {
			ev := events[i]
			listing.Featured = &ev
			continue
		}
		if events[i].Featured {
			continue
		}
		listing.Others = append(listing.Others, events[i])
	}
	return listing
}

func (c *CatalogService) Testimonials(ctx context.Context) ([]domain.Testimonial, error) {
	ds, err := c.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	return ds.Testimonials, nil
}

// Subscribe takes a newsletter address from the footer.
func (c *CatalogService) Subscribe(ctx context.Context, email string) error {
	if !domain.ValidContact(email) {
		return domain.ErrInvalidContact
	}
	if err := c.notifier.Notify(ctx, domain.Contact{Email: email, Source: "newsletter"}); err != nil {
		c.logger.Warn("newsletter notification failed", zap.Error(err))
	}
	return nil
}
