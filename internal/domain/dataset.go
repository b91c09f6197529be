package domain

import (
	"fmt"
	"strings"
)

// Validate checks that every station reference in the dataset resolves and
// that identifiers are unique. It is meant to run once, when a dataset is loaded.
func (d Dataset) Validate() error {
	if len(d.Stations) == 0 {
		return fmt.Errorf("%w: no stations", ErrDataIntegrity)
	}
	ids := make(map[int]struct{}, len(d.Stations))
	slugs := make(map[string]struct{}, len(d.Stations))
	for _, s := range d.Stations {
		if s.ID <= 0 {
			return fmt.Errorf("%w: station %q has non-positive id %d", ErrDataIntegrity, s.Name, s.ID)
		}
		if _, dup := ids[s.ID]; dup {
			return fmt.Errorf("%w: duplicate station id %d", ErrDataIntegrity, s.ID)
		}
		ids[s.ID] = struct{}{}
		if s.Slug == "" {
			return fmt.Errorf("%w: station %d has empty slug", ErrDataIntegrity, s.ID)
		}
		if _, dup := slugs[s.Slug]; dup {
			return fmt.Errorf("%w: duplicate station slug %q", ErrDataIntegrity, s.Slug)
		}
		slugs[s.Slug] = struct{}{}
	}

	known := func(id int) bool {
		_, ok := ids[id]
		return ok
	}
	for _, s := range d.Stations {
		for _, ref := range []int{s.Wings.Left, s.Wings.Right, s.Arrows.Integration, s.Arrows.Disintegration} {
			if !known(ref) {
				return fmt.Errorf("%w: station %d references unknown station %d", ErrDataIntegrity, s.ID, ref)
			}
		}
	}
	for _, q := range d.Questions {
		if len(q.Options) == 0 {
			return fmt.Errorf("%w: question %d has no options", ErrDataIntegrity, q.ID)
		}
		for i, opt := range q.Options {
			if len(opt.Stations) == 0 {
				return fmt.Errorf("%w: question %d option %d maps to no station", ErrDataIntegrity, q.ID, i)
			}
			for _, id := range opt.Stations {
				if !known(id) {
					return fmt.Errorf("%w: question %d option %d references unknown station %d", ErrDataIntegrity, q.ID, i, id)
				}
			}
		}
	}
	for _, r := range d.Resources {
		if !known(r.Station) {
			return fmt.Errorf("%w: resource %d references unknown station %d", ErrDataIntegrity, r.ID, r.Station)
		}
	}
	for _, e := range d.Events {
		if !known(e.Station) {
			return fmt.Errorf("%w: event %d references unknown station %d", ErrDataIntegrity, e.ID, e.Station)
		}
	}
	for _, g := range d.Groups {
		if !known(g.ID) {
			return fmt.Errorf("%w: group %q references unknown station %d", ErrDataIntegrity, g.Name, g.ID)
		}
	}
	return nil
}

// StationByID returns the station with the given id.
func (d Dataset) StationByID(id int) (Station, bool) {
	for _, s := range d.Stations {
		if s.ID == id {
			return s, true
		}
	}
	return Station{}, false
}

// StationBySlug returns the station with the given slug.
func (d Dataset) StationBySlug(slug string) (Station, bool) {
	for _, s := range d.Stations {
		if s.Slug == slug {
			return s, true
		}
	}
	return Station{}, false
}

// WingsOf resolves the left and right wings of s.
func (d Dataset) WingsOf(s Station) []Station {
	out := make([]Station, 0, 2)
	for _, id := range []int{s.Wings.Left, s.Wings.Right} {
		if w, ok := d.StationByID(id); ok {
			out = append(out, w)
		}
	}
	return out
}

// ArrowsOf resolves the integration and disintegration stations of s.
func (d Dataset) ArrowsOf(s Station) (integration, disintegration Station) {
	integration, _ = d.StationByID(s.Arrows.Integration)
	disintegration, _ = d.StationByID(s.Arrows.Disintegration)
	return integration, disintegration
}

// StationsByTriad filters stations in dataset order.
func (d Dataset) StationsByTriad(t Triad) []Station {
	var out []Station
	for _, s := range d.Stations {
		if s.Triad == t {
			out = append(out, s)
		}
	}
	return out
}

// ValidContact is the only address check the site performs: the value must
// contain "@". Anything stricter is out of scope.
func ValidContact(email string) bool {
	return strings.Contains(email, "@")
}
