package counter

import "github.com/verte-zerg/shomar/internal/model"

// Registry is the ordered table of statistics the engine evaluates. It is
// not safe for concurrent use; all mutation happens on the owning loop.
type Registry struct {
	order []string
	stats map[string]*model.Statistic
}

// NewRegistry builds a registry preserving the order of stats. A repeated id
// replaces the earlier entry in place.
func NewRegistry(stats []model.Statistic) *Registry {
	r := &Registry{stats: make(map[string]*model.Statistic, len(stats))}
	for _, s := range stats {
		r.put(s)
	}
	return r
}

// Len returns the number of statistics.
func (r *Registry) Len() int {
	return len(r.order)
}

// IDs returns the statistic ids in evaluation order.
func (r *Registry) IDs() []string {
	return append([]string(nil), r.order...)
}

// Get returns a copy of the statistic with the given id.
func (r *Registry) Get(id string) (model.Statistic, bool) {
	s, ok := r.stats[id]
	if !ok {
		return model.Statistic{}, false
	}
	return *s, true
}

// Override replaces the averages of a statistic, adding it when unknown.
// The current count is kept until the next evaluation.
func (r *Registry) Override(id string, rates model.Rates) {
	s, ok := r.stats[id]
	if !ok {
		r.put(model.Statistic{ID: id, Daily: rates.Daily, Monthly: rates.Monthly, Yearly: rates.Yearly})
		return
	}
	s.Daily = rates.Daily
	s.Monthly = rates.Monthly
	s.Yearly = rates.Yearly
}

// Each calls fn for every statistic in order with a pointer into the table.
func (r *Registry) Each(fn func(s *model.Statistic)) {
	for _, id := range r.order {
		fn(r.stats[id])
	}
}

// Snapshot returns copies of all statistics in order.
func (r *Registry) Snapshot() []model.Statistic {
	out := make([]model.Statistic, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.stats[id])
	}
	return out
}

func (r *Registry) put(s model.Statistic) {
	if existing, ok := r.stats[s.ID]; ok {
		*existing = s
		return
	}
	copied := s
	r.stats[s.ID] = &copied
	r.order = append(r.order, s.ID)
}
