package http

import "net/http"

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	data, err := s.service.Dashboard(r.Context())
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.revenueCache.Set(revenueCacheKey, data.Revenue)
	s.render(w, r, "dashboard.html", data)
}

// handleRevenueChart serves the chart partial from cache when a recent
// dashboard render already loaded the series.
func (s *Server) handleRevenueChart(w http.ResponseWriter, r *http.Request) {
	revenue, ok := s.revenueCache.Get(revenueCacheKey)
	if !ok {
		var err error
		revenue, err = s.service.Revenue(r.Context())
		if err != nil {
			s.renderError(w, r, err)
			return
		}
		s.revenueCache.Set(revenueCacheKey, revenue)
	}
	s.render(w, r, "revenue_chart.html", revenue)
}
