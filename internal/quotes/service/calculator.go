package service

import (
	"strings"

	"tejwal_backend/internal/quotes/transport"
)

// The pricing engine works on integer cents with no rounding. Lines that are
// structurally empty are excluded from both totals and persistence.

func includableFlight(f transport.FlightSegmentRequest) bool {
	return strings.TrimSpace(f.FromAirport) != "" || strings.TrimSpace(f.ToAirport) != ""
}

func includableHotel(h transport.HotelStayRequest) bool {
	return strings.TrimSpace(h.City) != "" || strings.TrimSpace(h.HotelName) != ""
}

func includableService(s transport.ServiceLineRequest) bool {
	return strings.TrimSpace(s.Name) != ""
}

func filterFlights(in []transport.FlightSegmentRequest) []transport.FlightSegmentRequest {
	out := make([]transport.FlightSegmentRequest, 0, len(in))
	for _, f := range in {
		if includableFlight(f) {
			out = append(out, f)
		}
	}
	return out
}

func filterHotels(in []transport.HotelStayRequest) []transport.HotelStayRequest {
	out := make([]transport.HotelStayRequest, 0, len(in))
	for _, h := range in {
		if includableHotel(h) {
			out = append(out, h)
		}
	}
	return out
}

func filterServices(in []transport.ServiceLineRequest) []transport.ServiceLineRequest {
	out := make([]transport.ServiceLineRequest, 0, len(in))
	for _, s := range in {
		if includableService(s) {
			out = append(out, s)
		}
	}
	return out
}

func serviceLineTotal(s transport.ServiceLineRequest) int64 {
	qty := s.Quantity
	if qty < 1 {
		qty = 1
	}
	return int64(qty) * s.UnitCostCents
}

// CalculateTotals derives the quote totals from already-filtered line sets.
// The grand total is always subtotals plus markup; markup may be negative.
func CalculateTotals(flights []transport.FlightSegmentRequest, hotels []transport.HotelStayRequest, services []transport.ServiceLineRequest, markupCents int64) transport.CalculationResponse {
	var totalFlights, totalHotels, totalServices int64
	for _, f := range flights {
		totalFlights += f.CostCents
	}
	for _, h := range hotels {
		totalHotels += h.CostCents
	}
	for _, s := range services {
		totalServices += serviceLineTotal(s)
	}
	return transport.CalculationResponse{
		TotalFlightsCents:  totalFlights,
		TotalHotelsCents:   totalHotels,
		TotalServicesCents: totalServices,
		MarkupCents:        markupCents,
		GrandTotalCents:    totalFlights + totalHotels + totalServices + markupCents,
	}
}

// Calculate filters the submitted lines and derives totals. This is the
// preview path; create and update run the same functions before persisting.
func Calculate(req transport.CalculationRequest) transport.CalculationResponse {
	return CalculateTotals(
		filterFlights(req.Flights),
		filterHotels(req.Hotels),
		filterServices(req.Services),
		req.MarkupCents,
	)
}
