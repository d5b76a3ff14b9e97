package service

import (
	"testing"

	"tejwal_backend/internal/quotes/transport"
)

func TestCalculateTotalsHappyPath(t *testing.T) {
	flights := []transport.FlightSegmentRequest{
		{Airline: "SV", FromAirport: "JED", ToAirport: "CAI", CostCents: 2000},
	}
	hotels := []transport.HotelStayRequest{
		{City: "Cairo", HotelName: "Nile View", CostCents: 1000},
	}
	services := []transport.ServiceLineRequest{
		{Name: "Airport transfer", Quantity: 2, UnitCostCents: 100},
	}

	got := CalculateTotals(flights, hotels, services, 100)

	if got.TotalFlightsCents != 2000 {
		t.Fatalf("expected flights total 2000, got %d", got.TotalFlightsCents)
	}
	if got.TotalHotelsCents != 1000 {
		t.Fatalf("expected hotels total 1000, got %d", got.TotalHotelsCents)
	}
	if got.TotalServicesCents != 200 {
		t.Fatalf("expected services total 200, got %d", got.TotalServicesCents)
	}
	if got.GrandTotalCents != 3300 {
		t.Fatalf("expected grand total 3300, got %d", got.GrandTotalCents)
	}
}

func TestCalculateTotalsInvariant(t *testing.T) {
	got := CalculateTotals(
		[]transport.FlightSegmentRequest{{FromAirport: "RUH", CostCents: 123}},
		[]transport.HotelStayRequest{{City: "Dubai", CostCents: 456}},
		[]transport.ServiceLineRequest{{Name: "Visa", Quantity: 3, UnitCostCents: 7}},
		-50,
	)
	sum := got.TotalFlightsCents + got.TotalHotelsCents + got.TotalServicesCents + got.MarkupCents
	if got.GrandTotalCents != sum {
		t.Fatalf("grand total %d does not equal sum of parts %d", got.GrandTotalCents, sum)
	}
}

func TestCalculateNegativeMarkupDiscount(t *testing.T) {
	got := CalculateTotals(
		[]transport.FlightSegmentRequest{{FromAirport: "JED", CostCents: 1000}},
		nil, nil, -300,
	)
	if got.GrandTotalCents != 700 {
		t.Fatalf("expected grand total 700 with negative markup, got %d", got.GrandTotalCents)
	}
}

func TestCalculateFiltersEmptyLines(t *testing.T) {
	// Lines without airports, city/hotel name, or a service name are
	// structurally empty and must not count.
	resp := Calculate(transport.CalculationRequest{
		Flights: []transport.FlightSegmentRequest{
			{Airline: "SV", CostCents: 500},
			{FromAirport: "JED", CostCents: 800},
			{ToAirport: "CAI", CostCents: 200},
			{FromAirport: "  ", ToAirport: " ", CostCents: 9000},
		},
		Hotels: []transport.HotelStayRequest{
			{RoomType: "Suite", CostCents: 400},
			{HotelName: "Hilton", CostCents: 600},
		},
		Services: []transport.ServiceLineRequest{
			{Quantity: 5, UnitCostCents: 100},
			{Name: "SIM card", Quantity: 1, UnitCostCents: 50},
		},
	})

	if resp.TotalFlightsCents != 1000 {
		t.Fatalf("expected flights total 1000 after filtering, got %d", resp.TotalFlightsCents)
	}
	if resp.TotalHotelsCents != 600 {
		t.Fatalf("expected hotels total 600 after filtering, got %d", resp.TotalHotelsCents)
	}
	if resp.TotalServicesCents != 50 {
		t.Fatalf("expected services total 50 after filtering, got %d", resp.TotalServicesCents)
	}
}

func TestServiceLineQuantityMath(t *testing.T) {
	got := CalculateTotals(nil, nil, []transport.ServiceLineRequest{
		{Name: "Travel insurance", Quantity: 4, UnitCostCents: 250},
	}, 0)
	if got.TotalServicesCents != 1000 {
		t.Fatalf("expected services total 1000, got %d", got.TotalServicesCents)
	}
}

func TestServiceLineZeroQuantityCountsAsOne(t *testing.T) {
	got := CalculateTotals(nil, nil, []transport.ServiceLineRequest{
		{Name: "City tour", Quantity: 0, UnitCostCents: 300},
	}, 0)
	if got.TotalServicesCents != 300 {
		t.Fatalf("expected services total 300 for defaulted quantity, got %d", got.TotalServicesCents)
	}
}
