package analytics

import (
	"errors"
	"testing"
	"time"

	"medipoint/database"
)

func TestDayRange(t *testing.T) {
	start, end, err := dayRange("2025-10-30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantStart := time.Date(2025, 10, 30, 0, 0, 0, 0, time.UTC)
	if !start.Equal(wantStart) {
		t.Errorf("expected start %v, got %v", wantStart, start)
	}
	if !end.Equal(wantStart.Add(24 * time.Hour)) {
		t.Errorf("expected end one day after start, got %v", end)
	}
}

func TestDayRangeInvalid(t *testing.T) {
	for _, bad := range []string{"", "2025/10/30", "30-10-2025", "not-a-date"} {
		_, _, err := dayRange(bad)
		if !errors.Is(err, database.ErrInvalidDate) {
			t.Errorf("dayRange(%q): expected ErrInvalidDate, got %v", bad, err)
		}
	}
}

func TestDaysLeft(t *testing.T) {
	if got := daysLeft(8, 0); got != nil {
		t.Errorf("expected nil days_left when sales_7d is zero, got %v", *got)
	}

	got := daysLeft(8, 14) // daily 2 -> 4.0 days
	if got == nil || *got != 4.0 {
		t.Errorf("expected 4.0, got %v", got)
	}

	got = daysLeft(5, 21) // daily 3 -> 1.6666 -> 1.7
	if got == nil || *got != 1.7 {
		t.Errorf("expected 1.7, got %v", got)
	}
}

func TestComputeSpikesScenario(t *testing.T) {
	// B2: 7 units over the prior 7 days (avg 1/day), 3 today -> ratio 3.0, included.
	// C3: 0 units in the prior window, 5 today -> excluded.
	trailing := []skuQty{
		{SKUID: "B2", Name: "退燒藥水", Category: "OTC", Qty: 7},
	}
	today := []skuQty{
		{SKUID: "B2", Name: "退燒藥水", Category: "OTC", Qty: 3},
		{SKUID: "C3", Name: "益生菌", Category: "保健", Qty: 5},
	}

	spikes := computeSpikes(trailing, today, 2.0, 20)
	if len(spikes) != 1 {
		t.Fatalf("expected 1 spike, got %d", len(spikes))
	}
	if spikes[0].SKUID != "B2" {
		t.Errorf("expected B2, got %s", spikes[0].SKUID)
	}
	if spikes[0].Ratio != 3.0 {
		t.Errorf("expected ratio 3.0, got %v", spikes[0].Ratio)
	}
	if spikes[0].Avg7dDaily != 1.0 {
		t.Errorf("expected avg 1.0, got %v", spikes[0].Avg7dDaily)
	}
}

func TestComputeSpikesBelowRatioExcluded(t *testing.T) {
	trailing := []skuQty{{SKUID: "A1", Qty: 14}} // avg 2/day
	today := []skuQty{{SKUID: "A1", Qty: 3}}     // ratio 1.5 < 2.0

	if spikes := computeSpikes(trailing, today, 2.0, 20); len(spikes) != 0 {
		t.Errorf("expected no spikes, got %v", spikes)
	}
}

func TestComputeSpikesOrderingAndLimit(t *testing.T) {
	trailing := []skuQty{
		{SKUID: "A1", Qty: 7},
		{SKUID: "B2", Qty: 7},
		{SKUID: "C3", Qty: 7},
	}
	today := []skuQty{
		{SKUID: "C3", Qty: 4},
		{SKUID: "A1", Qty: 6},
		{SKUID: "B2", Qty: 4},
	}

	spikes := computeSpikes(trailing, today, 2.0, 2)
	if len(spikes) != 2 {
		t.Fatalf("expected limit 2, got %d", len(spikes))
	}
	if spikes[0].SKUID != "A1" {
		t.Errorf("expected highest ratio first, got %s", spikes[0].SKUID)
	}
	// B2 and C3 tie on ratio 4.0; ascending SKU id wins the remaining slot.
	if spikes[1].SKUID != "B2" {
		t.Errorf("expected B2 on tie-break, got %s", spikes[1].SKUID)
	}
}

func TestFoldKPIEmptyDay(t *testing.T) {
	kpi := foldKPI("2025-10-30", "S001", nil, nil, nil)

	if kpi.Date != "2025-10-30" || kpi.StoreID != "S001" {
		t.Errorf("unexpected identity %+v", kpi)
	}
	if kpi.TotalSalesAmount != 0 || kpi.TotalOrders != 0 || kpi.TotalItems != 0 {
		t.Errorf("empty day must fold to zeroed totals, got %+v", kpi)
	}
	if kpi.TopCategory != nil {
		t.Errorf("empty day must have nil top_category, got %q", *kpi.TopCategory)
	}
	if kpi.TopSKU != nil {
		t.Errorf("empty day must have nil top_sku, got %+v", kpi.TopSKU)
	}
}

func TestFoldKPI(t *testing.T) {
	totals := []kpiTotals{
		{TotalSalesAmount: 1530.5, Orders: []string{"O-1", "O-2", "O-3"}, TotalItems: 12},
	}
	cats := []categoryAmount{{Category: "保健"}}
	top := skuGroup{Amount: 900, Qty: 3}
	top.ID.SKUID = "SKU-001"
	top.ID.Name = "綜合感冒藥"
	top.ID.Category = "保健"

	kpi := foldKPI("2025-10-30", "", totals, cats, []skuGroup{top})

	if kpi.TotalSalesAmount != 1530.5 || kpi.TotalItems != 12 {
		t.Errorf("unexpected totals %+v", kpi)
	}
	if kpi.TotalOrders != 3 {
		t.Errorf("expected distinct order count 3, got %d", kpi.TotalOrders)
	}
	if kpi.TopCategory == nil || *kpi.TopCategory != "保健" {
		t.Errorf("unexpected top_category %v", kpi.TopCategory)
	}
	if kpi.TopSKU == nil || kpi.TopSKU.SKUID != "SKU-001" || kpi.TopSKU.Amount != 900 {
		t.Errorf("unexpected top_sku %+v", kpi.TopSKU)
	}
}
