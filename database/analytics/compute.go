package analytics

import (
	"math"
	"sort"
)

// skuQty is a per-SKU quantity sum over one date window.
type skuQty struct {
	SKUID    string
	Name     string
	Category string
	Qty      int
}

// daysLeft estimates stock coverage as stock / (sales_7d / 7), rounded to one
// decimal. Nil when the trailing week had no sales.
func daysLeft(stock, sales7d int) *float64 {
	if sales7d <= 0 {
		return nil
	}
	daily := float64(sales7d) / 7
	v := round1(float64(stock) / daily)
	return &v
}

// computeSpikes compares today's per-SKU quantities against the trailing
// window. SKUs with a zero trailing average are excluded: there is no
// meaningful ratio to report. Results sort by ratio descending, SKU id
// ascending on ties.
func computeSpikes(trailing, today []skuQty, ratio float64, limit int) []SpikeItem {
	avg := make(map[string]float64, len(trailing))
	for _, t := range trailing {
		avg[t.SKUID] = float64(t.Qty) / 7
	}

	var spikes []SpikeItem
	for _, t := range today {
		avgDaily, ok := avg[t.SKUID]
		if !ok || avgDaily <= 0 {
			continue
		}
		if float64(t.Qty) >= ratio*avgDaily {
			spikes = append(spikes, SpikeItem{
				SKUID:      t.SKUID,
				Name:       t.Name,
				Category:   t.Category,
				QtyToday:   t.Qty,
				Avg7dDaily: round2(avgDaily),
				Ratio:      round2(float64(t.Qty) / avgDaily),
			})
		}
	}

	sort.Slice(spikes, func(i, j int) bool {
		if spikes[i].Ratio != spikes[j].Ratio {
			return spikes[i].Ratio > spikes[j].Ratio
		}
		return spikes[i].SKUID < spikes[j].SKUID
	})

	if limit > 0 && len(spikes) > limit {
		spikes = spikes[:limit]
	}
	return spikes
}

// foldKPI assembles a day's KPI from the three aggregation results. A day
// with no matching sales rows folds to zeroed totals and nil top fields.
func foldKPI(date, storeID string, totals []kpiTotals, cats []categoryAmount, skus []skuGroup) *KPI {
	kpi := &KPI{Date: date, StoreID: storeID}

	if len(totals) > 0 {
		kpi.TotalSalesAmount = totals[0].TotalSalesAmount
		kpi.TotalOrders = len(totals[0].Orders)
		kpi.TotalItems = totals[0].TotalItems
	}
	if len(cats) > 0 {
		kpi.TopCategory = &cats[0].Category
	}
	if len(skus) > 0 {
		top := skus[0]
		kpi.TopSKU = &TopSKU{
			SKUID:  top.ID.SKUID,
			Name:   top.ID.Name,
			Amount: top.Amount,
			Qty:    top.Qty,
		}
	}
	return kpi
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
