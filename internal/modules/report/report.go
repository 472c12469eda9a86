// README: Route opportunity reporter — derives summary, financial and comparison views.
package report

import (
	"math"
	"time"

	"medtransit/internal/modules/routing"
	"medtransit/internal/types"
)

const (
	fuelEfficiencyMPG  = 8.0
	fuelPricePerGallon = 3.50
	carbonKgPerMile    = 0.404
	// Flat per-mile operating cost used for margin/ROI derivation.
	operatingCostPerMile = 2.50
)

type Summary struct {
	OpportunityID     types.ID          `json:"opportunity_id"`
	RouteType         routing.RouteType `json:"route_type"`
	RequestCount      int               `json:"request_count"`
	StopCount         int               `json:"stop_count"`
	Window            types.TimeWindow  `json:"window"`
	OptimizationScore float64           `json:"optimization_score"`
}

type FinancialAnalysis struct {
	RevenuePotential types.Money `json:"revenue_potential"`
	RevenueIncrease  types.Money `json:"revenue_increase"`
	FuelSavings      float64     `json:"fuel_savings"`
	OperatingCost    float64     `json:"operating_cost"`
	ProfitMarginPct  float64     `json:"profit_margin_pct"`
	ROIPct           float64     `json:"roi_pct"`
}

type OperationalMetrics struct {
	TotalMiles         float64       `json:"total_miles"`
	TotalTime          time.Duration `json:"total_time"`
	MilesSaved         float64       `json:"miles_saved"`
	UnitsSaved         int           `json:"units_saved"`
	CarbonReductionKg  float64       `json:"carbon_reduction_kg"`
	DeadheadMiles      float64       `json:"deadhead_miles"`
	GeoEfficiency      float64       `json:"geo_efficiency"`
	TemporalEfficiency float64       `json:"temporal_efficiency"`
}

// ComparisonData reconstructs the "before" state by adding the computed
// savings back onto the optimized figures. This is a modeling simplification,
// not an independently measured control group.
type ComparisonData struct {
	BaselineMiles    float64     `json:"baseline_miles"`
	OptimizedMiles   float64     `json:"optimized_miles"`
	BaselineUnits    int         `json:"baseline_units"`
	OptimizedUnits   int         `json:"optimized_units"`
	BaselineRevenue  types.Money `json:"baseline_revenue"`
	OptimizedRevenue types.Money `json:"optimized_revenue"`
}

type Report struct {
	Summary     Summary            `json:"summary"`
	Financial   FinancialAnalysis  `json:"financial_analysis"`
	Operational OperationalMetrics `json:"operational_metrics"`
	Comparison  ComparisonData     `json:"comparison_data"`
}

// BuildReport is a pure function over one opportunity.
func BuildReport(o routing.Opportunity) Report {
	fuelSavings := o.MilesSaved / fuelEfficiencyMPG * fuelPricePerGallon
	operatingCost := o.TotalMiles * operatingCostPerMile

	totalBenefit := float64(o.RevenueIncrease.Amount) + fuelSavings
	profitMargin := 0.0
	if o.RevenuePotential.Amount > 0 {
		profitMargin = totalBenefit / float64(o.RevenuePotential.Amount) * 100
	}
	roi := 0.0
	if operatingCost > 0 {
		roi = totalBenefit / operatingCost * 100
	}

	return Report{
		Summary: Summary{
			OpportunityID:     o.ID,
			RouteType:         o.RouteType,
			RequestCount:      len(o.RequestIDs),
			StopCount:         len(o.Stops),
			Window:            o.Window,
			OptimizationScore: o.OptimizationScore,
		},
		Financial: FinancialAnalysis{
			RevenuePotential: o.RevenuePotential,
			RevenueIncrease:  o.RevenueIncrease,
			FuelSavings:      round2(fuelSavings),
			OperatingCost:    round2(operatingCost),
			ProfitMarginPct:  round2(profitMargin),
			ROIPct:           round2(roi),
		},
		Operational: OperationalMetrics{
			TotalMiles:         o.TotalMiles,
			TotalTime:          o.TotalTime,
			MilesSaved:         o.MilesSaved,
			UnitsSaved:         o.UnitsSaved,
			CarbonReductionKg:  round2(o.MilesSaved * carbonKgPerMile),
			DeadheadMiles:      o.Chaining.DeadheadMiles,
			GeoEfficiency:      o.GeoEfficiency,
			TemporalEfficiency: o.TemporalEfficiency,
		},
		Comparison: ComparisonData{
			BaselineMiles:  o.TotalMiles + o.MilesSaved,
			OptimizedMiles: o.TotalMiles,
			BaselineUnits:  len(o.RequestIDs),
			OptimizedUnits: 1,
			BaselineRevenue: types.Money{
				Amount:   o.RevenuePotential.Amount - o.RevenueIncrease.Amount,
				Currency: o.RevenuePotential.Currency,
			},
			OptimizedRevenue: o.RevenuePotential,
		},
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
