package game

// Rules holds the static costs, horizon, and demand parameters for one
// tournament. A zero Rules value is invalid; start from DefaultRules.
type Rules struct {
	// HorizonWeeks is the number of weeks played before an instance finishes.
	HorizonWeeks int
	// InitialInventory is every role's starting stock.
	InitialInventory int
	// PipelinePreFill is the unit count pre-loaded into every pipeline slot,
	// determining what arrives in weeks 1 and 2 before play catches up.
	PipelinePreFill int
	// HoldingRate is the weekly cost per unit held in inventory.
	HoldingRate float64
	// BackorderRate is the weekly cost per unit of unmet demand.
	BackorderRate float64
	// BaseDemand is the retailer's customer demand per week (1-based week w
	// reads BaseDemand[w-1]); weeks past the end reuse the last value.
	BaseDemand []int
	// FestiveCount festive weeks are drawn from [FestiveMin, FestiveMax]
	// (inclusive); each doubles the previous week's resolved demand.
	FestiveCount int
	FestiveMin   int
	FestiveMax   int
}

// DefaultRules returns the reference configuration: 25 weeks, 150 initial
// inventory, 20-unit pipeline pre-fill, 0.75/1.50 cost rates, and 3 festive
// weeks drawn from weeks 6..22.
func DefaultRules() Rules {
	return Rules{
		HorizonWeeks:     25,
		InitialInventory: 150,
		PipelinePreFill:  20,
		HoldingRate:      0.75,
		BackorderRate:    1.50,
		BaseDemand: []int{
			// Week:  1   2   3   4   5   6   7   8   9  10  11  12  13
			20, 30, 40, 40, 40, 40, 60, 80, 80, 80, 80, 80, 60,
			// Week: 14  15  16  17  18  19  20  21  22  23  24  25
			60, 80, 80, 80, 80, 80, 80, 80, 80, 80, 80, 80,
		},
		FestiveCount: 3,
		FestiveMin:   6,
		FestiveMax:   22,
	}
}

// Validate rejects rule sets the engine cannot run.
func (r Rules) Validate() error {
	if r.HorizonWeeks < 1 {
		return Errorf(CodeBadRules, "horizon must be >= 1 week, got %d", r.HorizonWeeks)
	}
	if r.InitialInventory < 0 {
		return Errorf(CodeBadRules, "initial inventory must be >= 0, got %d", r.InitialInventory)
	}
	if r.PipelinePreFill < 0 {
		return Errorf(CodeBadRules, "pipeline pre-fill must be >= 0, got %d", r.PipelinePreFill)
	}
	if r.HoldingRate < 0 || r.BackorderRate < 0 {
		return Errorf(CodeBadRules, "cost rates must be >= 0, got holding=%v backorder=%v",
			r.HoldingRate, r.BackorderRate)
	}
	if len(r.BaseDemand) == 0 {
		return Errorf(CodeBadRules, "base demand schedule is empty")
	}
	for i, d := range r.BaseDemand {
		if d < 0 {
			return Errorf(CodeBadRules, "base demand for week %d is negative (%d)", i+1, d)
		}
	}
	if r.FestiveCount < 0 {
		return Errorf(CodeBadRules, "festive count must be >= 0, got %d", r.FestiveCount)
	}
	if r.FestiveCount > 0 {
		if r.FestiveMin < 2 {
			return Errorf(CodeBadRules, "festive window must start at week 2 or later, got %d", r.FestiveMin)
		}
		window := r.FestiveMax - r.FestiveMin + 1
		if window < r.FestiveCount {
			return Errorf(CodeBadRules, "festive window [%d,%d] cannot hold %d distinct weeks",
				r.FestiveMin, r.FestiveMax, r.FestiveCount)
		}
	}
	return nil
}
