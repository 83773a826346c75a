package payment

import "github.com/shopspring/decimal"

// Processor turns coins into money and keeps the running earnings.
type Processor struct {
	earnings decimal.Decimal
}

func NewProcessor() *Processor {
	return &Processor{earnings: decimal.Zero}
}

// CollectCoins totals the inserted coins, rounded half-up to cents.
func (p *Processor) CollectCoins(c Coins) decimal.Decimal {
	total := decimal.Zero
	for _, coin := range Denominations() {
		total = total.Add(coin.Value().Mul(decimal.NewFromInt(int64(c.Count(coin)))))
	}
	return total.Round(2)
}

// Evaluate accepts when total covers cost. A refused payment keeps nothing.
func (p *Processor) Evaluate(total, cost decimal.Decimal) Verdict {
	if total.LessThan(cost) {
		return Verdict{Status: StatusRefused, Change: decimal.Zero}
	}
	return Verdict{Status: StatusAccepted, Change: total.Sub(cost).Round(2)}
}

// RecordEarning adds the drink cost; change is never profit.
func (p *Processor) RecordEarning(cost decimal.Decimal) {
	p.earnings = p.earnings.Add(cost)
}

func (p *Processor) Earnings() decimal.Decimal {
	return p.earnings
}
