package cart

// ComputeTotal returns the cart total in minor currency units.
//
// The order is fixed: the discount applies to the pre-tax base, the tax to the
// post-discount amount. Integer division truncates, matching how totals have
// always been computed; do not switch to any rounding mode.
func ComputeTotal(c *Cart) int64 {
	var base int64
	for _, l := range c.Lines {
		base += l.Item.Price * int64(l.Quantity)
	}

	total := base
	if c.Discount != nil {
		total -= base * int64(c.Discount.PercentOff) / 100
	}
	if c.Tax != nil {
		total += total * int64(c.Tax.Percentage) / 100
	}
	return total
}
