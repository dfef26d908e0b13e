package stockcard

import "fmt"

// Percent is a percentage: 20 means 20%.
type Percent float64

func (p Percent) Equal(q Percent) bool {
	// it has to be compared with some precision
	const precision = 0.0001
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

func (p Percent) String() string {
	return fmt.Sprintf("%.1f%%", p)
}

// SignedString formats with one decimal and an explicit sign, e.g. "+20.0%".
// Zero is shown as "+0.0%".
func (p Percent) SignedString() string {
	if p < 0 {
		return fmt.Sprintf("%.1f%%", p)
	}
	return fmt.Sprintf("+%.1f%%", p)
}
