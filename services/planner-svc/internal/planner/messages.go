package planner

import "fmt"

func autonomyMessage(elapsedHours, windowHours float64) string {
	return fmt.Sprintf(
		"critical repairs take %.1fh, exceeding the %.1fh generator safety window",
		elapsedHours, windowHours)
}

func budgetExhaustedMessage(count int) string {
	return fmt.Sprintf(
		"%d building(s) remain unplanned after all budget phases", count)
}
