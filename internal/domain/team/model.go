package team

import "fmt"

// Team is an NBA franchise from the teams reference table.
type Team struct {
	ID           int64
	Name         string
	Abbreviation string
}

func (t Team) Validate() error {
	if t.ID <= 0 {
		return fmt.Errorf("team id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}

	return nil
}
