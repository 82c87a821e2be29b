package prop

import (
	"fmt"
	"time"

	"github.com/propdesk/prop-grading/internal/domain/formula"
)

// EventLink ties a prop to the sporting event it grades against. Fields come
// from the authoring tool's event lookup and may be partially filled.
type EventLink struct {
	ESPNGameID   string
	League       string
	EventTime    time.Time
	HomeTeamCode string
	AwayTeamCode string
}

// Prop is a gradable proposition authored upstream. This service reads its
// formula configuration and validates or grades it; it never authors props.
type Prop struct {
	ID            string
	AirtableID    string
	PackID        string
	FormulaKey    string
	FormulaParams formula.Bag
	Status        string
	Result        string
	Event         EventLink
}

func (p Prop) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("prop id is required")
	}
	if p.AirtableID == "" {
		return fmt.Errorf("prop airtable id is required")
	}
	if p.FormulaKey == "" {
		return fmt.Errorf("prop formula key is required")
	}
	if _, err := formula.ParseKind(p.FormulaKey); err != nil {
		return err
	}
	return nil
}

// Kind parses the stored formula key against the catalog.
func (p Prop) Kind() (formula.Kind, error) {
	return formula.ParseKind(p.FormulaKey)
}

// Params returns the stored parameter bag, never nil.
func (p Prop) Params() formula.Bag {
	if p.FormulaParams == nil {
		return formula.Bag{}
	}
	return p.FormulaParams
}
