package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/propdesk/prop-grading/internal/domain/formula"
	"github.com/propdesk/prop-grading/internal/domain/prop"
	"github.com/propdesk/prop-grading/internal/domain/readout"
)

// ReadinessResult is a transient judgment over the prop's current parameters
// plus contextual fallbacks. It is recomputed on every check and never
// persisted; inferred values live only in ResolvedParams.
type ReadinessResult struct {
	Ready          bool
	Missing        []string
	ResolvedParams formula.Bag
}

type PreflightService struct {
	propRepo    prop.Repository
	readoutRepo readout.Repository
}

func NewPreflightService(propRepo prop.Repository, readoutRepo readout.Repository) *PreflightService {
	return &PreflightService{
		propRepo:    propRepo,
		readoutRepo: readoutRepo,
	}
}

// Preflight loads a prop and checks whether its formula kind has every
// required parameter, applying inference before validation.
func (s *PreflightService) Preflight(ctx context.Context, propID string) (ReadinessResult, error) {
	ctx, span := startUsecaseSpan(ctx, "PreflightService.Preflight")
	defer span.End()

	propID = strings.TrimSpace(propID)
	if propID == "" {
		return ReadinessResult{}, fmt.Errorf("%w: prop id is required", ErrInvalidInput)
	}

	stored, exists, err := s.propRepo.GetByID(ctx, propID)
	if err != nil {
		return ReadinessResult{}, fmt.Errorf("get prop: %w", err)
	}
	if !exists {
		return ReadinessResult{}, fmt.Errorf("%w: prop=%s", ErrNotFound, propID)
	}

	return s.PreflightProp(ctx, stored)
}

// PreflightProp validates an already-loaded prop.
func (s *PreflightService) PreflightProp(ctx context.Context, stored prop.Prop) (ReadinessResult, error) {
	kind, err := stored.Kind()
	if err != nil {
		return ReadinessResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	resolved := InferParams(stored, s.latestReadoutID(ctx, stored))
	missing, err := formula.Missing(kind, resolved)
	if err != nil {
		return ReadinessResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	return ReadinessResult{
		Ready:          len(missing) == 0,
		Missing:        missing,
		ResolvedParams: resolved,
	}, nil
}

func (s *PreflightService) latestReadoutID(ctx context.Context, stored prop.Prop) string {
	if s.readoutRepo == nil || stored.Event.League == "" {
		return ""
	}
	scope := compactDate(stored.Event.EventTime)
	if scope == "" {
		return ""
	}
	snapshot, exists, err := s.readoutRepo.LatestByScope(ctx, leagueSource(stored.Event.League), scope)
	if err != nil || !exists {
		return ""
	}
	return snapshot.GameIDForMatchup(stored.Event.HomeTeamCode, stored.Event.AwayTeamCode)
}

var compactDatePrefixRegex = regexp.MustCompile(`^(\d{8})_`)

// InferParams fills espnGameID, gameDate, and dataSource from fallback
// context without ever overwriting an explicitly stored value. The input bag
// is not mutated.
func InferParams(stored prop.Prop, latestReadoutID string) formula.Bag {
	resolved := stored.Params().Clone()

	if resolved.GetString("espnGameID") == "" {
		if gameID := firstNonBlank(stored.Event.ESPNGameID, latestReadoutID); gameID != "" {
			resolved["espnGameID"] = gameID
		}
	}

	if resolved.GetString("gameDate") == "" {
		gameDate := compactDate(stored.Event.EventTime)
		if gameDate == "" {
			gameDate = embeddedCompactDate(resolved)
		}
		if gameDate != "" {
			resolved["gameDate"] = gameDate
		}
	}

	if resolved.GetString("dataSource") == "" {
		resolved["dataSource"] = leagueSource(stored.Event.League)
	}

	return resolved
}

// embeddedCompactDate pulls a leading eight-digit date out of any
// gameId-shaped field already present in the bag.
func embeddedCompactDate(bag formula.Bag) string {
	for _, key := range []string{"gameId", "gameID", "espnGameID"} {
		if match := compactDatePrefixRegex.FindStringSubmatch(bag.GetString(key)); match != nil {
			return match[1]
		}
	}
	return ""
}

func compactDate(eventTime time.Time) string {
	if eventTime.IsZero() {
		return ""
	}
	return eventTime.UTC().Format("20060102")
}

func leagueSource(league string) string {
	if strings.EqualFold(strings.TrimSpace(league), "nfl") {
		return "nfl"
	}
	return "major-mlb"
}

func firstNonBlank(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}
