package usecase

import (
	"context"
	"strings"

	"github.com/propdesk/prop-grading/internal/platform/logging"
)

// SelectionState is the lifecycle of the operator's active event selection.
type SelectionState string

const (
	SelectionIdle    SelectionState = "idle"
	SelectionLoading SelectionState = "loading"
	SelectionReady   SelectionState = "ready"
	SelectionError   SelectionState = "error"
)

// SelectionSnapshot is a point-in-time copy of the controller's state.
type SelectionSnapshot struct {
	State   SelectionState
	Source  string
	GameID  string
	View    BoxScoreView
	Message string
}

type selectCommand struct {
	source    string
	gameID    string
	teamCodes []string
}

type fetchResult struct {
	generation uint64
	view       BoxScoreView
	err        error
}

type snapshotRequest struct {
	reply chan SelectionSnapshot
}

// SelectionController serializes event selection through a single loop. All
// state lives inside the loop goroutine; selecting a new event cancels the
// in-flight fetch so a stale payload can never overwrite the newer choice.
type SelectionController struct {
	boxScores *BoxScoreService
	logger    *logging.Logger

	selects   chan selectCommand
	clears    chan struct{}
	results   chan fetchResult
	snapshots chan snapshotRequest
	quit      chan struct{}
	stopped   chan struct{}
}

func NewSelectionController(boxScores *BoxScoreService, logger *logging.Logger) *SelectionController {
	if logger == nil {
		logger = logging.Default()
	}
	c := &SelectionController{
		boxScores: boxScores,
		logger:    logger,
		selects:   make(chan selectCommand),
		clears:    make(chan struct{}),
		results:   make(chan fetchResult, 1),
		snapshots: make(chan snapshotRequest),
		quit:      make(chan struct{}),
		stopped:   make(chan struct{}),
	}
	go c.run()
	return c
}

// Select switches the active event and starts loading its box score.
func (c *SelectionController) Select(source, gameID string, teamCodes []string) {
	cmd := selectCommand{
		source:    strings.TrimSpace(source),
		gameID:    strings.TrimSpace(gameID),
		teamCodes: teamCodes,
	}
	select {
	case c.selects <- cmd:
	case <-c.quit:
	}
}

// Clear drops the active selection and returns to idle.
func (c *SelectionController) Clear() {
	select {
	case c.clears <- struct{}{}:
	case <-c.quit:
	}
}

// Snapshot returns the current selection state.
func (c *SelectionController) Snapshot() SelectionSnapshot {
	req := snapshotRequest{reply: make(chan SelectionSnapshot, 1)}
	select {
	case c.snapshots <- req:
		return <-req.reply
	case <-c.quit:
		return SelectionSnapshot{State: SelectionIdle}
	}
}

// Close stops the loop and cancels any in-flight fetch.
func (c *SelectionController) Close() {
	close(c.quit)
	<-c.stopped
}

func (c *SelectionController) run() {
	defer close(c.stopped)

	var (
		snapshot   = SelectionSnapshot{State: SelectionIdle}
		generation uint64
		cancel     context.CancelFunc
	)
	cancelActive := func() {
		if cancel != nil {
			cancel()
			cancel = nil
		}
	}
	defer cancelActive()

	for {
		select {
		case cmd := <-c.selects:
			cancelActive()
			generation++
			if cmd.source == "" || cmd.gameID == "" {
				snapshot = SelectionSnapshot{State: SelectionError, Message: "source and game id are required"}
				continue
			}
			snapshot = SelectionSnapshot{State: SelectionLoading, Source: cmd.source, GameID: cmd.gameID}

			fetchCtx, fetchCancel := context.WithCancel(context.Background())
			cancel = fetchCancel
			go c.fetch(fetchCtx, generation, cmd)

		case result := <-c.results:
			if result.generation != generation {
				continue
			}
			cancel = nil
			if result.err != nil {
				snapshot.State = SelectionError
				snapshot.Message = result.err.Error()
				continue
			}
			snapshot.State = SelectionReady
			snapshot.Message = ""
			snapshot.View = result.view

		case <-c.clears:
			cancelActive()
			generation++
			snapshot = SelectionSnapshot{State: SelectionIdle}

		case req := <-c.snapshots:
			req.reply <- snapshot

		case <-c.quit:
			return
		}
	}
}

func (c *SelectionController) fetch(ctx context.Context, generation uint64, cmd selectCommand) {
	view, err := c.boxScores.GetBoxScore(ctx, cmd.source, cmd.gameID, cmd.teamCodes)
	if err != nil && ctx.Err() != nil {
		// Superseded by a newer selection; the loop already moved on.
		return
	}
	select {
	case c.results <- fetchResult{generation: generation, view: view, err: err}:
	case <-c.quit:
	}
}
