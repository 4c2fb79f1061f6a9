package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/mcoot/tetris-showcase/internal/api/response"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
	errW   io.Writer
}

// NewOutputTo creates an Output formatter writing to the given streams
func NewOutputTo(format string, w, errW io.Writer) *Output {
	return &Output{format: format, w: w, errW: errW}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == OutputJSON {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == OutputJSON {
		data, _ := json.Marshal(map[string]string{"message": msg})
		_, _ = fmt.Fprintln(o.w, string(data))
	} else {
		_, _ = fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(o.w, format, args...)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.Health:
		o.printf("Status: %s\n", v.Status)
		o.printf("Active sessions: %d\n", v.Sessions)
	case response.Leaderboard:
		o.printLeaderboard(v.Records)
	case response.Record:
		o.printRecord(v)
	case response.Stats:
		o.printStats(v)
	case response.Export:
		o.printf("Exported %d records at %s\n", v.TotalRecords, v.Timestamp)
		o.printLeaderboard(v.Data)
	case response.ClearResult:
		o.printf("Deleted %d records\n", v.DeletedCount)
	case response.AdminSession:
		o.printf("Logged in as %s\n", v.Username)
		o.printf("Expires: %s\n", v.ExpiresAt)
	case response.Session:
		o.printSession(v)
	case response.SessionList:
		o.printSessionList(v.Sessions)
	case response.PlayerView:
		o.printPlayer(v)
	case response.Autoplay:
		o.printAutoplay(v)
	default:
		o.printJSON(data)
	}
}

func (o *Output) printLeaderboard(records []response.Record) {
	if len(records) == 0 {
		o.printf("No records yet\n")
		return
	}

	tw := tabwriter.NewWriter(o.w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "RANK\tNAME\tCOMPANY\tSCORE\tLINES\tLEVEL\tTETRISES\tID")
	for i, r := range records {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%d\t%d\t%s\n",
			i+1, r.Name, r.Company, r.Score, r.Lines, r.Level, r.Tetrises, r.ID)
	}
	_ = tw.Flush()
}

func (o *Output) printRecord(r response.Record) {
	o.printf("Record: %s\n", r.ID)
	o.printf("Name: %s\n", r.Name)
	if r.Company != "" {
		o.printf("Company: %s\n", r.Company)
	}
	o.printf("Score: %d\n", r.Score)
	o.printf("Level: %d  Lines: %d  Tetrises: %d  Pieces: %d\n", r.Level, r.Lines, r.Tetrises, r.PiecesPlaced)
	o.printf("Avg reaction: %dms  Accuracy: %.1f%%  Intensity: %.1f/min\n",
		r.AverageReactionTimeMS, r.InputAccuracy, r.Intensity)
	o.printf("Duration: %dms  Mode: %s\n", r.GameDurationMS, r.GameMode)
	o.printf("Recorded: %s\n", r.Timestamp)
}

func (o *Output) printStats(s response.Stats) {
	o.printf("Players: %d\n", s.TotalPlayers)
	o.printf("Total score: %d\n", s.TotalScore)
	o.printf("Average score: %.1f\n", s.AverageScore)
	o.printf("Top score: %d\n", s.TopScore)
}

func (o *Output) printSession(s response.Session) {
	o.printf("Session: %s\n", s.ID)
	o.printf("Mode: %s\n", s.Mode)
	o.printf("Created: %s\n", s.CreatedAt)
	for _, p := range s.Players {
		o.printf("\n")
		o.printPlayer(p)
	}
}

func (o *Output) printSessionList(sessions []response.SessionSummary) {
	if len(sessions) == 0 {
		o.printf("No active sessions\n")
		return
	}

	tw := tabwriter.NewWriter(o.w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tMODE\tPLAYERS\tCREATED")
	for _, s := range sessions {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.ID, s.Mode, strings.Join(s.Players, ", "), s.CreatedAt)
	}
	_ = tw.Flush()
}

func (o *Output) printPlayer(p response.PlayerView) {
	o.printf("Player %d: %s", p.Index, p.Name)
	if p.Company != "" {
		o.printf(" (%s)", p.Company)
	}
	o.printf("\n")

	state := "playing"
	switch {
	case p.State.IsGameOver:
		state = "game over"
	case p.State.IsPaused:
		state = "paused"
	}
	o.printf("State: %s\n", state)
	if p.Changed != nil {
		o.printf("Changed: %t\n", *p.Changed)
	}
	o.printf("Score: %d  Level: %d  Lines: %d  Pieces: %d\n",
		p.Stats.Score, p.Stats.Level, p.Stats.Lines, p.Stats.PiecesPlaced)
	o.printf("Keypresses: %d  Accuracy: %.1f%%  Avg reaction: %dms\n",
		p.Stats.Keypresses, p.Stats.InputAccuracy, p.Stats.AverageReactionTimeMS)

	o.printBoard(p.State)
}

func (o *Output) printAutoplay(a response.Autoplay) {
	lines := 0
	for _, m := range a.Moves {
		lines += m.Lines
	}
	o.printf("Strategy: %s\n", a.Strategy)
	o.printf("Placed %d pieces, cleared %d lines\n\n", len(a.Moves), lines)
	o.printPlayer(a.Player)
}

// printBoard draws the locked cells with the active piece overlaid
func (o *Output) printBoard(s response.GameState) {
	if len(s.Board) == 0 {
		return
	}

	rows := make([][]byte, len(s.Board))
	for y, row := range s.Board {
		rows[y] = []byte(row)
	}
	if s.Piece != nil {
		for dy, line := range s.Piece.Matrix {
			for dx, filled := range line {
				x, y := s.Piece.X+dx, s.Piece.Y+dy
				if filled && y >= 0 && y < len(rows) && x >= 0 && x < len(rows[y]) {
					rows[y][x] = '@'
				}
			}
		}
	}

	border := "+" + strings.Repeat("-", s.Width) + "+\n"
	o.printf("%s", border)
	for _, row := range rows {
		o.printf("|%s|\n", row)
	}
	o.printf("%s", border)
}
