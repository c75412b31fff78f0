package offline

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/five82/backlog/internal/game"
)

func openTestQueue(t *testing.T) *SQLiteQueue {
	t.Helper()
	q, err := OpenSQLite(filepath.Join(t.TempDir(), "nested", "queue.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { _ = q.Close() })
	return q
}

func TestSQLiteQueue_Games(t *testing.T) {
	ctx := context.Background()
	q := openTestQueue(t)

	games, err := q.GetAllGames(ctx)
	if err != nil || len(games) != 0 {
		t.Fatalf("GetAllGames on empty db = %v, %v; want none", games, err)
	}

	in := []game.Game{
		game.Transform(game.Raw{Title: "Zelda (Switch)", Status: "Completed", FinishedDate: "01/02/2023", Score: game.Float(9.2)}),
		game.Transform(game.Raw{Title: "Celeste"}),
	}
	if err := q.PutAllGames(ctx, in); err != nil {
		t.Fatalf("PutAllGames: %v", err)
	}
	if err := q.PutAllGames(ctx, in); err != nil {
		t.Fatalf("PutAllGames again: %v", err)
	}
	out, err := q.GetAllGames(ctx)
	if err != nil {
		t.Fatalf("GetAllGames: %v", err)
	}
	if len(out) != 2 || out[0].Title != in[0].Title || out[1].Title != "Celeste" {
		t.Fatalf("GetAllGames = %#v, want insertion order", out)
	}
	if out[0].Tier == nil || *out[0].Tier != game.TierS {
		t.Fatalf("tier = %v, want S after round trip", out[0].Tier)
	}
}

func TestSQLiteQueue_Pending(t *testing.T) {
	ctx := context.Background()
	q := openTestQueue(t)

	if _, err := q.GetPendingSync(ctx); !errors.Is(err, ErrNoPending) {
		t.Fatalf("GetPendingSync err = %v, want ErrNoPending", err)
	}

	first := Payload{Games: []game.Game{game.Transform(game.Raw{Title: "A"})}, Token: 1}
	second := Payload{Games: []game.Game{game.Transform(game.Raw{Title: "B"})}, Token: 2}
	if err := q.PutPendingSync(ctx, first); err != nil {
		t.Fatalf("PutPendingSync: %v", err)
	}
	if err := q.PutPendingSync(ctx, second); err != nil {
		t.Fatalf("PutPendingSync: %v", err)
	}

	got, err := q.GetPendingSync(ctx)
	if err != nil {
		t.Fatalf("GetPendingSync: %v", err)
	}
	if got.Token != 2 || got.Games[0].Title != "B" {
		t.Fatalf("pending = %#v, want single slot holding the latest payload", got)
	}

	if err := q.ClearPendingSync(ctx); err != nil {
		t.Fatalf("ClearPendingSync: %v", err)
	}
	if _, err := q.GetPendingSync(ctx); !errors.Is(err, ErrNoPending) {
		t.Fatalf("after clear err = %v, want ErrNoPending", err)
	}
}
