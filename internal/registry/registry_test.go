package registry

import (
	"testing"

	"github.com/vovakirdan/tiledrop/internal/core"
)

type stubGame struct{ id string }

func (g *stubGame) ID() string { return g.id }
func (g *stubGame) Title() string { return "Stub" }
func (g *stubGame) Reset(core.RuntimeConfig) {}
func (g *stubGame) Step(core.InputFrame) core.StepResult { return core.StepResult{} }
func (g *stubGame) Render(*core.Screen) {}
func (g *stubGame) State() core.GameState { return core.GameState{} }

func TestRegisterCreate(t *testing.T) {
	id := "stub_register"
	Register(GameInfo{ID: id, Title: "Stub"}, func() Game { return &stubGame{id: id} })
	t.Cleanup(func() { Unregister(id) })

	if !Exists(id) {
		t.Fatalf("Exists(%q) = false after Register", id)
	}
	g, err := Create(id)
	if err != nil {
		t.Fatalf("Create(%q) error = %v", id, err)
	}
	if g.ID() != id {
		t.Errorf("created game ID = %q, want %q", g.ID(), id)
	}
	info, ok := Info(id)
	if !ok || info.Title != "Stub" {
		t.Errorf("Info(%q) = %+v, %v", id, info, ok)
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	id := "stub_duplicate"
	Register(GameInfo{ID: id}, func() Game { return &stubGame{id: id} })
	t.Cleanup(func() { Unregister(id) })

	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	Register(GameInfo{ID: id}, func() Game { return &stubGame{id: id} })
}

func TestCreateUnknown(t *testing.T) {
	if _, err := Create("no_such_game"); err == nil {
		t.Error("expected error for unknown game")
	}
}

func TestListSorted(t *testing.T) {
	for _, id := range []string{"stub_b", "stub_a"} {
		id := id
		Register(GameInfo{ID: id}, func() Game { return &stubGame{id: id} })
		t.Cleanup(func() { Unregister(id) })
	}

	list := List()
	for i := 1; i < len(list); i++ {
		if list[i-1].ID > list[i].ID {
			t.Errorf("List() not sorted: %q before %q", list[i-1].ID, list[i].ID)
		}
	}

	Unregister("stub_a")
	if Exists("stub_a") {
		t.Error("Unregister did not remove stub_a")
	}
}
