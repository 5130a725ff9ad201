package memory

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/sleuthgame-go/internal/model"
	"github.com/mcoot/sleuthgame-go/internal/storage"
	"github.com/mcoot/sleuthgame-go/internal/storage/storagetest"
	"github.com/mcoot/sleuthgame-go/internal/testutil"
)

func TestStorageSuite(t *testing.T) {
	suite.Run(t, &storagetest.Suite{
		NewStorage: func(t *testing.T) storage.Storage { return New() },
	})
}

func TestGetSessionReturnsCopy(t *testing.T) {
	store := New()
	ctx := t.Context()
	session := testutil.NewSession(2)
	if err := store.CreateSession(ctx, session); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := store.GetSession(ctx, session.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	got.Players[0].Name = "mutated"
	got.Phase = model.PhaseFinished

	again, err := store.GetSession(ctx, session.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if again.Players[0].Name == "mutated" || again.Phase == model.PhaseFinished {
		t.Fatal("GetSession leaked a reference to stored state")
	}
}
