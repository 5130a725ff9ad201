package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/sleuthgame-go/internal/model"
)

func TestResolveEvent(t *testing.T) {
	tests := []struct {
		arg  string
		want model.EventName
	}{
		{"delay-the-murderers-escape", model.EventDelayTheEscape},
		{"and-then-there-was-one-more", model.EventOneMore},
		{"Card trade", model.EventCardTrade},
		{"early train to paddington", model.EventEarlyTrain},
	}
	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			got, err := resolveEvent(tt.arg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := resolveEvent("tea-party")
	assert.Error(t, err)
}

func TestSessionPath(t *testing.T) {
	assert.Equal(t, "/api/v1/sessions/7", sessionPath(7))
	assert.Equal(t, "/api/v1/sessions/7/players/3/hand/pickup", playerPath(7, 3, "hand", "pickup"))
}
