package factory

import (
	"github.com/mcoot/sleuthgame-go/internal/dependencies/mocks"
	"github.com/mcoot/sleuthgame-go/internal/storage/memory"
	"github.com/mcoot/sleuthgame-go/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App over memory storage with mocked time and
// randomness
func NewTestApp() *TestApp {
	mockClock := mocks.NewMockClock(testutil.Epoch)
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(memory.New(), mockClock, mockRandom, testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}
